package main

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// printed by RASSI in place of values under its print threshold
	belowThreshold = "below threshold"
	zeroValue      = "0.00000000E-00"
)

// isIndex reports whether s is a non-empty run of ASCII digits
func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseFloat parses a Fortran-style float, accepting D as the exponent
// marker
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(
		strings.Replace(strings.Replace(s, "D", "E", 1), "d", "e", 1),
		64,
	)
}

// toFloat converts a list of strings to float64s, stopping at the
// first failure
func toFloat(strs []string) ([]float64, error) {
	ret := make([]float64, len(strs))
	var err error
	for i, s := range strs {
		ret[i], err = parseFloat(s)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// compressed file extensions recognized by OpenInput
var compressExts = map[string]struct{}{
	".gz":   {},
	".zst":  {},
	".zstd": {},
}

// TrimExt returns filename without its extension, also removing a
// compression extension first if there is one
func TrimExt(filename string) string {
	ext := filepath.Ext(filename)
	if _, ok := compressExts[strings.ToLower(ext)]; ok {
		filename = strings.TrimSuffix(filename, ext)
		ext = filepath.Ext(filename)
	}
	return strings.TrimSuffix(filename, ext)
}

// BaseName is the base of filename with its extensions trimmed
func BaseName(filename string) string {
	return TrimExt(filepath.Base(filename))
}
