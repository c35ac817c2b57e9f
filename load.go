package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnreadableInput = errors.New("unreadable input")
	ErrBadConfig       = errors.New("bad config")
)

// Markers overrides the text that opens and closes a transition table
type Markers struct {
	Start string `toml:"start" yaml:"start"`
	End   string `toml:"end" yaml:"end"`
}

// RawConf is the on-disk form of Config
type RawConf struct {
	Units     string             `toml:"units" yaml:"units"`
	Threshold float64            `toml:"threshold" yaml:"threshold"`
	Trunc     bool               `toml:"trunc" yaml:"trunc"`
	Types     []string           `toml:"types" yaml:"types"`
	Column    int                `toml:"column" yaml:"column"`
	OutDir    string             `toml:"outdir" yaml:"outdir"`
	Markers   map[string]Markers `toml:"markers" yaml:"markers"`
}

// Config holds the options shared by the subcommands. Units stays a
// string because each command accepts a different set of units.
type Config struct {
	Units     string
	Threshold float64
	Trunc     bool
	Kinds     []Kind
	Column    int
	OutDir    string
	Schemas   [NumKinds]Schema
}

// DefaultRawConf returns the built-in defaults. Units is left empty
// so each command can supply its own.
func DefaultRawConf() RawConf {
	return RawConf{
		Threshold: 0.0,
		Types:     []string{Dipole.String()},
		OutDir:    ".",
	}
}

func (rc RawConf) ToConfig() (conf Config, err error) {
	conf.Units = rc.Units
	conf.Threshold = rc.Threshold
	conf.Trunc = rc.Trunc
	conf.Column = rc.Column
	conf.OutDir = rc.OutDir
	conf.Kinds, err = ParseKinds(rc.Types)
	if err != nil {
		return conf, err
	}
	conf.Schemas = DefaultSchemas()
	for name, m := range rc.Markers {
		k, err := ParseKind(name)
		if err != nil {
			return conf, fmt.Errorf("markers: %w", err)
		}
		if m.Start != "" {
			conf.Schemas[k].Start = m.Start
		}
		if m.End != "" {
			conf.Schemas[k].End = m.End
		}
	}
	return conf, nil
}

// LoadConfig reads a TOML config file, or a YAML one if filename ends
// in .yaml or .yml, on top of DefaultRawConf. An empty filename yields
// the defaults.
func LoadConfig(filename string) (Config, error) {
	rc := DefaultRawConf()
	if filename == "" {
		return rc.ToConfig()
	}
	cont, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(cont, &rc)
	default:
		err = toml.Unmarshal(cont, &rc)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrBadConfig,
			filename, err)
	}
	conf, err := rc.ToConfig()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrBadConfig,
			filename, err)
	}
	return conf, nil
}

// input couples a decompressor with the file beneath it so both are
// closed together
type input struct {
	io.Reader
	closers []io.Closer
}

func (in *input) Close() error {
	var err error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if e := in.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// OpenInput opens filename for reading, decompressing it when the
// extension is .gz, .zst or .zstd. Failures wrap ErrUnreadableInput.
func OpenInput(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableInput, err)
	}
	br := bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: %v",
				ErrUnreadableInput, filename, err)
		}
		return &input{gz, []io.Closer{f, gz}}, nil
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: %v",
				ErrUnreadableInput, filename, err)
		}
		return &input{dec, []io.Closer{f, dec.IOReadCloser()}}, nil
	}
	return &input{br, []io.Closer{f}}, nil
}
