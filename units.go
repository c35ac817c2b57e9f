package main

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// from https://physics.nist.gov/cgi-bin/cuu/Value?hrev
	htToEV = 27.211324570273
	// J per hartree
	htToJ = 4.3597482e-18
	// exact SI values
	planck = 6.62607015e-34
	light  = 299792458
	// cm-1 per eV
	evToCm = 8065.54429
	// nm per cm
	cmToNm = 10_000_000
)

var (
	ErrUnsupportedUnit = errors.New("unsupported energy unit")
)

// Unit is an energy unit for reported differences
type Unit int

const (
	EV Unit = iota
	Wavenumber
	Nanometer
)

func (u Unit) String() string {
	if u < EV || u > Nanometer {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return []string{
		"eV",
		"cm-1",
		"nm",
	}[u]
}

// ParseUnit converts s to a Unit, returning ErrUnsupportedUnit for
// anything it does not recognize
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ev":
		return EV, nil
	case "cm-1", "cm", "wavenumber", "wavenumbers":
		return Wavenumber, nil
	case "nm", "nanometer", "nanometers":
		return Nanometer, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, s)
}

// HartreeToWavenumber converts an energy in hartree to cm-1
func HartreeToWavenumber(ht float64) float64 {
	return htToJ * ht / (planck * light) / 100
}

// WavenumberToNanometer returns the wavelength in nm of a cm-1
// energy. A zero energy maps to 0 instead of +Inf.
func WavenumberToNanometer(wn float64) float64 {
	if wn == 0 {
		return 0
	}
	return 1 / wn * cmToNm
}

// ConvertHartree converts a hartree energy difference to unit
func ConvertHartree(ht float64, unit Unit) (float64, error) {
	switch unit {
	case EV:
		return ht * htToEV, nil
	case Wavenumber:
		return HartreeToWavenumber(ht), nil
	case Nanometer:
		return WavenumberToNanometer(HartreeToWavenumber(ht)), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnsupportedUnit, unit)
}

// ConvertWavenumber converts a cm-1 energy difference to unit. Only
// eV and cm-1 make sense for the SO State tables.
func ConvertWavenumber(wn float64, unit Unit) (float64, error) {
	switch unit {
	case EV:
		return wn / evToCm, nil
	case Wavenumber:
		return wn, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnsupportedUnit, unit)
}
