package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKind = errors.New("unknown transition type")
)

// Kind identifies one of the RASSI transition tables
type Kind int

const (
	Dipole Kind = iota
	Velocity
	Length
	Total
	Complex
	NumKinds
)

func (k Kind) String() string {
	if k < Dipole || k >= NumKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return []string{
		"dipole",
		"velocity",
		"length",
		"total",
		"complex",
	}[k]
}

// ParseKind returns the Kind named by s
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k := Dipole; k < NumKinds; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseKinds parses each of names, dropping repeats but keeping the
// order of first appearance
func ParseKinds(names []string) ([]Kind, error) {
	var (
		ret  []Kind
		seen [NumKinds]bool
	)
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		ret = append(ret, k)
	}
	return ret, nil
}

// Column describes one whitespace-delimited field of a transition
// row. Header is the label written to the transitions report,
// including its trailing padding.
type Column struct {
	Name   string
	Index  int
	Header string
}

// Schema ties a transition table to the text around it in the
// output file and to the layout of its rows. Every row starts with
// the From and To state indices in columns 0 and 1, so Columns only
// lists the numeric fields after them.
type Schema struct {
	Kind    Kind
	Start   string
	End     string
	Columns []Column
}

// MinFields is the number of fields a row needs to be considered
func (s Schema) MinFields() int {
	n := 2 + len(s.Columns)
	if n < 7 {
		return 7
	}
	return n
}

// Header returns the concatenated column labels
func (s Schema) Header() string {
	var b strings.Builder
	for _, c := range s.Columns {
		b.WriteString(c.Header)
	}
	return b.String()
}

// Column returns the column at absolute index i
func (s Schema) Column(i int) (Column, bool) {
	for _, c := range s.Columns {
		if c.Index == i {
			return c, true
		}
	}
	return Column{}, false
}

// SectionPrefix starts every table heading in the RASSI output
const SectionPrefix = "++"

func einstein() []Column {
	return []Column{
		{"Osc. Strength", 2, "Osc. Strength       "},
		{"Ax (sec-1)", 3, "Ax (sec-1)        "},
		{"Ay (sec-1)", 4, "Ay (sec-1)        "},
		{"Az (sec-1)", 5, "Az (sec-1)        "},
		{"Total A (sec-1)", 6, "Total A (sec-1)"},
	}
}

// DefaultSchemas returns a fresh copy of the built-in table layouts,
// indexed by Kind
func DefaultSchemas() [NumKinds]Schema {
	const (
		dipole   = "Dipole transition strengths (SO states)"
		velocity = "Velocity transition strengths (SO states)"
		length   = "Length and velocity gauge comparison (SO states)"
		cmplx    = "Complex transition dipole vectors (SO states)"
		total    = "Total transition strengths for the second-order " +
			"expansion of the wave vector (SO states)"
	)
	return [NumKinds]Schema{
		Dipole: {
			Kind:    Dipole,
			Start:   dipole,
			End:     velocity,
			Columns: einstein(),
		},
		Velocity: {
			Kind:    Velocity,
			Start:   velocity,
			End:     length,
			Columns: einstein(),
		},
		Length: {
			Kind:    Length,
			Start:   length,
			Columns: einstein(),
		},
		Total: {
			Kind:    Total,
			Start:   total,
			Columns: einstein(),
		},
		Complex: {
			Kind:  Complex,
			Start: cmplx,
			Columns: []Column{
				{"Re(Dx)", 2, "Re(Dx) (au)       "},
				{"Im(Dx)", 3, "Im(Dx) (au)       "},
				{"Re(Dy)", 4, "Re(Dy) (au)       "},
				{"Im(Dy)", 5, "Im(Dy) (au)       "},
				{"Re(Dz)", 6, "Re(Dz) (au)       "},
				{"Im(Dz)", 7, "Im(Dz) (au)"},
			},
		},
	}
}
