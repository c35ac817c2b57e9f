package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	fullSuffix  = "_extracted_data.txt"
	truncSuffix = "_extracted_data_trunc.txt"
)

// TruncStates returns the states whose transitions make up the
// truncated report: 1, plus 2 when the two are degenerate
func TruncStates(e *EnergyRecord, threshold float64) []int {
	if e.Degenerate(threshold) {
		return []int{1, 2}
	}
	return []int{1}
}

// FilterFrom returns the transitions originating from one of states,
// in their original order
func FilterFrom(trans []Transition, states []int) []Transition {
	keep := make(map[int]bool, len(states))
	for _, s := range states {
		keep[s] = true
	}
	ret := make([]Transition, 0, len(trans))
	for _, t := range trans {
		if keep[t.From] {
			ret = append(ret, t)
		}
	}
	return ret
}

// WriteTransitions writes the transitions report for the SO State
// energies in e, which are in cm-1. Transitions with a state missing
// from e are dropped.
func WriteTransitions(w io.Writer, schema Schema, e *EnergyRecord,
	trans []Transition, unit Unit) error {
	// reject the unit before writing anything
	if _, err := ConvertWavenumber(0, unit); err != nil {
		return err
	}
	nw := bufio.NewWriter(w)
	fmt.Fprintf(nw,
		"State From   State To   Energy Difference (%s)   %s\n",
		unit, schema.Header(),
	)
	for _, t := range trans {
		from, ok := e.Energy(t.From)
		if !ok {
			continue
		}
		to, ok := e.Energy(t.To)
		if !ok {
			continue
		}
		diff, err := ConvertWavenumber(to-from, unit)
		if err != nil {
			return err
		}
		fmt.Fprintf(nw, "%-12d%-12d%-28.2f", t.From, t.To, diff)
		for _, v := range t.Values {
			fmt.Fprintf(nw, "%-18.8E", v)
		}
		fmt.Fprint(nw, "\n")
	}
	return nw.Flush()
}

// WriteSpectrum writes one block per kind joining the transitions of
// s to the pair differences in diffs. A column of 2 or more restricts
// each row to that column.
func WriteSpectrum(w io.Writer, schemas [NumKinds]Schema, kinds []Kind,
	s *Section, diffs map[Pair]float64, unit Unit, column int) error {
	nw := bufio.NewWriter(w)
	for i, k := range kinds {
		if i > 0 {
			fmt.Fprint(nw, "\n")
		}
		schema := schemas[k]
		cols := schema.Columns
		if column >= 2 {
			c, ok := schema.Column(column)
			if !ok {
				return fmt.Errorf("column %d not in %v table",
					column, k)
			}
			cols = []Column{c}
		}
		fmt.Fprintf(nw, "%-10s%-10s%-22s", "Fr State", "To State",
			fmt.Sprintf("Energy (%s)", unit))
		for _, c := range cols {
			fmt.Fprintf(nw, "%-18s", c.Name)
		}
		fmt.Fprint(nw, "\n")
		for _, t := range s.Transitions[k] {
			diff, ok := diffs[t.Pair()]
			if !ok {
				continue
			}
			fmt.Fprintf(nw, "%-10d%-10d%-22.8f", t.From, t.To, diff)
			for _, c := range cols {
				v, _ := t.Column(c.Index)
				fmt.Fprintf(nw, "%-18.8E", v)
			}
			fmt.Fprint(nw, "\n")
		}
	}
	return nw.Flush()
}

// TransitionsNames returns the full and truncated report paths for
// input inside dir
func TransitionsNames(dir, input string) (full, trunc string) {
	base := BaseName(input)
	return filepath.Join(dir, base+fullSuffix),
		filepath.Join(dir, base+truncSuffix)
}

// SpectrumName returns the spectrum report path for input and kinds
// inside dir
func SpectrumName(dir, input string, kinds []Kind) string {
	parts := []string{"Extracted", BaseName(input)}
	for _, k := range kinds {
		parts = append(parts, k.String())
	}
	parts = append(parts, "Data.txt")
	return filepath.Join(dir, strings.Join(parts, "_"))
}

// WriteFile creates filename and hands it to write, keeping the first
// error from either
func WriteFile(filename string, write func(io.Writer) error) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
