package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const transitionsHeader = "State From   State To   Energy Difference (cm-1)   " +
	"Osc. Strength       Ax (sec-1)        Ay (sec-1)        " +
	"Az (sec-1)        Total A (sec-1)\n"

func TestWriteTransitions(t *testing.T) {
	e := record([]int{1, 2, 3}, []float64{0, 500, 1200})
	trans := []Transition{
		{Dipole, 1, 2, []float64{5e-2, 1e3, 2e3, 3e3, 6e3}},
		{Dipole, 1, 4, []float64{1e-2, 1, 1, 1, 3}},
		{Dipole, 1, 3, []float64{2e-2, 4e3, 5e3, 6e3, 1.5e4}},
	}
	var buf bytes.Buffer
	err := WriteTransitions(&buf, DefaultSchemas()[Dipole], e, trans,
		Wavenumber)
	if err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	want := transitionsHeader +
		"1           2           500.00                      " +
		"5.00000000E-02    1.00000000E+03    2.00000000E+03    " +
		"3.00000000E+03    6.00000000E+03    \n" +
		"1           3           1200.00                     " +
		"2.00000000E-02    4.00000000E+03    5.00000000E+03    " +
		"6.00000000E+03    1.50000000E+04    \n"
	if got != want {
		charComp(got, want)
		t.Errorf("got\n%q, wanted\n%q\n", got, want)
	}
}

func TestWriteTransitionsEV(t *testing.T) {
	e := record([]int{1, 2}, []float64{0, 8065.54429})
	trans := []Transition{{Dipole, 1, 2, []float64{1, 1, 1, 1, 3}}}
	var buf bytes.Buffer
	err := WriteTransitions(&buf, DefaultSchemas()[Dipole], e, trans, EV)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.Contains(lines[0], "Energy Difference (eV)") {
		t.Errorf("header %q missing unit\n", lines[0])
	}
	if got := lines[1][24:28]; got != "1.00" {
		t.Errorf("got %q, wanted %q\n", got, "1.00")
	}
}

func TestWriteTransitionsUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTransitions(&buf, DefaultSchemas()[Dipole],
		NewEnergyRecord(), nil, Nanometer)
	if !errors.Is(err, ErrUnsupportedUnit) {
		t.Errorf("got %v, wanted %v\n", err, ErrUnsupportedUnit)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q before failing\n", buf.String())
	}
}

func TestWriteTransitionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTransitions(&buf, DefaultSchemas()[Dipole],
		NewEnergyRecord(), nil, Wavenumber)
	if err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != transitionsHeader {
		t.Errorf("got\n%q, wanted\n%q\n", got, transitionsHeader)
	}
}

func TestTruncStates(t *testing.T) {
	tests := []struct {
		energies *EnergyRecord
		want     []int
	}{
		{record([]int{1, 2, 3}, []float64{100, 100, 200}), []int{1, 2}},
		{record([]int{1, 2, 3}, []float64{100, 100.5, 200}), []int{1}},
	}
	for _, test := range tests {
		got := TruncStates(test.energies, 0.0)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestFilterFrom(t *testing.T) {
	trans := []Transition{
		{Dipole, 1, 2, nil},
		{Dipole, 2, 3, nil},
		{Dipole, 3, 4, nil},
		{Dipole, 1, 3, nil},
	}
	got := FilterFrom(trans, []int{1, 2})
	want := []Transition{trans[0], trans[1], trans[3]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	got = FilterFrom(trans, []int{1})
	want = []Transition{trans[0], trans[3]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSpectrum(t *testing.T) {
	s := newSection("now")
	s.Transitions[Dipole] = []Transition{
		{Dipole, 1, 2, []float64{1e-2, 1, 2, 3, 6}},
		{Dipole, 2, 1, []float64{1e-2, 1, 2, 3, 6}},
	}
	s.Transitions[Velocity] = []Transition{
		{Velocity, 1, 3, []float64{4e-2, 1, 1, 1, 3}},
	}
	diffs := map[Pair]float64{{1, 2}: 100, {1, 3}: 250.5}
	var buf bytes.Buffer
	err := WriteSpectrum(&buf, DefaultSchemas(), []Kind{Dipole, Velocity},
		s, diffs, Wavenumber, 2)
	if err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	want := fmt.Sprintf("%-10s%-10s%-22s%-18s\n", "Fr State", "To State",
		"Energy (cm-1)", "Osc. Strength") +
		fmt.Sprintf("%-10d%-10d%-22.8f%-18.8E\n", 1, 2, 100.0, 1e-2) +
		"\n" +
		fmt.Sprintf("%-10s%-10s%-22s%-18s\n", "Fr State", "To State",
			"Energy (cm-1)", "Osc. Strength") +
		fmt.Sprintf("%-10d%-10d%-22.8f%-18.8E\n", 1, 3, 250.5, 4e-2)
	if got != want {
		t.Errorf("got\n%q, wanted\n%q\n", got, want)
	}
}

func TestWriteSpectrumColumns(t *testing.T) {
	s := newSection("")
	s.Transitions[Complex] = []Transition{
		{Complex, 1, 2, []float64{1, 2, 3, 4, 5, 6}},
	}
	diffs := map[Pair]float64{{1, 2}: 1}
	var buf bytes.Buffer
	err := WriteSpectrum(&buf, DefaultSchemas(), []Kind{Complex}, s,
		diffs, EV, 0)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, wanted 2\n", len(lines))
	}
	if got := len(strings.Fields(lines[1])); got != 9 {
		t.Errorf("got %d fields, wanted 9\n", got)
	}
	if !strings.HasPrefix(lines[0], "Fr State  To State  Energy (eV)") {
		t.Errorf("bad header %q\n", lines[0])
	}

	err = WriteSpectrum(&buf, DefaultSchemas(), []Kind{Complex}, s,
		diffs, EV, 8)
	if err == nil {
		t.Errorf("expected error for missing column")
	}
}

func TestReportNames(t *testing.T) {
	full, trunc := TransitionsNames("out", "runs/CoCl4.output.gz")
	if want := filepath.Join("out", "CoCl4_extracted_data.txt"); full != want {
		t.Errorf("got %q, wanted %q\n", full, want)
	}
	if want := filepath.Join("out", "CoCl4_extracted_data_trunc.txt"); trunc != want {
		t.Errorf("got %q, wanted %q\n", trunc, want)
	}
	got := SpectrumName(".", "/tmp/job.out", []Kind{Dipole, Velocity})
	if want := "Extracted_job_dipole_velocity_Data.txt"; got != want {
		t.Errorf("got %q, wanted %q\n", got, want)
	}
}
