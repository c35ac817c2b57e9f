package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	moduleStart    = "Start Module: rassi"
	moduleStop     = "Stop Module: rassi"
	soRassi        = "SO-RASSI"
	totalEnergy    = "Total energy"
	energySentinel = "Weights of the five most important " +
		"spin-orbit-free states"
	// RASSI lines can be far longer than bufio's default token
	maxLine = 1 << 20
)

var soHeader = regexp.MustCompile(`^\s*SO\s+State`)

// State is the position of the Scanner within the output file
type State int

const (
	// outside of any RASSI section
	Idle State = iota
	// inside a section, waiting for a table
	ExpectingHeader
	CapturingEnergies
	CapturingTransitions
)

func (s State) String() string {
	if s < Idle || s > CapturingTransitions {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return []string{
		"Idle",
		"ExpectingHeader",
		"CapturingEnergies",
		"CapturingTransitions",
	}[s]
}

// Mode selects how energies are recognized
type Mode int

const (
	// energies come from the table after an "SO State" header, in
	// cm-1, and the whole file is one section
	HeaderMode Mode = iota
	// energies come from "SO-RASSI ... Total energy" lines, in
	// hartree, and each "Start Module: rassi" opens a section
	ModuleMode
)

// Section is everything captured from one RASSI section
type Section struct {
	Date        string
	Energies    *EnergyRecord
	Transitions [NumKinds][]Transition
}

func newSection(date string) *Section {
	return &Section{
		Date:     date,
		Energies: NewEnergyRecord(),
	}
}

// Empty reports whether the section is missing either its energies
// or all of its transitions
func (s *Section) Empty() bool {
	if s.Energies.Len() == 0 {
		return true
	}
	for _, t := range s.Transitions {
		if len(t) > 0 {
			return false
		}
	}
	return true
}

// Result holds the sections of a scanned file in order
type Result struct {
	Sections []*Section
}

// Last returns the last section, or an empty one if nothing was
// found
func (r *Result) Last() *Section {
	if len(r.Sections) == 0 {
		return newSection("")
	}
	return r.Sections[len(r.Sections)-1]
}

// Scanner extracts energies and transitions from an OpenMolcas output
// file. Only the tables for Kinds are captured.
type Scanner struct {
	Mode    Mode
	Kinds   []Kind
	Schemas [NumKinds]Schema
	Logger  *zap.Logger
}

func NewScanner(mode Mode, kinds ...Kind) *Scanner {
	return &Scanner{
		Mode:    mode,
		Kinds:   kinds,
		Schemas: DefaultSchemas(),
		Logger:  zap.NewNop(),
	}
}

// scan is the state of a single pass over a file
type scan struct {
	*Scanner
	state      State
	kind       Kind
	energyDone bool
	selected   [NumKinds]bool
	section    *Section
	result     Result
	line       int
}

// Scan reads r to the end. The only error returned comes from
// reading r itself; unusable lines are skipped.
func (s *Scanner) Scan(r io.Reader) (*Result, error) {
	sc := &scan{Scanner: s}
	if sc.Logger == nil {
		sc.Logger = zap.NewNop()
	}
	for _, k := range s.Kinds {
		sc.selected[k] = true
	}
	if s.Mode == HeaderMode {
		sc.open("")
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		sc.line++
		sc.step(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &sc.result, nil
}

func (sc *scan) open(date string) {
	sc.section = newSection(date)
	sc.result.Sections = append(sc.result.Sections, sc.section)
	sc.state = ExpectingHeader
	sc.energyDone = false
}

// startOf returns the kind whose start marker is in line
func (sc *scan) startOf(line string) (Kind, bool) {
	for k := Dipole; k < NumKinds; k++ {
		if m := sc.Schemas[k].Start; m != "" && strings.Contains(line, m) {
			return k, true
		}
	}
	return 0, false
}

// step advances the state machine by one line
func (sc *scan) step(line string) {
	if sc.Mode == ModuleMode {
		switch {
		case strings.Contains(line, moduleStart):
			sc.open(moduleDate(line))
			return
		case sc.state != Idle && strings.Contains(line, moduleStop):
			sc.state = Idle
			return
		}
	}
	if sc.state == Idle {
		return
	}
	if k, ok := sc.startOf(line); ok {
		switch {
		case sc.state == CapturingTransitions && k == sc.kind:
			// repeated heading for the active table
		case sc.selected[k]:
			sc.closeEnergies()
			sc.state = CapturingTransitions
			sc.kind = k
		case sc.state == CapturingTransitions:
			sc.state = ExpectingHeader
		default:
			sc.closeEnergies()
		}
		return
	}
	switch sc.state {
	case ExpectingHeader:
		sc.header(line)
	case CapturingEnergies:
		sc.energy(line)
	case CapturingTransitions:
		sc.transition(line)
	}
}

// closeEnergies ends an energy table interrupted by a transition
// table heading
func (sc *scan) closeEnergies() {
	if sc.state == CapturingEnergies {
		sc.energyDone = true
		sc.state = ExpectingHeader
	}
}

// header looks for the start of the energy table
func (sc *scan) header(line string) {
	if sc.energyDone {
		return
	}
	switch sc.Mode {
	case HeaderMode:
		if soHeader.MatchString(line) {
			sc.state = CapturingEnergies
		}
	case ModuleMode:
		if isTotalEnergy(line) {
			sc.state = CapturingEnergies
			sc.energy(line)
		}
	}
}

func isTotalEnergy(line string) bool {
	return strings.Contains(line, soRassi) &&
		strings.Contains(line, totalEnergy)
}

func (sc *scan) energy(line string) {
	switch sc.Mode {
	case HeaderMode:
		if strings.Contains(line, energySentinel) {
			sc.energyDone = true
			sc.state = ExpectingHeader
			return
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || !isIndex(fields[0]) {
			return
		}
		state, err := strconv.Atoi(fields[0])
		if err != nil {
			sc.skip("energy", line, err)
			return
		}
		v, err := parseFloat(fields[3])
		if err != nil {
			sc.skip("energy", line, err)
			return
		}
		sc.section.Energies.Add(state, v)
	case ModuleMode:
		if !isTotalEnergy(line) {
			return
		}
		i := strings.LastIndex(line, ":")
		v, err := parseFloat(strings.TrimSpace(line[i+1:]))
		if err != nil {
			sc.skip("energy", line, err)
			return
		}
		e := sc.section.Energies
		e.Add(e.Len()+1, v)
	}
}

func (sc *scan) transition(line string) {
	schema := sc.Schemas[sc.kind]
	if (schema.End != "" && strings.Contains(line, schema.End)) ||
		strings.HasPrefix(strings.TrimSpace(line), SectionPrefix) {
		sc.state = ExpectingHeader
		return
	}
	line = strings.ReplaceAll(line, belowThreshold, zeroValue)
	fields := strings.Fields(line)
	if len(fields) < schema.MinFields() ||
		!isIndex(fields[0]) || !isIndex(fields[1]) {
		return
	}
	from, err := strconv.Atoi(fields[0])
	if err != nil {
		sc.skip("transition", line, err)
		return
	}
	to, err := strconv.Atoi(fields[1])
	if err != nil {
		sc.skip("transition", line, err)
		return
	}
	vals, err := toFloat(fields[2 : 2+len(schema.Columns)])
	if err != nil {
		sc.skip("transition", line, err)
		return
	}
	sc.section.Transitions[sc.kind] = append(
		sc.section.Transitions[sc.kind],
		Transition{
			Kind:   sc.kind,
			From:   from,
			To:     to,
			Values: vals,
		},
	)
}

func (sc *scan) skip(what, line string, err error) {
	sc.Logger.Debug("skipping malformed row",
		zap.String("table", what),
		zap.Int("line", sc.line),
		zap.String("text", line),
		zap.Error(err),
	)
}

// moduleDate extracts the timestamp from a line like
//
//	--- Start Module: rassi at Tue Mar  5 10:11:12 2024 ---
func moduleDate(line string) string {
	_, rest, ok := strings.Cut(line, moduleStart)
	if !ok {
		return ""
	}
	_, date, ok := strings.Cut(rest, " at ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(date, "- \t"))
}
