package main

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaxFromState bounds the lower state of the pairwise differences
// written by the spectrum command
const MaxFromState = 10

// EnergyRecord maps state indices to energies, remembering the order
// in which states were first seen
type EnergyRecord struct {
	states []int
	values map[int]float64
}

func NewEnergyRecord() *EnergyRecord {
	return &EnergyRecord{
		values: make(map[int]float64),
	}
}

// Add stores energy for state. A repeated state keeps its original
// position and takes the new value.
func (e *EnergyRecord) Add(state int, energy float64) {
	if _, ok := e.values[state]; !ok {
		e.states = append(e.states, state)
	}
	e.values[state] = energy
}

func (e *EnergyRecord) Len() int {
	return len(e.states)
}

// States returns the state indices in order of first appearance
func (e *EnergyRecord) States() []int {
	ret := make([]int, len(e.states))
	copy(ret, e.states)
	return ret
}

func (e *EnergyRecord) Energy(state int) (float64, bool) {
	v, ok := e.values[state]
	return v, ok
}

// Vector returns the energies as a column vector in state order, or
// nil if there are none
func (e *EnergyRecord) Vector() *mat.VecDense {
	if len(e.states) == 0 {
		return nil
	}
	data := make([]float64, len(e.states))
	for i, s := range e.states {
		data[i] = e.values[s]
	}
	return mat.NewVecDense(len(data), data)
}

// Degenerate reports whether states 1 and 2 are both present and
// within threshold of each other
func (e *EnergyRecord) Degenerate(threshold float64) bool {
	e1, ok1 := e.values[1]
	e2, ok2 := e.values[2]
	if !ok1 || !ok2 {
		return false
	}
	return math.Abs(e2-e1) <= threshold
}

// Differences returns the matrix D with D[i][j] = E[j] - E[i], where i
// and j are positions in state order
func (e *EnergyRecord) Differences() *mat.Dense {
	v := e.Vector()
	if v == nil {
		return nil
	}
	n := v.Len()
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	u := mat.NewVecDense(n, ones)
	var upper, lower mat.Dense
	upper.Outer(1, u, v)
	lower.Outer(1, v, u)
	var diff mat.Dense
	diff.Sub(&upper, &lower)
	return &diff
}

// Pair is an ordered (from, to) pair of states
type Pair struct {
	From int
	To   int
}

// PairDifferences returns E[to] - E[from] for every pair of states
// with from < to and from < maxFrom, converted by conv. A conv error
// aborts the whole computation.
func (e *EnergyRecord) PairDifferences(maxFrom int,
	conv func(float64) (float64, error)) (map[Pair]float64, error) {
	ret := make(map[Pair]float64)
	diff := e.Differences()
	if diff == nil {
		return ret, nil
	}
	for i, x := range e.states {
		if x >= maxFrom {
			continue
		}
		for j, y := range e.states {
			if x >= y {
				continue
			}
			v, err := conv(diff.At(i, j))
			if err != nil {
				return nil, err
			}
			ret[Pair{x, y}] = v
		}
	}
	return ret, nil
}

// Transition is one row of a RASSI transition table. Values holds
// the numeric columns after From and To, so absolute column i is
// Values[i-2].
type Transition struct {
	Kind   Kind
	From   int
	To     int
	Values []float64
}

// Column returns the value in absolute column i of the row
func (t Transition) Column(i int) (float64, bool) {
	i -= 2
	if i < 0 || i >= len(t.Values) {
		return 0, false
	}
	return t.Values[i], true
}

func (t Transition) Pair() Pair {
	return Pair{t.From, t.To}
}
