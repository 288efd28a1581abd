// Package testutil provides shared test infrastructure for the factory simulator.
// It holds assertion helpers and deterministic probability sources used
// across sim/ and its sub-package tests. It does not import sim, so sim's
// own tests can use it.
package testutil

import (
	"math"
	"testing"
)

// Epsilon is the absolute tolerance used for probability weights.
const Epsilon = 1e-9

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// FixedProbability returns a generator that always yields v.
func FixedProbability(v float64) func() float64 {
	return func() float64 { return v }
}

// SequenceProbability returns a generator cycling through values.
// Panics if values is empty.
func SequenceProbability(values ...float64) func() float64 {
	if len(values) == 0 {
		panic("SequenceProbability: values must not be empty")
	}
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}
}

// JustBelowOne is the largest float64 smaller than 1.
var JustBelowOne = math.Nextafter(1, 0)
