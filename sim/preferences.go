package sim

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/slices"
)

// Preference is one row of a ReceiverPreferences table.
type Preference struct {
	Receiver    NodeRef
	Probability float64
}

// ReceiverPreferences is a sender's weighted table of candidate receivers.
//
// Invariant: weights are non-negative and sum to 1 whenever the table is
// non-empty. Adding or removing a receiver gives every member an equal share.
// Rows are kept ordered by NodeRef.Compare, which is the order ChooseReceiver
// accumulates in.
type ReceiverPreferences struct {
	prefs     []Preference
	generator ProbabilityGenerator
}

// NewReceiverPreferences creates an empty table drawing from pg.
// A nil pg falls back to the process-wide math/rand source.
func NewReceiverPreferences(pg ProbabilityGenerator) *ReceiverPreferences {
	if pg == nil {
		pg = rand.Float64
	}
	return &ReceiverPreferences{generator: pg}
}

// SetProbabilityGenerator replaces the random source. Panics on nil.
func (rp *ReceiverPreferences) SetProbabilityGenerator(pg ProbabilityGenerator) {
	if pg == nil {
		panic("SetProbabilityGenerator: pg must not be nil")
	}
	rp.generator = pg
}

// AddReceiver inserts r and re-normalizes. Adding an existing receiver only re-normalizes.
// Panics if r's kind cannot receive packages.
func (rp *ReceiverPreferences) AddReceiver(r NodeRef) {
	if !r.Kind.CanReceive() {
		panic(fmt.Sprintf("AddReceiver: %s cannot receive packages", r))
	}
	i, found := rp.search(r)
	if !found {
		rp.prefs = slices.Insert(rp.prefs, i, Preference{Receiver: r})
	}
	rp.normalize()
}

// RemoveReceiver erases r and re-normalizes. Returns false if r was not present.
func (rp *ReceiverPreferences) RemoveReceiver(r NodeRef) bool {
	i, found := rp.search(r)
	if !found {
		return false
	}
	rp.prefs = slices.Delete(rp.prefs, i, i+1)
	rp.normalize()
	return true
}

// ChooseReceiver draws from the generator and walks the table accumulating
// weights, returning the first receiver whose cumulative weight exceeds the draw.
// Returns false if the table is empty.
func (rp *ReceiverPreferences) ChooseReceiver() (NodeRef, bool) {
	if len(rp.prefs) == 0 {
		return NodeRef{}, false
	}
	draw := rp.generator()
	cumulative := 0.0
	for _, p := range rp.prefs {
		cumulative += p.Probability
		if draw < cumulative {
			return p.Receiver, true
		}
	}
	// Rounding can leave the final cumulative sum a hair below 1.
	return rp.prefs[len(rp.prefs)-1].Receiver, true
}

// Contains reports whether r is in the table.
func (rp *ReceiverPreferences) Contains(r NodeRef) bool {
	_, found := rp.search(r)
	return found
}

// Probability returns the weight of r.
func (rp *ReceiverPreferences) Probability(r NodeRef) (float64, bool) {
	i, found := rp.search(r)
	if !found {
		return 0, false
	}
	return rp.prefs[i].Probability, true
}

// Len returns the number of receivers.
func (rp *ReceiverPreferences) Len() int {
	return len(rp.prefs)
}

func (rp *ReceiverPreferences) Empty() bool {
	return len(rp.prefs) == 0
}

// Preferences returns a copy of the table in iteration order.
func (rp *ReceiverPreferences) Preferences() []Preference {
	return slices.Clone(rp.prefs)
}

// Receivers returns the receivers in iteration order.
func (rp *ReceiverPreferences) Receivers() []NodeRef {
	out := make([]NodeRef, len(rp.prefs))
	for i, p := range rp.prefs {
		out[i] = p.Receiver
	}
	return out
}

func (rp *ReceiverPreferences) search(r NodeRef) (int, bool) {
	return slices.BinarySearchFunc(rp.prefs, r, func(p Preference, target NodeRef) int {
		return p.Receiver.Compare(target)
	})
}

func (rp *ReceiverPreferences) normalize() {
	if len(rp.prefs) == 0 {
		return
	}
	share := 1.0 / float64(len(rp.prefs))
	for i := range rp.prefs {
		rp.prefs[i].Probability = share
	}
}
