package sim

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// IDPool allocates package identifiers. It hands out the smallest previously
// freed identifier when one exists, otherwise one past the largest live identifier.
//
// A pool is owned by one simulation context; independent pools never share state.
// Thread-safety: NOT thread-safe.
type IDPool struct {
	live  []ElementID // sorted ascending
	freed []ElementID // sorted ascending
}

// NewIDPool creates an empty pool. The first identifier it hands out is 1.
func NewIDPool() *IDPool {
	return &IDPool{}
}

// Acquire returns a fresh identifier and marks it live.
func (p *IDPool) Acquire() ElementID {
	var id ElementID
	if len(p.freed) > 0 {
		id = p.freed[0]
		p.freed = slices.Delete(p.freed, 0, 1)
	} else if len(p.live) > 0 {
		id = p.live[len(p.live)-1] + 1
	} else {
		id = 1
	}
	p.markLive(id)
	return id
}

// AcquireID marks the requested identifier live.
// Returns ErrDuplicateIdentifier if it is already live; zero is never valid.
func (p *IDPool) AcquireID(requested ElementID) (ElementID, error) {
	if requested == 0 {
		return 0, fmt.Errorf("acquire id 0: %w", ErrDuplicateIdentifier)
	}
	if p.IsLive(requested) {
		return 0, fmt.Errorf("acquire id %d: %w", requested, ErrDuplicateIdentifier)
	}
	if i, found := slices.BinarySearch(p.freed, requested); found {
		p.freed = slices.Delete(p.freed, i, i+1)
	}
	p.markLive(requested)
	return requested, nil
}

// Release moves id from the live set to the free set. Releasing 0 is a no-op.
// Panics if id is not live.
func (p *IDPool) Release(id ElementID) {
	if id == 0 {
		return
	}
	i, found := slices.BinarySearch(p.live, id)
	if !found {
		panic(fmt.Sprintf("IDPool.Release: id %d is not live", id))
	}
	p.live = slices.Delete(p.live, i, i+1)
	j, _ := slices.BinarySearch(p.freed, id)
	p.freed = slices.Insert(p.freed, j, id)
}

// IsLive reports whether id is currently assigned.
func (p *IDPool) IsLive(id ElementID) bool {
	_, found := slices.BinarySearch(p.live, id)
	return found
}

// LiveCount returns the number of identifiers currently assigned.
func (p *IDPool) LiveCount() int {
	return len(p.live)
}

// Freed returns a copy of the free set in ascending order.
func (p *IDPool) Freed() []ElementID {
	return slices.Clone(p.freed)
}

func (p *IDPool) markLive(id ElementID) {
	i, _ := slices.BinarySearch(p.live, id)
	p.live = slices.Insert(p.live, i, id)
}
