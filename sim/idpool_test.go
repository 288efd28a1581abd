package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDPool_Acquire_SequentialFromOne(t *testing.T) {
	pool := NewIDPool()

	assert.Equal(t, ElementID(1), pool.Acquire())
	assert.Equal(t, ElementID(2), pool.Acquire())
	assert.Equal(t, ElementID(3), pool.Acquire())
	assert.Equal(t, 3, pool.LiveCount())
}

func TestIDPool_Acquire_ReusesFreedInAscendingOrder(t *testing.T) {
	// GIVEN ids 1..4 live, then 3 and 1 released
	pool := NewIDPool()
	for i := 0; i < 4; i++ {
		pool.Acquire()
	}
	pool.Release(3)
	pool.Release(1)
	assert.Equal(t, []ElementID{1, 3}, pool.Freed())

	// WHEN acquiring three more
	got := []ElementID{pool.Acquire(), pool.Acquire(), pool.Acquire()}

	// THEN freed ids come back smallest first before a new one is minted
	assert.Equal(t, []ElementID{1, 3, 5}, got)
	assert.Empty(t, pool.Freed())
}

func TestIDPool_Acquire_AfterAllReleased_StartsFromSmallestFreed(t *testing.T) {
	pool := NewIDPool()
	pool.Acquire()
	pool.Acquire()
	pool.Release(2)
	pool.Release(1)

	assert.Equal(t, ElementID(1), pool.Acquire())
	assert.Equal(t, ElementID(2), pool.Acquire())
	assert.Equal(t, ElementID(3), pool.Acquire())
}

func TestIDPool_AcquireID_LiveCollision_ReturnsError(t *testing.T) {
	pool := NewIDPool()
	id := pool.Acquire()

	_, err := pool.AcquireID(id)

	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	assert.Equal(t, 1, pool.LiveCount(), "failed acquire must not change the live set")
}

func TestIDPool_AcquireID_Zero_ReturnsError(t *testing.T) {
	_, err := NewIDPool().AcquireID(0)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
}

func TestIDPool_AcquireID_FreedValue_LeavesFreeSet(t *testing.T) {
	pool := NewIDPool()
	pool.Acquire()
	pool.Acquire()
	pool.Release(1)

	got, err := pool.AcquireID(1)

	require.NoError(t, err)
	assert.Equal(t, ElementID(1), got)
	assert.Empty(t, pool.Freed())
	assert.Equal(t, ElementID(3), pool.Acquire())
}

func TestIDPool_AcquireID_AboveMax_NextIsOnePastIt(t *testing.T) {
	pool := NewIDPool()
	_, err := pool.AcquireID(10)
	require.NoError(t, err)

	assert.Equal(t, ElementID(11), pool.Acquire())
}

func TestIDPool_Release_NotLive_Panics(t *testing.T) {
	pool := NewIDPool()
	assert.Panics(t, func() { pool.Release(7) })
}

func TestIDPool_Release_Zero_NoOp(t *testing.T) {
	pool := NewIDPool()
	assert.NotPanics(t, func() { pool.Release(0) })
	assert.Empty(t, pool.Freed())
}

func TestIDPool_RandomOperations_LiveIDsNeverCollide(t *testing.T) {
	// GIVEN a random interleaving of acquires and releases
	rng := rand.New(rand.NewSource(7))
	pool := NewIDPool()
	live := map[ElementID]bool{}

	for step := 0; step < 2000; step++ {
		if len(live) > 0 && rng.Intn(3) == 0 {
			// release an arbitrary live id
			for id := range live {
				pool.Release(id)
				delete(live, id)
				break
			}
			continue
		}
		freed := pool.Freed()
		id := pool.Acquire()

		// THEN the id is never one that is already live
		require.False(t, live[id], "step %d: id %d handed out twice", step, id)
		// AND the smallest freed id is preferred when one exists
		if len(freed) > 0 {
			require.Equal(t, freed[0], id, "step %d", step)
		}
		live[id] = true
	}
	assert.Equal(t, len(live), pool.LiveCount())
}

func TestIDPool_IndependentPools(t *testing.T) {
	a := NewIDPool()
	b := NewIDPool()

	a.Acquire()
	a.Acquire()

	assert.Equal(t, ElementID(1), b.Acquire())
}
