package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mapDirectory resolves receivers without a Factory.
type mapDirectory map[NodeRef]PackageReceiver

func (d mapDirectory) Receiver(ref NodeRef) (PackageReceiver, bool) {
	r, ok := d[ref]
	return r, ok
}

// recoverError runs fn and returns the error it panicked with, or nil.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			}
		}
	}()
	fn()
	return nil
}

func mustRamp(t *testing.T, f *Factory, id ElementID, interval TimeOffset, pg ProbabilityGenerator) *Ramp {
	t.Helper()
	r, err := NewRamp(id, interval, f.Pool(), pg)
	require.NoError(t, err)
	require.NoError(t, f.AddRamp(r))
	return r
}

func mustWorker(t *testing.T, f *Factory, id ElementID, duration TimeOffset, qt QueueType, pg ProbabilityGenerator) *Worker {
	t.Helper()
	w, err := NewWorker(id, duration, NewQueue(qt), pg)
	require.NoError(t, err)
	require.NoError(t, f.AddWorker(w))
	return w
}

func mustStorehouse(t *testing.T, f *Factory, id ElementID) *Storehouse {
	t.Helper()
	s := NewStorehouse(id, nil)
	require.NoError(t, f.AddStorehouse(s))
	return s
}

func mustLink(t *testing.T, f *Factory, src, dest NodeRef) {
	t.Helper()
	require.NoError(t, f.Link(src, dest))
}

func packageIDs(packages []Package) []ElementID {
	ids := make([]ElementID, len(packages))
	for i, p := range packages {
		ids[i] = p.ID()
	}
	return ids
}
