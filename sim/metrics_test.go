package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Print(t *testing.T) {
	f := buildLine(t)
	require.NoError(t, Simulate(f, 5, nil, nil))

	var buf bytes.Buffer
	f.Metrics().Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "=== Simulation Metrics ===")
	assert.Contains(t, out, "Turns Simulated      : 5")
	assert.Contains(t, out, "Packages Created     : 3")
	assert.Contains(t, out, "Packages Dispatched  : 5")
	assert.Contains(t, out, "Delivered to store-1 : 2")
	assert.Contains(t, out, "Peak queue worker-1  : 1")
}

func TestMetrics_RecordDispatch_CountsOnlyStorehouseDeliveries(t *testing.T) {
	m := NewMetrics()

	m.recordDispatch(Dispatch{Sender: RampRef(1), Receiver: WorkerRef(1), PackageID: 1})
	m.recordDispatch(Dispatch{Sender: WorkerRef(1), Receiver: StorehouseRef(2), PackageID: 1})

	assert.Equal(t, 2, m.PackagesDispatched)
	assert.Equal(t, map[string]int{"store-2": 1}, m.StorehouseDeliveries)
}
