// Tracks simulation-wide counters such as packages created and dispatched,
// deliveries per storehouse and the deepest queue each worker reached.

package sim

import (
	"fmt"
	"io"

	"golang.org/x/exp/slices"
)

// Metrics aggregates statistics about the simulation
// for final reporting. Keys are NodeRef strings.
type Metrics struct {
	TurnsSimulated     int64 // Number of completed turns
	PackagesCreated    int   // Packages materialized by ramps
	PackagesDispatched int   // Hand-offs from any sender to any receiver

	StorehouseDeliveries map[string]int // storehouse → packages received
	PeakQueueDepth       map[string]int // worker → deepest input queue observed
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		StorehouseDeliveries: make(map[string]int),
		PeakQueueDepth:       make(map[string]int),
	}
}

func (m *Metrics) recordDispatch(d Dispatch) {
	m.PackagesDispatched++
	if d.Receiver.Kind == KindStorehouse {
		m.StorehouseDeliveries[d.Receiver.String()]++
	}
}

func (m *Metrics) observeQueue(w *Worker) {
	key := w.Ref().String()
	if depth := w.Queue().Len(); depth > m.PeakQueueDepth[key] {
		m.PeakQueueDepth[key] = depth
	}
}

// Print writes aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Turns Simulated      : %d\n", m.TurnsSimulated)
	fmt.Fprintf(w, "Packages Created     : %d\n", m.PackagesCreated)
	fmt.Fprintf(w, "Packages Dispatched  : %d\n", m.PackagesDispatched)
	for _, key := range sortedKeys(m.StorehouseDeliveries) {
		fmt.Fprintf(w, "Delivered to %-8s: %d\n", key, m.StorehouseDeliveries[key])
	}
	for _, key := range sortedKeys(m.PeakQueueDepth) {
		fmt.Fprintf(w, "Peak queue %-10s: %d\n", key, m.PeakQueueDepth[key])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
