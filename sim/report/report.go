// Package report renders human-readable descriptions of a factory: its
// structure, and its state at the end of a turn. Reports only read state.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/factory-sim/factory-sim/sim"
)

// GenerateStructureReport lists every node with its parameters and receivers.
func GenerateStructureReport(f *sim.Factory, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "\n== LOADING RAMPS ==\n\n")
	for _, r := range f.Ramps() {
		fmt.Fprintf(bw, "LOADING RAMP #%d\n", r.ID())
		fmt.Fprintf(bw, "  Delivery interval: %d\n", r.DeliveryInterval())
		writeReceivers(bw, r.Receivers())
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "\n== WORKERS ==\n\n")
	for _, wk := range f.Workers() {
		fmt.Fprintf(bw, "WORKER #%d\n", wk.ID())
		fmt.Fprintf(bw, "  Processing time: %d\n", wk.ProcessingDuration())
		fmt.Fprintf(bw, "  Queue type: %s\n", wk.Queue().QueueType())
		writeReceivers(bw, wk.Receivers())
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "\n== STOREHOUSES ==\n\n")
	for _, s := range f.Storehouses() {
		fmt.Fprintf(bw, "STOREHOUSE #%d\n\n", s.ID())
	}
	return bw.Flush()
}

func writeReceivers(w io.Writer, receivers []sim.NodeRef) {
	fmt.Fprintln(w, "  Receivers:")
	for _, ref := range receivers {
		name := "worker"
		if ref.Kind == sim.KindStorehouse {
			name = "storehouse"
		}
		fmt.Fprintf(w, "    %s #%d\n", name, ref.ID)
	}
}

// GenerateSimulationTurnReport shows every worker's buffers and queue and
// every storehouse's stock as of turn t.
func GenerateSimulationTurnReport(f *sim.Factory, w io.Writer, t sim.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "=== [ Turn: %d ] ===\n\n", t)

	fmt.Fprint(bw, "== WORKERS ==\n")
	for _, wk := range f.Workers() {
		fmt.Fprintf(bw, "\nWORKER #%d\n", wk.ID())
		if p, ok := wk.ProcessingBuffer(); ok {
			fmt.Fprintf(bw, "  PBuffer: #%d (pt = %d)\n", p.ID(), t-wk.ProcessingStartTime()+1)
		} else {
			fmt.Fprintln(bw, "  PBuffer: (empty)")
		}
		fmt.Fprintf(bw, "  Queue: %s\n", packageList(wk.Items()))
		if p, ok := wk.SendingBuffer(); ok {
			fmt.Fprintf(bw, "  SBuffer: #%d\n", p.ID())
		} else {
			fmt.Fprintln(bw, "  SBuffer: (empty)")
		}
	}

	fmt.Fprint(bw, "\n\n== STOREHOUSES ==\n")
	for _, s := range f.Storehouses() {
		fmt.Fprintf(bw, "\nSTOREHOUSE #%d\n", s.ID())
		fmt.Fprintf(bw, "  Stock: %s\n", packageList(s.Items()))
	}
	fmt.Fprintln(bw)
	return bw.Flush()
}

func packageList(packages []sim.Package) string {
	if len(packages) == 0 {
		return "(empty)"
	}
	ids := make([]string, len(packages))
	for i, p := range packages {
		ids[i] = fmt.Sprintf("#%d", p.ID())
	}
	return strings.Join(ids, ", ")
}
