package topology

import (
	"bufio"
	"fmt"
	"io"

	"github.com/factory-sim/factory-sim/sim"
)

// Save writes f in the format Load reads. Loading the output yields a factory
// with the same nodes, queue types and links.
func Save(f *sim.Factory, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "; == LOADING RAMPS ==\n\n")
	for _, r := range f.Ramps() {
		fmt.Fprintf(bw, "LOADING_RAMP id=%d delivery-interval=%d\n", r.ID(), r.DeliveryInterval())
	}

	fmt.Fprint(bw, "\n; == WORKERS ==\n\n")
	for _, wk := range f.Workers() {
		fmt.Fprintf(bw, "WORKER id=%d processing-time=%d queue-type=%s\n",
			wk.ID(), wk.ProcessingDuration(), wk.Queue().QueueType())
	}

	fmt.Fprint(bw, "\n; == STOREHOUSES ==\n\n")
	for _, s := range f.Storehouses() {
		fmt.Fprintf(bw, "STOREHOUSE id=%d\n", s.ID())
	}

	fmt.Fprint(bw, "\n; == LINKS ==\n\n")
	for _, r := range f.Ramps() {
		writeLinks(bw, r)
	}
	for _, wk := range f.Workers() {
		writeLinks(bw, wk)
	}
	return bw.Flush()
}

func writeLinks(w io.Writer, s sim.Sender) {
	receivers := s.Receivers()
	if len(receivers) == 0 {
		return
	}
	for _, dest := range receivers {
		fmt.Fprintf(w, "LINK src=%s dest=%s\n", s.Ref(), dest)
	}
	fmt.Fprintln(w)
}
