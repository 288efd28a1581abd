package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	RunID                string
	TotalDispatches      int
	UniqueSenders        int
	UniqueReceivers      int
	LastTurn             int64
	SenderDistribution   map[string]int // sender → packages dispatched
	ReceiverDistribution map[string]int // receiver → packages received
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		SenderDistribution:   make(map[string]int),
		ReceiverDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}
	summary.RunID = st.RunID
	summary.TotalDispatches = len(st.Dispatches)
	for _, d := range st.Dispatches {
		summary.SenderDistribution[d.Sender]++
		summary.ReceiverDistribution[d.Receiver]++
		if d.Turn > summary.LastTurn {
			summary.LastTurn = d.Turn
		}
	}
	summary.UniqueSenders = len(summary.SenderDistribution)
	summary.UniqueReceivers = len(summary.ReceiverDistribution)
	return summary
}
