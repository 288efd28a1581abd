// Package trace provides dispatch-trace recording for routing analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DispatchRecord captures a single package hand-off from a sender to a receiver.
type DispatchRecord struct {
	Turn      int64
	PackageID uint64
	Sender    string // e.g. "ramp-1"
	Receiver  string // e.g. "worker-2"
}
