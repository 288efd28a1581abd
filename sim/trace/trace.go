package trace

import "github.com/rs/xid"

// TraceLevel controls the verbosity of dispatch tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDispatches captures every package hand-off.
	TraceLevelDispatches TraceLevel = "dispatches"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:       true,
	TraceLevelDispatches: true,
	"":                   true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected at all.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDispatches
}

// SimulationTrace collects dispatch records during a simulation.
// RunID is unique per trace so records from separate runs can be merged.
type SimulationTrace struct {
	RunID      string
	Config     TraceConfig
	Dispatches []DispatchRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		RunID:      xid.New().String(),
		Config:     config,
		Dispatches: make([]DispatchRecord, 0),
	}
}

// RecordDispatch appends a dispatch record. A no-op unless dispatch tracing is enabled.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	if !st.Config.Enabled() {
		return
	}
	st.Dispatches = append(st.Dispatches, record)
}
