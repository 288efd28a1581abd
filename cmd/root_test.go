package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/trace"
)

const lineTopology = `LOADING_RAMP id=1 delivery-interval=1
WORKER id=1 processing-time=1 queue-type=FIFO
STOREHOUSE id=1
LINK src=ramp-1 dest=worker-1
LINK src=worker-1 dest=store-1
`

func writeTopology(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factory.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestRunCmd_FlagDefaults(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"turns", "10"},
		{"seed", "42"},
		{"rng", "math"},
		{"log", "error"},
		{"report-interval", "0"},
		{"trace-level", "none"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := runCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, f, "flag --%s must be registered", tt.flag)
			assert.Equal(t, tt.want, f.DefValue)
		})
	}
}

func TestTopologyCmds_RequireTopologyFlag(t *testing.T) {
	for _, c := range []string{"check", "structure", "format"} {
		t.Run(c, func(t *testing.T) {
			sub, _, err := rootCmd.Find([]string{c})
			require.NoError(t, err)
			f := sub.Flags().Lookup("topology")
			require.NotNil(t, f)
			assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag])
		})
	}
}

func TestApplyRunFlags_FileValuesKeptWhenFlagsUnset(t *testing.T) {
	// GIVEN a config with explicit values and no CLI flags changed
	s, n := int64(3), int64(20)
	cfg := &RunConfig{Topology: "f.txt", Turns: &n, Seed: &s, RNG: "rngstream"}

	// WHEN flags are applied
	applyRunFlags(runCmd, cfg)

	// THEN file values win and empty fields take flag defaults
	assert.Equal(t, "f.txt", cfg.Topology)
	assert.Equal(t, int64(20), *cfg.Turns)
	assert.Equal(t, int64(3), *cfg.Seed)
	assert.Equal(t, "rngstream", cfg.RNG)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "none", cfg.Trace.Level)
}

func TestApplyRunFlags_ExplicitZeroTurnsKept(t *testing.T) {
	// GIVEN a config file that asks for zero turns
	path := writeRunConfig(t, "topology: f.txt\nturns: 0\n")
	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)

	// WHEN flags are applied without --turns
	applyRunFlags(runCmd, cfg)

	// THEN the file's zero is not replaced by the flag default
	require.NotNil(t, cfg.Turns)
	assert.Equal(t, int64(0), *cfg.Turns)
	assert.NoError(t, cfg.Validate())
}

func TestApplyRunFlags_TurnsUnsetTakesFlagDefault(t *testing.T) {
	cfg := &RunConfig{Topology: "f.txt"}

	applyRunFlags(runCmd, cfg)

	require.NotNil(t, cfg.Turns)
	assert.Equal(t, int64(10), *cfg.Turns)
}

func TestApplyRunFlags_ChangedFlagOverridesFile(t *testing.T) {
	flags := runCmd.Flags()
	require.NoError(t, flags.Set("turns", "7"))
	require.NoError(t, flags.Set("report-turns", "2,4"))
	t.Cleanup(func() {
		_ = flags.Set("turns", "10")
		flags.Lookup("turns").Changed = false
		reportTurns = nil
		flags.Lookup("report-turns").Changed = false
	})

	n := int64(20)
	cfg := &RunConfig{Topology: "f.txt", Turns: &n, Report: ReportConfig{Interval: 5}}
	applyRunFlags(runCmd, cfg)

	assert.Equal(t, int64(7), *cfg.Turns)
	assert.Equal(t, []int64{2, 4}, cfg.Report.Turns)
	assert.Zero(t, cfg.Report.Interval, "report turns replace a file interval")
}

func TestNewGeneratorSource(t *testing.T) {
	tests := []struct {
		name     string
		wantType any
		wantErr  bool
	}{
		{"", &sim.PartitionedRNG{}, false},
		{"math", &sim.PartitionedRNG{}, false},
		{"rngstream", &sim.RNGStreams{}, false},
		{"mersenne", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := newGeneratorSource(tt.name, 42)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, src)
			v := src.ForSender("ramp-1")()
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		})
	}
}

func TestNewGeneratorSource_MathSeedPropagates(t *testing.T) {
	src, err := newGeneratorSource("math", 1234)
	require.NoError(t, err)

	rng, ok := src.(*sim.PartitionedRNG)
	require.True(t, ok)
	assert.Equal(t, sim.SimulationKey(1234), rng.Key())
}

func TestLoadFactory(t *testing.T) {
	path := writeTopology(t, lineTopology)

	f, err := loadFactory(path, 42, "math")

	require.NoError(t, err)
	assert.Len(t, f.Ramps(), 1)
	assert.True(t, f.IsConsistent())
}

func TestLoadFactory_Errors(t *testing.T) {
	_, err := loadFactory(filepath.Join(t.TempDir(), "missing.txt"), 0, "math")
	assert.Error(t, err)

	_, err = loadFactory(writeTopology(t, lineTopology), 0, "bogus")
	assert.Error(t, err)
}

func TestReportNotifier(t *testing.T) {
	tests := []struct {
		name  string
		rc    ReportConfig
		want  []sim.Time
		isNil bool
	}{
		{name: "none", rc: ReportConfig{}, isNil: true},
		{name: "interval", rc: ReportConfig{Interval: 2}, want: []sim.Time{1, 3, 5}},
		{name: "turns", rc: ReportConfig{Turns: []int64{2, 5}}, want: []sim.Time{2, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := reportNotifier(tt.rc)
			if tt.isNil {
				assert.Nil(t, n)
				return
			}
			var got []sim.Time
			for turn := sim.Time(1); turn <= 5; turn++ {
				if n.ShouldGenerateReport(turn) {
					got = append(got, turn)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintTraceSummary_WritesToStdout(t *testing.T) {
	// GIVEN a trace with two dispatches
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDispatches})
	st.RecordDispatch(trace.DispatchRecord{Turn: 1, PackageID: 1, Sender: "ramp-1", Receiver: "worker-1"})
	st.RecordDispatch(trace.DispatchRecord{Turn: 2, PackageID: 1, Sender: "worker-1", Receiver: "store-1"})

	// WHEN the summary is printed
	out := captureStdout(t, func() { printTraceSummary(trace.Summarize(st)) })

	// THEN totals and the per-receiver distribution appear
	assert.Contains(t, out, "=== Dispatch Trace Summary ===")
	assert.Contains(t, out, "Total Dispatches     : 2")
	assert.Contains(t, out, "store-1")
	assert.Contains(t, out, st.RunID)
}

func TestSortedNames(t *testing.T) {
	got := sortedNames(map[string]int{"worker-2": 1, "store-1": 4, "ramp-1": 2})

	assert.Equal(t, []string{"ramp-1", "store-1", "worker-2"}, got)
	assert.Empty(t, sortedNames(nil))
}
