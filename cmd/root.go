package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/report"
	"github.com/factory-sim/factory-sim/sim/topology"
	"github.com/factory-sim/factory-sim/sim/trace"
)

var (
	// CLI flags for the simulation run
	configPath      string  // YAML run config
	topologyPath    string  // Topology description file
	turns           int64   // Number of turns to simulate
	seed            int64   // Master seed for receiver selection
	rngName         string  // Probability source: math or rngstream
	logLevel        string  // Log verbosity level
	reportInterval  int64   // Turn report every N turns (0 = off)
	reportTurns     []int64 // Turn report on these turns only
	structureReport bool    // Print the structure report before simulating
	traceLevel      string  // Dispatch trace level
	summarizeTrace  bool    // Print the dispatch trace summary
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Turn-based simulator for ramp/worker/storehouse production networks",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the factory simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := &RunConfig{}
		if configPath != "" {
			loaded, err := LoadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg = loaded
		}
		applyRunFlags(cmd, cfg)
		setupLogging(cfg.LogLevel)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid run config: %v", err)
		}

		var cfgSeed int64
		if cfg.Seed != nil {
			cfgSeed = *cfg.Seed
		}
		factory, err := loadFactory(cfg.Topology, cfgSeed, cfg.RNG)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.Trace.Level)})
		if st.Config.Enabled() {
			factory.SetTrace(st)
		}

		logrus.Infof("Starting simulation of %s: %d ramps, %d workers, %d storehouses, turns=%d, seed=%d",
			cfg.Topology, len(factory.Ramps()), len(factory.Workers()), len(factory.Storehouses()), *cfg.Turns, cfgSeed)

		if cfg.Report.Structure {
			if err := report.GenerateStructureReport(factory, os.Stdout); err != nil {
				logrus.Fatalf("writing structure report: %v", err)
			}
		}
		turnReport := func(f *sim.Factory, t sim.Time) {
			if err := report.GenerateSimulationTurnReport(f, os.Stdout, t); err != nil {
				logrus.Errorf("writing turn %d report: %v", t, err)
			}
		}
		if err := sim.Simulate(factory, sim.TimeOffset(*cfg.Turns), reportNotifier(cfg.Report), turnReport); err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}
		factory.Metrics().Print(os.Stdout)

		if cfg.Trace.Summarize && st.Config.Enabled() {
			printTraceSummary(trace.Summarize(st))
		}
		logrus.Info("Simulation complete.")
	},
}

// applyRunFlags copies explicitly set flags over cfg; flags win over the file.
func applyRunFlags(cmd *cobra.Command, cfg *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("topology") || cfg.Topology == "" {
		cfg.Topology = topologyPath
	}
	if flags.Changed("turns") || cfg.Turns == nil {
		t := turns
		cfg.Turns = &t
	}
	if flags.Changed("seed") || cfg.Seed == nil {
		s := seed
		cfg.Seed = &s
	}
	if flags.Changed("rng") || cfg.RNG == "" {
		cfg.RNG = rngName
	}
	if flags.Changed("log") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("report-interval") {
		cfg.Report.Interval = reportInterval
		cfg.Report.Turns = nil
	}
	if flags.Changed("report-turns") {
		cfg.Report.Turns = reportTurns
		cfg.Report.Interval = 0
	}
	if flags.Changed("structure") {
		cfg.Report.Structure = structureReport
	}
	if flags.Changed("trace-level") || cfg.Trace.Level == "" {
		cfg.Trace.Level = traceLevel
	}
	if flags.Changed("summarize-trace") {
		cfg.Trace.Summarize = summarizeTrace
	}
}

func setupLogging(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(parsed)
}

// newGeneratorSource maps an rng name onto a per-sender probability source.
func newGeneratorSource(name string, seed int64) (sim.GeneratorSource, error) {
	switch name {
	case "", "math":
		return sim.NewPartitionedRNG(sim.NewSimulationKey(seed)), nil
	case "rngstream":
		return sim.NewRNGStreams(sim.NewSimulationKey(seed)), nil
	}
	return nil, fmt.Errorf("unknown rng %q", name)
}

func loadFactory(path string, seed int64, rng string) (*sim.Factory, error) {
	generators, err := newGeneratorSource(rng, seed)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening topology: %w", err)
	}
	defer file.Close()
	return topology.Load(file, topology.Options{Generators: generators})
}

func reportNotifier(rc ReportConfig) sim.ReportNotifier {
	if len(rc.Turns) > 0 {
		ts := make([]sim.Time, len(rc.Turns))
		for i, t := range rc.Turns {
			ts[i] = sim.Time(t)
		}
		return sim.NewSpecificTurnsReportNotifier(ts...)
	}
	if rc.Interval > 0 {
		return sim.IntervalReportNotifier{Interval: sim.TimeOffset(rc.Interval)}
	}
	return nil
}

func printTraceSummary(s *trace.TraceSummary) {
	fmt.Println("=== Dispatch Trace Summary ===")
	fmt.Printf("Run ID               : %s\n", s.RunID)
	fmt.Printf("Total Dispatches     : %d\n", s.TotalDispatches)
	fmt.Printf("Unique Senders       : %d\n", s.UniqueSenders)
	fmt.Printf("Unique Receivers     : %d\n", s.UniqueReceivers)
	for _, name := range sortedNames(s.ReceiverDistribution) {
		fmt.Printf("  %-18s : %d\n", name, s.ReceiverDistribution[name])
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration file")
	runCmd.Flags().StringVar(&topologyPath, "topology", "", "Topology description file")
	runCmd.Flags().Int64Var(&turns, "turns", 10, "Number of turns to simulate")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for receiver selection")
	runCmd.Flags().StringVar(&rngName, "rng", "math", "Probability source (math, rngstream)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&reportInterval, "report-interval", 0, "Print a turn report every N turns, starting at turn 1")
	runCmd.Flags().Int64SliceVar(&reportTurns, "report-turns", nil, "Comma-separated turns to print a turn report for")
	runCmd.Flags().BoolVar(&structureReport, "structure", false, "Print the structure report before simulating")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Dispatch trace level (none, dispatches)")
	runCmd.Flags().BoolVar(&summarizeTrace, "summarize-trace", false, "Print the dispatch trace summary")

	topologyCmds := []*cobra.Command{checkCmd, structureCmd, formatCmd}
	for _, c := range topologyCmds {
		c.Flags().StringVar(&topologyPath, "topology", "", "Topology description file")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		_ = c.MarkFlagRequired("topology")
	}

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(topologyCmds...)
}
