package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// RunConfig holds a simulation run configuration, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML".
type RunConfig struct {
	Topology string       `yaml:"topology"`
	Turns    *int64       `yaml:"turns"`
	Seed     *int64       `yaml:"seed"`
	RNG      string       `yaml:"rng"`
	LogLevel string       `yaml:"log"`
	Report   ReportConfig `yaml:"report"`
	Trace    TraceConfig  `yaml:"trace"`
}

// ReportConfig selects which turns get a turn report.
// Interval and Turns are mutually exclusive.
type ReportConfig struct {
	Structure bool    `yaml:"structure"`
	Interval  int64   `yaml:"interval"`
	Turns     []int64 `yaml:"turns"`
}

// TraceConfig controls dispatch tracing.
type TraceConfig struct {
	Level     string `yaml:"level"`
	Summarize bool   `yaml:"summarize"`
}

// ValidRNGs is the set of recognized probability sources.
var ValidRNGs = map[string]bool{"": true, "math": true, "rngstream": true}

// LoadRunConfig reads and parses a YAML run configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &cfg, nil
}

// Validate checks option names and parameter ranges.
func (c *RunConfig) Validate() error {
	if c.Topology == "" {
		return fmt.Errorf("topology path is required")
	}
	if c.Turns == nil {
		return fmt.Errorf("turns is required")
	}
	if *c.Turns < 0 {
		return fmt.Errorf("turns must be non-negative, got %d", *c.Turns)
	}
	if !ValidRNGs[c.RNG] {
		return fmt.Errorf("unknown rng %q; valid: math, rngstream", c.RNG)
	}
	if !trace.IsValidTraceLevel(c.Trace.Level) {
		return fmt.Errorf("unknown trace level %q; valid: none, dispatches", c.Trace.Level)
	}
	if c.Report.Interval < 0 {
		return fmt.Errorf("report interval must be non-negative, got %d", c.Report.Interval)
	}
	if c.Report.Interval > 0 && len(c.Report.Turns) > 0 {
		return fmt.Errorf("report interval and report turns are mutually exclusive")
	}
	for _, t := range c.Report.Turns {
		if t < 1 {
			return fmt.Errorf("report turns must be positive, got %d", t)
		}
	}
	return nil
}
