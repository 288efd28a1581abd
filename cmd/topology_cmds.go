package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/report"
	"github.com/factory-sim/factory-sim/sim/topology"
)

// checkCmd verifies that every ramp can reach a storehouse
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a topology for structural consistency",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)
		factory := mustLoadTopology(topologyPath)
		verdict := factory.CheckConsistency()
		if verdict.Consistent() {
			fmt.Println("consistent")
			return
		}
		fmt.Println("inconsistent")
		for _, v := range verdict.Violations {
			fmt.Printf("  %s: %v\n", v.Kind, v)
		}
		os.Exit(1)
	},
}

// structureCmd prints the structure report of a topology
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Print the structure report of a topology",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)
		factory := mustLoadTopology(topologyPath)
		if err := report.GenerateStructureReport(factory, os.Stdout); err != nil {
			logrus.Fatalf("writing structure report: %v", err)
		}
	},
}

// formatCmd re-serializes a topology in canonical order
var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Rewrite a topology file in canonical form to stdout",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)
		factory := mustLoadTopology(topologyPath)
		if err := topology.Save(factory, os.Stdout); err != nil {
			logrus.Fatalf("writing topology: %v", err)
		}
	},
}

func mustLoadTopology(path string) *sim.Factory {
	factory, err := loadFactory(path, 0, "math")
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return factory
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
