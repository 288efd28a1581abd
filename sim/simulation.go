// sim/simulation.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ReportNotifier decides on which turns a report is generated.
type ReportNotifier interface {
	ShouldGenerateReport(t Time) bool
}

// IntervalReportNotifier fires on turns 1, 1+Interval, 1+2*Interval, ...
type IntervalReportNotifier struct {
	Interval TimeOffset
}

func (n IntervalReportNotifier) ShouldGenerateReport(t Time) bool {
	if n.Interval <= 0 {
		return false
	}
	return (int64(t)-1)%int64(n.Interval) == 0
}

// SpecificTurnsReportNotifier fires on an explicit set of turns.
type SpecificTurnsReportNotifier struct {
	turns map[Time]bool
}

func NewSpecificTurnsReportNotifier(turns ...Time) SpecificTurnsReportNotifier {
	n := SpecificTurnsReportNotifier{turns: make(map[Time]bool, len(turns))}
	for _, t := range turns {
		n.turns[t] = true
	}
	return n
}

func (n SpecificTurnsReportNotifier) ShouldGenerateReport(t Time) bool {
	return n.turns[t]
}

// Simulate verifies the factory and then runs turns 1..turns.
// After each turn, report is called if notifier asks for it; either may be nil.
// Returns an error wrapping ErrInconsistentFactory, with every violation
// joined in, if the check fails; no turn is run in that case.
func Simulate(f *Factory, turns TimeOffset, notifier ReportNotifier, report func(*Factory, Time)) error {
	verdict := f.CheckConsistency()
	if !verdict.Consistent() {
		for _, v := range verdict.Violations {
			logrus.Warnf("consistency: %v", v)
		}
		return fmt.Errorf("%w: %w", ErrInconsistentFactory, verdict.Err())
	}

	for t := Time(1); t <= Time(turns); t++ {
		logrus.Debugf("[tick %07d] deliveries, passing, work", t)
		if err := f.Turn(t); err != nil {
			return err
		}
		if report != nil && notifier != nil && notifier.ShouldGenerateReport(t) {
			report(f, t)
		}
	}
	logrus.Infof("[tick %07d] Simulation ended", f.Clock())
	return nil
}
