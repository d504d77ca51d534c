package harness

import (
	"fmt"
	"strings"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes the event log to help debug the failure.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Trace    []engine.Record // Full event log for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nEvent log:\n")
		for i, rec := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %d' %s\n", i+1, rec.Event.When(), rec.Kind)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	final := result.Final
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: result.Trace}
	}

	switch a.Type {
	case AssertPeriod:
		want, err := engine.ParsePeriod(a.Period)
		if err != nil {
			return err
		}
		if final.Period != want {
			return fail(want.String(), final.Period.String())
		}
	case AssertScore:
		if final.HomeScore != *a.Home || final.AwayScore != *a.Away {
			return fail(fmt.Sprintf("%d - %d", *a.Home, *a.Away),
				fmt.Sprintf("%d - %d", final.HomeScore, final.AwayScore))
		}
	case AssertRunning:
		if final.Running != *a.Running {
			return fail(fmt.Sprintf("running=%t", *a.Running), fmt.Sprintf("running=%t", final.Running))
		}
	case AssertEventCount:
		n := countEvents(result.Trace, engine.EventKind(a.Kind))
		if n != *a.Count {
			label := a.Kind
			if label == "" {
				label = "events"
			}
			return fail(fmt.Sprintf("%d %s", *a.Count, label), fmt.Sprintf("%d %s", n, label))
		}
	case AssertWinner:
		if final.Winner != *a.Team {
			return fail(describeWinner(*a.Team), describeWinner(final.Winner))
		}
	case AssertClock:
		if final.Clock != a.Clock {
			return fail(a.Clock, final.Clock)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// countEvents counts records of one kind; an empty kind counts them all.
func countEvents(trace []engine.Record, kind engine.EventKind) int {
	if kind == "" {
		return len(trace)
	}
	n := 0
	for _, rec := range trace {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

func describeWinner(teamID int) string {
	if teamID == 0 {
		return "no winner"
	}
	return fmt.Sprintf("team %d", teamID)
}
