package harness

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

// quietScenario plays a scripted match that never fires an event.
func quietScenario(steps []Step, assertions ...Assertion) *Scenario {
	return &Scenario{
		Name:        "quiet",
		Description: "No events",
		League:      facultyCup,
		Home:        1,
		Away:        2,
		Script:      &Script{Quiet: floatPtr(0.5)},
		Steps:       steps,
		Assertions:  assertions,
	}
}

func TestRun_Fixtures(t *testing.T) {
	paths, err := filepath.Glob("../../testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_QuietHalf(t *testing.T) {
	scenario := quietScenario(
		[]Step{
			{Action: ActionStart},
			{Action: ActionUpdate, Delta: 5, Repeat: 120},
		},
		Assertion{Type: AssertPeriod, Period: "half_time"},
		Assertion{Type: AssertRunning, Running: boolPtr(false)},
		Assertion{Type: AssertEventCount, Count: intPtr(0)},
	)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Trace)
	assert.Equal(t, FinalState{
		Period:  engine.HalfTime,
		Elapsed: 600,
		Clock:   "10:00",
	}, result.Final)
}

func TestRun_FailedAssertions(t *testing.T) {
	scenario := quietScenario(
		[]Step{{Action: ActionRunToCompletion, Delta: 5}},
		Assertion{Type: AssertScore, Home: intPtr(2), Away: intPtr(0)},
		Assertion{Type: AssertWinner, Team: intPtr(1)},
		Assertion{Type: AssertClock, Clock: "20:00"},
	)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "assertions[0]")
	assert.Contains(t, result.Errors[0], "Expected: 2 - 0")
	assert.Contains(t, result.Errors[0], "Actual: 0 - 0")
	assert.Contains(t, result.Errors[1], "Expected: team 1")
	assert.Contains(t, result.Errors[1], "Actual: no winner")
}

func TestRun_StepErrors(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		wantErr string
	}{
		{
			name:    "unexpected refusal",
			step:    Step{Action: ActionSubstitute, Team: 1, Out: "3", In: "6"},
			wantErr: "steps[1] substitute: unexpected error: NOT_ON_FIELD",
		},
		{
			name:    "expected refusal succeeded",
			step:    Step{Action: ActionSubstitute, Team: 1, Out: "1", In: "6", ExpectError: "NOT_ON_FIELD"},
			wantErr: `steps[1] substitute: expected error "NOT_ON_FIELD", got success`,
		},
		{
			name:    "wrong refusal",
			step:    Step{Action: ActionSubstitute, Team: 1, Out: "1", In: "2", ExpectError: "UNAVAILABLE"},
			wantErr: `steps[1] substitute: expected error "UNAVAILABLE", got ALREADY_ON_FIELD`,
		},
		{
			name:    "unknown power-up",
			step:    Step{Action: ActionPowerUp, Player: "1", PowerUp: "warp_drive"},
			wantErr: "steps[1] power_up: unexpected error: unknown power-up",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := quietScenario(
				[]Step{{Action: ActionStart}, tt.step},
				Assertion{Type: AssertPeriod, Period: "first_half"},
			)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], tt.wantErr)
		})
	}
}

func TestRun_ScriptExhausted(t *testing.T) {
	scenario := quietScenario(
		[]Step{
			{Action: ActionStart},
			{Action: ActionUpdate, Delta: 1},
		},
		Assertion{Type: AssertPeriod, Period: "first_half"},
	)
	scenario.Script = &Script{Floats: []float64{0.5, 0.5}}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[1] update")
	assert.Contains(t, err.Error(), "all floats exhausted")
}

func TestRun_BadFixture(t *testing.T) {
	scenario := quietScenario([]Step{{Action: ActionStart}},
		Assertion{Type: AssertPeriod, Period: "first_half"})
	scenario.Away = 9

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build fixture")
	assert.Contains(t, err.Error(), "away team 9")
}

func TestRun_MissingLeague(t *testing.T) {
	scenario := quietScenario([]Step{{Action: ActionStart}},
		Assertion{Type: AssertPeriod, Period: "first_half"})
	scenario.League = filepath.Join(t.TempDir(), "missing.cue")

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load league")
}

func TestRun_SeedIsReproducible(t *testing.T) {
	scenario := &Scenario{
		Name:        "seeded",
		Description: "Same seed, same match",
		League:      facultyCup,
		Home:        2,
		Away:        1,
		Seed:        2024,
		Steps:       []Step{{Action: ActionRunToCompletion, Delta: 2}},
		Assertions:  []Assertion{{Type: AssertPeriod, Period: "finished"}},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, first.Pass)
	assert.Equal(t, first.Final, second.Final)
	assert.Equal(t, first.Trace, second.Trace)
}

func TestRunWithLogger_LogsSteps(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	scenario := quietScenario(
		[]Step{{Action: ActionStart}, {Action: ActionUpdate, Delta: 1}},
		Assertion{Type: AssertClock, Clock: "00:01"},
	)
	result, err := RunWithLogger(scenario, logger)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	out := buf.String()
	assert.Contains(t, out, "kickoff")
	assert.Equal(t, 2, strings.Count(out, "scenario step"))
	assert.Contains(t, out, "clock=00:01")
}
