package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/league"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/testutil"
)

// Harness plays one scenario against one engine.
type Harness struct {
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load the league and build the fixture
// 2. Build the randomness source (script or seed)
// 3. Play the steps in order
// 4. Capture trace and final state, evaluate assertions
//
// An error is returned only when the scenario cannot be executed at all
// (bad league, bad fixture, script exhausted). Unexpected step outcomes and
// failed assertions are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with engine logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	lg, err := league.Load(scenario.League)
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	home, away, err := lg.Fixture(scenario.Home, scenario.Away)
	if err != nil {
		return nil, fmt.Errorf("failed to build fixture: %w", err)
	}

	matchID := scenario.MatchID
	if matchID == 0 {
		matchID = 1
	}

	h := &Harness{
		engine: engine.New(matchID, home, away,
			engine.WithRand(buildRand(scenario)),
			engine.WithLogger(logger)),
		logger: logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(i, step, result); err != nil {
			return nil, err
		}
	}

	result.Trace = captureTrace(h.engine)
	result.Final = captureFinal(h.engine)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// Engine returns the engine the harness drives.
func (h *Harness) Engine() *engine.Engine {
	return h.engine
}

func buildRand(s *Scenario) engine.Rand {
	if s.Script == nil {
		return engine.NewSeededRand(s.Seed)
	}
	r := testutil.NewScriptedRand(s.Script.Floats...).Ints(s.Script.Ints...)
	if s.Script.Quiet != nil {
		r.Quiet(*s.Script.Quiet)
	}
	return r
}

// executeStep plays one step. A scripted generator panics when it runs out
// of draws; that panic is turned into an error naming the step.
func (h *Harness) executeStep(index int, step Step, result *Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("steps[%d] %s: %v", index, step.Action, r)
		}
	}()

	e := h.engine
	var stepErr error
	switch step.Action {
	case ActionStart:
		stepErr = e.Start()
	case ActionUpdate:
		repeat := step.Repeat
		if repeat == 0 {
			repeat = 1
		}
		for n := 0; n < repeat; n++ {
			e.Update(step.Delta)
		}
	case ActionPause:
		e.Pause()
	case ActionResume:
		e.Resume()
	case ActionSetSpeed:
		e.SetSpeed(step.Speed)
	case ActionSubstitute:
		stepErr = substitute(e, step.Team, step.Out, step.In)
	case ActionPowerUp:
		stepErr = usePowerUp(e, step.Player, engine.PowerUpKind(step.PowerUp))
	case ActionRunToCompletion:
		stepErr = e.RunToCompletion(step.Delta)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, step.Action)
	}

	h.logger.Debug("scenario step",
		"index", index,
		"action", step.Action,
		"clock", e.Clock(),
		"score", e.ScoreLine())
	checkStepError(index, step, stepErr, result)
	return nil
}

func checkStepError(index int, step Step, err error, result *Result) {
	switch {
	case step.ExpectError == "" && err != nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", index, step.Action, err))
	case step.ExpectError != "" && err == nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %q, got success", index, step.Action, step.ExpectError))
	case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %q, got %v", index, step.Action, step.ExpectError, err))
	}
}

func substitute(e *engine.Engine, teamID int, out, in string) error {
	outID, err := e.ResolvePlayer(teamID, out)
	if err != nil {
		return err
	}
	inID, err := e.ResolvePlayer(teamID, in)
	if err != nil {
		return err
	}
	return e.Substitute(teamID, outID, inID)
}

func usePowerUp(e *engine.Engine, player string, kind engine.PowerUpKind) error {
	if !kind.Valid() {
		return e.UsePowerUp(0, kind)
	}
	id, err := e.ResolvePlayer(0, player)
	if err != nil {
		return err
	}
	return e.UsePowerUp(id, kind)
}
