package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
)

// Scenario defines one reproducible match run.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// League is the path of the CUE league file, relative to the scenario.
	League string `yaml:"league"`

	// Home and Away are team ids from the league.
	Home int `yaml:"home"`
	Away int `yaml:"away"`

	// MatchID is the engine id. Default: 1.
	MatchID int `yaml:"match_id,omitempty"`

	// Seed seeds a PCG generator. Ignored when Script is set.
	Seed uint64 `yaml:"seed,omitempty"`

	// Script replaces the generator with a fixed sequence of draws.
	Script *Script `yaml:"script,omitempty"`

	// Steps are played in order against the engine.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Script is a fixed sequence of random draws, see testutil.ScriptedRand.
type Script struct {
	Floats []float64 `yaml:"floats"`
	Ints   []int     `yaml:"ints"`

	// Quiet, when set, is returned once Floats run out. Without it running
	// out of draws fails the scenario.
	Quiet *float64 `yaml:"quiet,omitempty"`
}

// Step is one call on the engine.
type Step struct {
	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// Delta is the tick length for update and run_to_completion.
	Delta float64 `yaml:"delta,omitempty"`

	// Repeat plays an update step this many times. Default: 1.
	Repeat int `yaml:"repeat,omitempty"`

	// Speed is the multiplier for set_speed.
	Speed float64 `yaml:"speed,omitempty"`

	// Team, Out and In are the substitute arguments. Players are given by
	// id or by name ("loic" matches "Loïc").
	Team int    `yaml:"team,omitempty"`
	Out  string `yaml:"out,omitempty"`
	In   string `yaml:"in,omitempty"`

	// Player and PowerUp are the power_up arguments.
	Player  string `yaml:"player,omitempty"`
	PowerUp string `yaml:"power_up,omitempty"`

	// ExpectError is the error a substitute or power_up step must fail with:
	// a substitution error code (e.g. NOT_ON_FIELD) or a substring of the
	// error message. Empty means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step actions.
const (
	ActionStart           = "start"
	ActionUpdate          = "update"
	ActionPause           = "pause"
	ActionResume          = "resume"
	ActionSetSpeed        = "set_speed"
	ActionSubstitute      = "substitute"
	ActionPowerUp         = "power_up"
	ActionRunToCompletion = "run_to_completion"
)

// Assertion validates the final match state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Period is the expected period name (period).
	Period string `yaml:"period,omitempty"`

	// Home and Away are the expected scores (score).
	Home *int `yaml:"home,omitempty"`
	Away *int `yaml:"away,omitempty"`

	// Running is the expected running flag (running).
	Running *bool `yaml:"running,omitempty"`

	// Kind restricts event_count to one event kind; empty counts all.
	Kind string `yaml:"kind,omitempty"`

	// Count is the expected number of events (event_count).
	Count *int `yaml:"count,omitempty"`

	// Team is the expected winner id; 0 expects a draw (winner).
	Team *int `yaml:"team,omitempty"`

	// Clock is the expected "MM:SS" clock (clock).
	Clock string `yaml:"clock,omitempty"`
}

// Assertion type constants.
const (
	AssertPeriod     = "period"
	AssertScore      = "score"
	AssertRunning    = "running"
	AssertEventCount = "event_count"
	AssertWinner     = "winner"
	AssertClock      = "clock"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The league path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.League != "" && !filepath.IsAbs(scenario.League) {
		scenario.League = filepath.Join(filepath.Dir(path), scenario.League)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.League == "" {
		return fmt.Errorf("league is required")
	}
	if _, err := os.Stat(s.League); os.IsNotExist(err) {
		return fmt.Errorf("league file not found: %s", s.League)
	}
	if s.Home <= 0 || s.Away <= 0 {
		return fmt.Errorf("home and away team ids are required")
	}
	if s.Home == s.Away {
		return fmt.Errorf("home and away must differ")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	switch st.Action {
	case ActionStart, ActionPause, ActionResume:
	case ActionUpdate, ActionRunToCompletion:
		if st.Delta <= 0 {
			return fmt.Errorf("steps[%d]: positive delta is required for %s", index, st.Action)
		}
		if st.Repeat < 0 {
			return fmt.Errorf("steps[%d]: repeat must be non-negative", index)
		}
	case ActionSetSpeed:
		if st.Speed <= 0 {
			return fmt.Errorf("steps[%d]: positive speed is required for set_speed", index)
		}
	case ActionSubstitute:
		if st.Team == 0 || st.Out == "" || st.In == "" {
			return fmt.Errorf("steps[%d]: team, out and in are required for substitute", index)
		}
	case ActionPowerUp:
		if st.Player == "" || st.PowerUp == "" {
			return fmt.Errorf("steps[%d]: player and power_up are required for power_up", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, st.Action)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertPeriod:
		if _, err := engine.ParsePeriod(a.Period); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertScore:
		if a.Home == nil || a.Away == nil {
			return fmt.Errorf("assertions[%d]: home and away are required for score", index)
		}
	case AssertRunning:
		if a.Running == nil {
			return fmt.Errorf("assertions[%d]: running is required", index)
		}
	case AssertEventCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for event_count", index)
		}
		if a.Kind != "" {
			if !engine.EventKind(a.Kind).Valid() {
				return fmt.Errorf("assertions[%d]: unknown event kind %q", index, a.Kind)
			}
		}
	case AssertWinner:
		if a.Team == nil {
			return fmt.Errorf("assertions[%d]: team is required for winner (0 for a draw)", index)
		}
	case AssertClock:
		if a.Clock == "" {
			return fmt.Errorf("assertions[%d]: clock is required", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
