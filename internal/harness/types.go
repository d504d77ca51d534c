package harness

import "github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"

// FinalState is the engine read surface captured after the last step.
type FinalState struct {
	Period    engine.Period `json:"period"`
	HomeScore int           `json:"home_score"`
	AwayScore int           `json:"away_score"`
	Elapsed   float64       `json:"elapsed"`
	Clock     string        `json:"clock"`
	Running   bool          `json:"running"`
	// Winner is the winning team id, 0 for a draw or an unfinished match.
	Winner int `json:"winner"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step behaved as expected and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace is the engine's event log in creation order.
	Trace []engine.Record `json:"trace"`

	// Final is the state after the last step.
	Final FinalState `json:"final"`

	// Errors contains step and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []engine.Record{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func captureFinal(e *engine.Engine) FinalState {
	home, away := e.Score()
	winner, _ := e.Winner()
	return FinalState{
		Period:    e.Period(),
		HomeScore: home,
		AwayScore: away,
		Elapsed:   e.Elapsed(),
		Clock:     e.Clock(),
		Running:   e.Running(),
		Winner:    winner,
	}
}

func captureTrace(e *engine.Engine) []engine.Record {
	events := e.Events()
	trace := make([]engine.Record, len(events))
	for i, ev := range events {
		trace[i] = engine.NewRecord(ev)
	}
	return trace
}
