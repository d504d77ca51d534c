package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
)

// Match timing, in match seconds.
const (
	HalfDuration  = 600.0
	MatchDuration = 1200.0

	// MaxRecommendedDelta is the largest tick for which rate × delta is a
	// reasonable approximation of the event process. Larger ticks are
	// accepted but logged at debug level.
	MaxRecommendedDelta = 5.0
)

// Engine is a single match between a home and an away team.
//
// INVARIANTS:
//   - period only moves forward: FirstHalf, HalfTime, SecondHalf, Finished
//   - scores never decrease and equal the number of Goal events per side
//   - events is append-only with non-decreasing minutes
//   - the ball stays inside the playable box after every tick
//   - team records are reconciled exactly once, on entering Finished
type Engine struct {
	id       int
	runToken string
	home     roster.Team
	away     roster.Team

	homeScore int
	awayScore int

	elapsed float64
	period  Period
	started bool
	running bool
	speed   float64

	ball   Ball
	events []Event

	// Fixed at construction from each team's chemistry.
	homeBonus float64
	awayBonus float64

	rng    Rand
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source. Default: NewEntropyRand().
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithRunToken sets the token identifying this run of the fixture. The store
// refuses to write a run over a match saved by another one.
// Default: a fresh UUIDv7.
func WithRunToken(token string) Option {
	return func(e *Engine) {
		e.runToken = token
	}
}

// WithSpeed sets the simulation-speed multiplier applied to every delta.
// Non-positive values are ignored.
func WithSpeed(speed float64) Option {
	return func(e *Engine) {
		if speed > 0 {
			e.speed = speed
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine for one fixture. Both teams are deep-copied; the
// caller's values are never touched. Callers validate lineups beforehand
// with roster.ValidateLineup.
func New(id int, home, away roster.Team, opts ...Option) *Engine {
	e := &Engine{
		id:     id,
		home:   home.Clone(),
		away:   away.Clone(),
		period: FirstHalf,
		speed:  1,
		events: make([]Event, 0, 32),
	}
	e.homeBonus = ScientificBonus(e.home.Chemistry)
	e.awayBonus = ScientificBonus(e.away.Chemistry)

	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewEntropyRand()
	}
	if e.runToken == "" {
		e.runToken = uuid.Must(uuid.NewV7()).String()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// ScientificBonus is the rating multiplier offset earned by chemistry:
// (chemistry - 0.5) × 0.2.
func ScientificBonus(chemistry float64) float64 {
	return (chemistry - 0.5) * 0.2
}

// Start kicks off the first half and counts a match played for every
// on-field player. Only the first call has any effect.
func (e *Engine) Start() error {
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true
	e.period = FirstHalf
	e.running = true
	for _, t := range []*roster.Team{&e.home, &e.away} {
		for _, p := range t.OnField() {
			p.Matches++
		}
	}
	e.logger.Debug("kickoff", "match", e.id, "home", e.home.Name, "away", e.away.Name)
	return nil
}

// Pause stops the clock. Idempotent.
func (e *Engine) Pause() {
	e.running = false
}

// Resume restarts the clock, moving from half-time into the second half.
// It does nothing once the match is finished. Before Start it also does
// nothing and leaves the clock stopped: only Start kicks off, so the
// matches-played counters are bumped exactly once.
func (e *Engine) Resume() {
	if !e.started || e.period == Finished {
		return
	}
	if e.period == HalfTime {
		e.period = SecondHalf
		e.logger.Debug("second half", "match", e.id)
	}
	e.running = true
}

// SetSpeed changes the simulation-speed multiplier. Non-positive values are
// ignored.
func (e *Engine) SetSpeed(speed float64) {
	if speed > 0 {
		e.speed = speed
	}
}

// Update advances the match by delta real seconds. It is a no-op while the
// clock is stopped.
func (e *Engine) Update(delta float64) {
	if !e.running || e.period == Finished || delta <= 0 {
		return
	}
	if delta > MaxRecommendedDelta {
		e.logger.Debug("tick delta exceeds recommended maximum",
			"match", e.id, "delta", delta, "max", MaxRecommendedDelta)
	}

	step := delta * e.speed
	e.elapsed += step

	if e.period == FirstHalf && e.elapsed >= HalfDuration {
		e.period = HalfTime
		e.running = false
		e.logger.Debug("half time", "match", e.id, "score", e.ScoreLine())
		return
	}
	if e.period == SecondHalf && e.elapsed >= MatchDuration {
		e.finish()
		return
	}

	e.moveBall(step)
	e.drainStamina(step)
	e.generateEvents(step)
}

// RunToCompletion starts the match if needed and ticks it with a fixed
// delta until it is finished, resuming automatically after half-time or a
// pause.
func (e *Engine) RunToCompletion(delta float64) error {
	if delta <= 0 {
		return fmt.Errorf("run to completion: %w", ErrInvalidDelta)
	}
	if !e.started {
		if err := e.Start(); err != nil {
			return err
		}
	}
	for e.period != Finished {
		if !e.running {
			e.Resume()
		}
		e.Update(delta)
	}
	return nil
}

func (e *Engine) finish() {
	e.running = false
	e.period = Finished
	e.home.RecordResult(e.homeScore, e.awayScore)
	e.away.RecordResult(e.awayScore, e.homeScore)
	e.logger.Info("full time",
		"match", e.id,
		"home", e.home.Name,
		"away", e.away.Name,
		"score", e.ScoreLine(),
		"events", len(e.events))
}

// Substitute swaps outID off and inID on for the given team. A refused
// substitution leaves the match unchanged and returns a
// *roster.SubstitutionError.
func (e *Engine) Substitute(teamID, outID, inID int) error {
	if e.period == Finished {
		return roster.NewSubstitutionError(roster.ErrCodeMatchFinished, teamID, 0)
	}
	team := e.team(teamID)
	if team == nil {
		return roster.NewSubstitutionError(roster.ErrCodeTeamNotFound, teamID, 0)
	}
	if err := team.Substitute(outID, inID); err != nil {
		return err
	}
	e.events = append(e.events, Substitution{At: e.at(), TeamID: teamID, OutID: outID, InID: inID})
	return nil
}

// UsePowerUp records an on-field player activating a power-up.
func (e *Engine) UsePowerUp(playerID int, kind PowerUpKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPowerUp, kind)
	}
	if err := e.checkPowerUp(playerID); err != nil {
		return err
	}
	e.events = append(e.events, PowerUpUsed{At: e.at(), PlayerID: playerID, PowerUp: kind})
	return nil
}

// DrawPowerUp activates a power-up drawn with RandomPowerUp from the match's
// randomness source. Nothing is drawn when the player cannot use one.
func (e *Engine) DrawPowerUp(playerID int) (PowerUpKind, error) {
	if err := e.checkPowerUp(playerID); err != nil {
		return "", err
	}
	kind := RandomPowerUp(e.rng)
	e.events = append(e.events, PowerUpUsed{At: e.at(), PlayerID: playerID, PowerUp: kind})
	e.logger.Debug("power-up drawn", "match", e.id, "player", playerID, "kind", kind, "rarity", kind.Rarity())
	return kind, nil
}

// ResolvePlayer turns a player reference, an id or a name matched with
// roster.FoldName, into a player id. With a non-zero teamID only that team
// is searched and failures are substitution errors (TEAM_NOT_FOUND or
// PLAYER_NOT_FOUND); with zero both teams are searched, home first, and an
// unknown reference wraps ErrUnknownPlayer.
func (e *Engine) ResolvePlayer(teamID int, ref string) (int, error) {
	if teamID != 0 {
		t := e.team(teamID)
		if t == nil {
			return 0, roster.NewSubstitutionError(roster.ErrCodeTeamNotFound, teamID, 0)
		}
		if p := t.FindPlayer(ref); p != nil {
			return p.ID, nil
		}
		return 0, fmt.Errorf("player %q: %w", ref, roster.NewSubstitutionError(roster.ErrCodePlayerNotFound, teamID, 0))
	}
	for _, t := range []*roster.Team{&e.home, &e.away} {
		if p := t.FindPlayer(ref); p != nil {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("player %q: %w", ref, ErrUnknownPlayer)
}

func (e *Engine) checkPowerUp(playerID int) error {
	if e.period == Finished {
		return ErrMatchFinished
	}
	var p *roster.Player
	if p = e.home.Player(playerID); p == nil {
		p = e.away.Player(playerID)
	}
	if p == nil {
		return fmt.Errorf("player %d: %w", playerID, ErrUnknownPlayer)
	}
	if !p.OnField {
		return fmt.Errorf("player %d: %w", playerID, ErrNotOnField)
	}
	return nil
}

func (e *Engine) team(id int) *roster.Team {
	switch id {
	case e.home.ID:
		return &e.home
	case e.away.ID:
		return &e.away
	}
	return nil
}

func (e *Engine) at() At {
	return At{Minute: e.Minute()}
}

// ID returns the match id.
func (e *Engine) ID() int { return e.id }

// RunToken identifies this run of the fixture.
func (e *Engine) RunToken() string { return e.runToken }

// Score returns the home and away scores.
func (e *Engine) Score() (home, away int) {
	return e.homeScore, e.awayScore
}

// Elapsed returns the elapsed match time in seconds.
func (e *Engine) Elapsed() float64 { return e.elapsed }

func (e *Engine) Period() Period { return e.period }

func (e *Engine) Running() bool { return e.running }

func (e *Engine) Started() bool { return e.started }

func (e *Engine) Speed() float64 { return e.speed }

func (e *Engine) Ball() Ball { return e.ball }

// Minute is floor(elapsed / 60).
func (e *Engine) Minute() int {
	return int(math.Floor(e.elapsed / 60))
}

// Clock formats elapsed time as "MM:SS".
func (e *Engine) Clock() string {
	secs := int(math.Floor(math.Mod(e.elapsed, 60)))
	return fmt.Sprintf("%02d:%02d", e.Minute(), secs)
}

// ScoreLine formats the score as "H - A".
func (e *Engine) ScoreLine() string {
	return fmt.Sprintf("%d - %d", e.homeScore, e.awayScore)
}

// Winner returns the winning team id. ok is false for a draw and for any
// match that is not finished.
func (e *Engine) Winner() (teamID int, ok bool) {
	if e.period != Finished {
		return 0, false
	}
	switch {
	case e.homeScore > e.awayScore:
		return e.home.ID, true
	case e.awayScore > e.homeScore:
		return e.away.ID, true
	}
	return 0, false
}

// Events returns a copy of the full log in creation order.
func (e *Engine) Events() []Event {
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// LastEvents returns up to n events, newest first.
func (e *Engine) LastEvents(n int) []Event {
	if n > len(e.events) {
		n = len(e.events)
	}
	if n <= 0 {
		return []Event{}
	}
	out := make([]Event, 0, n)
	for i := len(e.events) - 1; len(out) < n; i-- {
		out = append(out, e.events[i])
	}
	return out
}

// Home returns a copy of the home snapshot.
func (e *Engine) Home() roster.Team { return e.home.Clone() }

// Away returns a copy of the away snapshot.
func (e *Engine) Away() roster.Team { return e.away.Clone() }
