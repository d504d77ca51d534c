package roster

import (
	"fmt"
	"math"
)

// MinOnField is the number of players a team must field to kick off.
const MinOnField = 5

// Formation is a 5-a-side shape: one keeper plus four outfield slots.
type Formation string

const (
	Formation121  Formation = "1-2-1"
	Formation112  Formation = "1-1-2"
	Formation211  Formation = "2-1-1"
	Formation1111 Formation = "1-1-1-1"
)

// Positions returns the slots the formation requires, keeper first.
func (f Formation) Positions() []Position {
	switch f {
	case Formation112:
		return []Position{Goalkeeper, Defender, Midfielder, Forward, Forward}
	case Formation211:
		return []Position{Goalkeeper, Defender, Defender, Midfielder, Forward}
	case Formation1111:
		return []Position{Goalkeeper, Defender, Midfielder, Forward, Midfielder}
	default:
		return []Position{Goalkeeper, Defender, Midfielder, Midfielder, Forward}
	}
}

// Instructions are the tactical settings a manager gives the team.
type Instructions struct {
	// Intensity scales stamina drain. Expected in [0.5,1.5].
	Intensity    float64 `json:"intensity"`
	HighPress    bool    `json:"high_press"`
	Counter      bool    `json:"counter"`
	Possession   bool    `json:"possession"`
	HighLine     bool    `json:"high_line"`
	LongShooting bool    `json:"long_shooting"`
}

// DefaultInstructions returns the neutral tactical setup.
func DefaultInstructions() Instructions {
	return Instructions{Intensity: 1, Possession: true}
}

// Team is a squad together with its season record.
type Team struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Players      []Player     `json:"players"`
	Formation    Formation    `json:"formation"`
	Instructions Instructions `json:"instructions"`
	Chemistry    float64      `json:"chemistry"`

	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

// NewTeam returns an empty team with default formation and instructions.
func NewTeam(id int, name string) Team {
	return Team{
		ID:           id,
		Name:         name,
		Formation:    Formation121,
		Instructions: DefaultInstructions(),
		Chemistry:    0.5,
	}
}

// Clone returns a deep copy. Mutating the copy never affects t.
func (t *Team) Clone() Team {
	c := *t
	c.Players = make([]Player, len(t.Players))
	for i, p := range t.Players {
		if p.Traits != nil {
			p.Traits = append([]Trait(nil), p.Traits...)
		}
		c.Players[i] = p
	}
	return c
}

// Player returns a pointer to the squad member with the given id, or nil.
func (t *Team) Player(id int) *Player {
	for i := range t.Players {
		if t.Players[i].ID == id {
			return &t.Players[i]
		}
	}
	return nil
}

// OnField returns pointers to the players currently on the pitch, in squad
// order.
func (t *Team) OnField() []*Player {
	var out []*Player
	for i := range t.Players {
		if t.Players[i].OnField {
			out = append(out, &t.Players[i])
		}
	}
	return out
}

// Bench returns available players who are not on the pitch.
func (t *Team) Bench() []*Player {
	var out []*Player
	for i := range t.Players {
		p := &t.Players[i]
		if !p.OnField && p.Available() {
			out = append(out, p)
		}
	}
	return out
}

// Goalkeeper returns the first on-field player lined up in goal, or nil.
func (t *Team) Goalkeeper() *Player {
	for _, p := range t.OnField() {
		if p.Current == Goalkeeper {
			return p
		}
	}
	return nil
}

// Rating is the mean rating of on-field players boosted by chemistry:
// mean × (1 + chemistry × 0.1). An empty lineup rates zero.
func (t *Team) Rating() float64 {
	starters := t.OnField()
	if len(starters) == 0 {
		return 0
	}
	var sum float64
	for _, p := range starters {
		sum += p.Rating()
	}
	return sum / float64(len(starters)) * (1 + t.Chemistry*0.1)
}

// RecomputeChemistry derives chemistry from pairwise domain compatibility of
// the on-field players. With fewer than two starters chemistry is 0.5.
func (t *Team) RecomputeChemistry() {
	starters := t.OnField()
	if len(starters) < 2 {
		t.Chemistry = 0.5
		return
	}
	var total float64
	var pairs int
	for i := 0; i < len(starters); i++ {
		for j := i + 1; j < len(starters); j++ {
			total += starters[i].Domain.CompatibilityWith(starters[j].Domain)
			pairs++
		}
	}
	t.Chemistry = math.Min(total/float64(pairs)*0.7+0.3, 1)
}

// Substitute swaps outID off and inID on. Every check runs before any flag
// is flipped, so a refused substitution leaves the team unchanged.
func (t *Team) Substitute(outID, inID int) error {
	out := t.Player(outID)
	if out == nil {
		return NewSubstitutionError(ErrCodePlayerNotFound, t.ID, outID)
	}
	if !out.OnField {
		return NewSubstitutionError(ErrCodeNotOnField, t.ID, outID)
	}
	in := t.Player(inID)
	if in == nil {
		return NewSubstitutionError(ErrCodePlayerNotFound, t.ID, inID)
	}
	if in.OnField {
		return NewSubstitutionError(ErrCodeAlreadyOnField, t.ID, inID)
	}
	if !in.Available() {
		return NewSubstitutionError(ErrCodeUnavailable, t.ID, inID)
	}

	out.OnField = false
	in.OnField = true
	return nil
}

// RecordResult folds one finished match into the season record.
func (t *Team) RecordResult(scored, conceded int) {
	switch {
	case scored > conceded:
		t.Wins++
	case scored < conceded:
		t.Losses++
	default:
		t.Draws++
	}
	t.GoalsFor += scored
	t.GoalsAgainst += conceded
}

// Played is the number of matches recorded.
func (t *Team) Played() int {
	return t.Wins + t.Draws + t.Losses
}

// Points uses the 3/1/0 scheme.
func (t *Team) Points() int {
	return t.Wins*3 + t.Draws
}

// GoalDifference is goals for minus goals against.
func (t *Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

// Rest restores full stamina and lifts morale slightly.
func (t *Team) Rest() {
	for i := range t.Players {
		p := &t.Players[i]
		p.Stamina = p.StaminaMax
		p.AdjustMorale(0.05)
	}
}

// Train sharpens form and recovers some stamina.
func (t *Team) Train() {
	for i := range t.Players {
		p := &t.Players[i]
		p.AdjustForm(0.03)
		p.RecoverStamina(20)
	}
}

// Validate checks squad-level invariants: unique positive player ids, valid
// players and chemistry in [0,1].
func (t *Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team %q: id must be positive", t.Name)
	}
	if t.Chemistry < 0 || t.Chemistry > 1 {
		return fmt.Errorf("team %d: chemistry %.2f outside [0,1]", t.ID, t.Chemistry)
	}
	seen := make(map[int]bool, len(t.Players))
	for i := range t.Players {
		p := &t.Players[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("team %d: %w", t.ID, err)
		}
		if seen[p.ID] {
			return fmt.Errorf("team %d: duplicate player id %d", t.ID, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// ValidateLineup is the kickoff precondition: the team must field at least
// MinOnField players.
func ValidateLineup(t *Team) error {
	if n := len(t.OnField()); n < MinOnField {
		return fmt.Errorf("team %q fields %d players, need %d: %w", t.Name, n, MinOnField, ErrInsufficientLineup)
	}
	return nil
}
