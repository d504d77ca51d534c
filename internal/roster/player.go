package roster

import (
	"fmt"
	"math"
)

// Position is where a player lines up.
type Position string

const (
	Goalkeeper Position = "goalkeeper"
	Defender   Position = "defender"
	Midfielder Position = "midfielder"
	Forward    Position = "forward"
)

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	switch p {
	case Goalkeeper, Defender, Midfielder, Forward:
		return true
	}
	return false
}

// Condition bounds and progression constants.
const (
	MinForm   = 0.5
	MaxForm   = 1.5
	MinMorale = 0.5
	MaxMorale = 1.5

	// LowStaminaThreshold is the stamina below which fatigue erodes form.
	LowStaminaThreshold = 15.0
	// FatigueFormPenalty is the form lost per drain while below the threshold.
	FatigueFormPenalty = 0.002

	GoalExperience   = 100
	AssistExperience = 50
	GoalMoraleBoost  = 0.05

	// ExperiencePerLevel is multiplied by the current level to get the
	// threshold for the next level.
	ExperiencePerLevel = 1000
	levelUpGain        = 0.3
	levelUpCap         = 95.0
)

// TraitCrowdPleaser marks a player referees tend to forgive.
const TraitCrowdPleaser = "crowd_pleaser"

// Trait is a personality trait. Key is the machine identifier; the other
// fields are display text.
type Trait struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Effect      string `json:"effect,omitempty"`
}

// Player is a squad member together with their in-match condition and
// career counters.
type Player struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Domain    Domain   `json:"domain"`
	Preferred Position `json:"preferred_position"`
	Current   Position `json:"current_position"`

	Base      Attributes `json:"base"`
	Effective Attributes `json:"effective"`

	Level      int `json:"level"`
	Experience int `json:"experience"`

	Stamina    float64 `json:"stamina"`
	StaminaMax float64 `json:"stamina_max"`
	Form       float64 `json:"form"`
	Morale     float64 `json:"morale"`

	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	Matches     int `json:"matches"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`

	OnField   bool `json:"on_field"`
	Injured   bool `json:"injured"`
	Suspended bool `json:"suspended"`

	Traits []Trait `json:"traits,omitempty"`
}

// NewPlayer builds a fresh level-1 player with full stamina and neutral
// condition. Stamina max derives from base endurance.
func NewPlayer(id int, name string, domain Domain, pos Position, base Attributes) Player {
	staminaMax := 80 + base.Endurance*0.2
	return Player{
		ID:         id,
		Name:       name,
		Domain:     domain,
		Preferred:  pos,
		Current:    pos,
		Base:       base,
		Effective:  base.WithBonus(domain.Bonus()),
		Level:      1,
		Stamina:    staminaMax,
		StaminaMax: staminaMax,
		Form:       1,
		Morale:     1,
	}
}

// Validate checks the invariants a loaded player must satisfy.
func (p *Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player %q: id must be positive", p.Name)
	}
	if !p.Domain.Valid() {
		return fmt.Errorf("player %d: unknown domain %q", p.ID, p.Domain)
	}
	if !p.Current.Valid() || !p.Preferred.Valid() {
		return fmt.Errorf("player %d: invalid position", p.ID)
	}
	if p.StaminaMax <= 0 || p.Stamina < 0 || p.Stamina > p.StaminaMax {
		return fmt.Errorf("player %d: stamina %.1f outside [0,%.1f]", p.ID, p.Stamina, p.StaminaMax)
	}
	if p.Form < MinForm || p.Form > MaxForm {
		return fmt.Errorf("player %d: form %.2f outside [%.1f,%.1f]", p.ID, p.Form, MinForm, MaxForm)
	}
	if p.Morale < MinMorale || p.Morale > MaxMorale {
		return fmt.Errorf("player %d: morale %.2f outside [%.1f,%.1f]", p.ID, p.Morale, MinMorale, MaxMorale)
	}
	return nil
}

// Rating is the player's current overall quality: effective attributes
// scaled by form, morale and a fatigue factor that never drops below 0.5.
func (p *Player) Rating() float64 {
	fatigue := 1.0
	if p.StaminaMax > 0 {
		fatigue = math.Max(p.Stamina/p.StaminaMax, 0.5)
	}
	return p.Effective.Overall() * p.Form * p.Morale * fatigue
}

// Available reports whether the player may be brought on.
func (p *Player) Available() bool {
	return !p.Injured && !p.Suspended
}

// HasTrait reports whether the player carries the trait with the given key.
func (p *Player) HasTrait(key string) bool {
	for _, t := range p.Traits {
		if t.Key == key {
			return true
		}
	}
	return false
}

// DrainStamina removes amount from stamina, floored at zero. Below
// LowStaminaThreshold the player also loses a little form.
func (p *Player) DrainStamina(amount float64) {
	p.Stamina = math.Max(p.Stamina-amount, 0)
	if p.Stamina < LowStaminaThreshold {
		p.Form = math.Max(p.Form-FatigueFormPenalty, MinForm)
	}
}

// RecoverStamina adds amount to stamina, capped at StaminaMax.
func (p *Player) RecoverStamina(amount float64) {
	p.Stamina = math.Min(p.Stamina+amount, p.StaminaMax)
}

// AdjustForm shifts form by delta within [MinForm, MaxForm].
func (p *Player) AdjustForm(delta float64) {
	p.Form = clamp(p.Form+delta, MinForm, MaxForm)
}

// AdjustMorale shifts morale by delta within [MinMorale, MaxMorale].
func (p *Player) AdjustMorale(delta float64) {
	p.Morale = clamp(p.Morale+delta, MinMorale, MaxMorale)
}

// RecordGoal credits a goal: counter, experience, morale and a possible
// level-up.
func (p *Player) RecordGoal() {
	p.Goals++
	p.Experience += GoalExperience
	p.AdjustMorale(GoalMoraleBoost)
	p.checkLevelUp()
}

// RecordAssist credits an assist and its experience.
func (p *Player) RecordAssist() {
	p.Assists++
	p.Experience += AssistExperience
	p.checkLevelUp()
}

func (p *Player) checkLevelUp() {
	if p.Level < 1 {
		p.Level = 1
	}
	required := p.Level * ExperiencePerLevel
	if p.Experience < required {
		return
	}
	p.Level++
	p.Experience -= required
	p.Base.Speed = math.Min(p.Base.Speed+levelUpGain, levelUpCap)
	p.Base.Precision = math.Min(p.Base.Precision+levelUpGain, levelUpCap)
	p.Base.Endurance = math.Min(p.Base.Endurance+levelUpGain, levelUpCap)
	p.Effective = p.Base.WithBonus(p.Domain.Bonus())
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
