package engine

import (
	"fmt"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
)

// Per-second event rates. The per-tick probability is rate × delta.
const (
	GoalRate      = 0.0018
	CardRate      = 0.0003
	DiscoveryRate = 0.0002
	HighlightRate = 0.0005
)

const (
	assistChance = 0.6
	// noKeeperResistance stands in for an empty goal's keeper.
	noKeeperResistance = 0.4
	cardThreshold      = 0.7
	crowdPleaserFactor = 0.3
)

var goalDescriptions = []string{
	"Magnificent strike from %s!",
	"%s finishes brilliantly!",
	"What a piece of technique from %s!",
	"%s makes no mistake!",
	"%s scores a goal for the ages!",
}

var cardReasons = []string{
	"Reckless tackle",
	"Dissent",
	"Time wasting",
	"Tactical foul",
}

type discovery struct {
	description string
	bonus       float64
}

var discoveries = []discovery{
	{"Molecular synergy discovered!", 0.1},
	{"Tactics optimised by algorithm!", 0.08},
	{"Explosive catalytic reaction!", 0.12},
	{"Equation of motion solved perfectly!", 0.09},
	{"Neural circuit activated!", 0.07},
}

var highlightDescriptions = []string{
	"Devastating dribble!",
	"Spectacular long-range strike!",
	"Humiliating nutmeg!",
	"Pinpoint looping header!",
	"Technical volley!",
	"Perfect through ball!",
}

// generateEvents runs the four trials in fixed order: goal attempt, card,
// discovery, highlight. Each trial draws one Float64 whether or not it
// fires.
func (e *Engine) generateEvents(step float64) {
	minute := e.Minute()

	if e.rng.Float64() < GoalRate*step {
		e.attemptGoal(e.rng.Float64() < e.Possession(), minute)
	}
	if e.rng.Float64() < CardRate*step {
		e.showCard(minute)
	}
	if e.rng.Float64() < DiscoveryRate*step {
		e.makeDiscovery(minute)
	}
	if e.rng.Float64() < HighlightRate*step {
		e.playHighlight(minute)
	}
}

func (e *Engine) sides(homeAttacks bool) (att, def *roster.Team, score *int) {
	if homeAttacks {
		return &e.home, &e.away, &e.homeScore
	}
	return &e.away, &e.home, &e.awayScore
}

// pickSide draws one IntN(2); 0 is home.
func (e *Engine) pickSide() *roster.Team {
	if e.rng.IntN(2) == 0 {
		return &e.home
	}
	return &e.away
}

// SaveResistance is how hard the keeper is to beat, in [0,1]. Without a
// keeper it is noKeeperResistance.
func SaveResistance(keeper *roster.Player) float64 {
	if keeper == nil {
		return noKeeperResistance
	}
	return clamp((keeper.Effective.Precision+keeper.Effective.Defense)/200, 0, 1)
}

// ShotChance is the probability that shooter beats a keeper of the given
// resistance: (precision×0.5 + attack×0.5)/100 × (1 − resistance×0.6).
// A keeper at full resistance saves everything.
func ShotChance(shooter *roster.Player, resistance float64) float64 {
	if resistance >= 1 {
		return 0
	}
	quality := (shooter.Effective.Precision*0.5 + shooter.Effective.Attack*0.5) / 100
	return quality * (1 - resistance*0.6)
}

func (e *Engine) attemptGoal(homeAttacks bool, minute int) {
	att, def, score := e.sides(homeAttacks)

	var shooters []*roster.Player
	for _, p := range att.OnField() {
		if p.Current == roster.Forward || p.Current == roster.Midfielder {
			shooters = append(shooters, p)
		}
	}
	if len(shooters) == 0 {
		return
	}
	shooter := shooters[e.rng.IntN(len(shooters))]
	keeper := def.Goalkeeper()

	if e.rng.Float64() >= ShotChance(shooter, SaveResistance(keeper)) {
		if keeper != nil {
			e.events = append(e.events, GoalkeeperSave{At: At{minute}, GoalkeeperID: keeper.ID})
		}
		return
	}

	*score++
	var assister *roster.Player
	var mates []*roster.Player
	for _, p := range att.OnField() {
		if p.ID != shooter.ID {
			mates = append(mates, p)
		}
	}
	if len(mates) > 0 && e.rng.Float64() < assistChance {
		assister = mates[e.rng.IntN(len(mates))]
	}
	desc := fmt.Sprintf(goalDescriptions[e.rng.IntN(len(goalDescriptions))], shooter.Name)

	shooter.RecordGoal()
	goal := Goal{At: At{minute}, ScorerID: shooter.ID, TeamID: att.ID, Description: desc}
	if assister != nil {
		assister.RecordAssist()
		goal.AssistID = assister.ID
	}
	for _, p := range att.OnField() {
		p.AdjustMorale(roster.GoalMoraleBoost)
	}
	for _, p := range def.OnField() {
		p.AdjustMorale(-roster.GoalMoraleBoost)
	}
	e.events = append(e.events, goal)
}

func (e *Engine) showCard(minute int) {
	team := e.pickSide()
	players := team.OnField()
	if len(players) == 0 {
		return
	}
	p := players[e.rng.IntN(len(players))]

	factor := 1.0
	if p.HasTrait(roster.TraitCrowdPleaser) {
		factor = crowdPleaserFactor
	}
	if e.rng.Float64() > cardThreshold*factor {
		return
	}
	p.YellowCards++
	reason := cardReasons[e.rng.IntN(len(cardReasons))]
	e.events = append(e.events, YellowCard{At: At{minute}, PlayerID: p.ID, Reason: reason})
}

func (e *Engine) makeDiscovery(minute int) {
	team := e.pickSide()
	d := discoveries[e.rng.IntN(len(discoveries))]
	for _, p := range team.OnField() {
		p.AdjustForm(d.bonus)
	}
	e.events = append(e.events, ScientificDiscovery{
		At:          At{minute},
		TeamID:      team.ID,
		Description: d.description,
		Bonus:       d.bonus,
	})
}

func (e *Engine) playHighlight(minute int) {
	team := e.pickSide()
	players := team.OnField()
	if len(players) == 0 {
		return
	}
	p := players[e.rng.IntN(len(players))]
	desc := highlightDescriptions[e.rng.IntN(len(highlightDescriptions))]
	e.events = append(e.events, Highlight{At: At{minute}, PlayerID: p.ID, Description: desc})
}
