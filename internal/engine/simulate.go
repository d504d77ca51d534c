package engine

import (
	"math"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
)

const (
	// ballAgitation scales the per-tick uniform noise on each ball axis.
	ballAgitation = 8.0
	// possessionBias scales the drift toward the dominant side's goal.
	possessionBias = 3.0
	// staminaDrainRate is stamina lost per second at intensity 1.
	staminaDrainRate = 1.5
)

// Ratings returns both teams' bonus-adjusted ratings:
// team rating × (1 + scientific bonus).
func (e *Engine) Ratings() (home, away float64) {
	return e.home.Rating() * (1 + e.homeBonus), e.away.Rating() * (1 + e.awayBonus)
}

// Possession is the home share of the combined adjusted rating, 0.5 when
// neither side rates above zero.
func (e *Engine) Possession() float64 {
	home, away := e.Ratings()
	if home+away <= 0 {
		return 0.5
	}
	return home / (home + away)
}

// moveBall draws two noise values (x then z), then nudges x toward the
// dominant side. Home attacks toward +x.
func (e *Engine) moveBall(step float64) {
	noiseX := (e.rng.Float64()*2 - 1) * step * ballAgitation
	noiseZ := (e.rng.Float64()*2 - 1) * step * ballAgitation
	e.ball.X += noiseX
	e.ball.Z += noiseZ
	e.ball.clampToPlayable()

	home, away := e.Ratings()
	if total := home + away; total > 0 {
		e.ball.X += (home/total - 0.5) * step * possessionBias
		e.ball.clampToPlayable()
	}
}

func (e *Engine) drainStamina(step float64) {
	for _, t := range []*roster.Team{&e.home, &e.away} {
		amount := staminaDrainRate * t.Instructions.Intensity * step
		for _, p := range t.OnField() {
			p.DrainStamina(amount)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
