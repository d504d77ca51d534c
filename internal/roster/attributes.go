package roster

import "math"

// MaxEffectiveAttribute caps every attribute after domain bonuses.
const MaxEffectiveAttribute = 99.0

// Attributes is a player's attribute block. Values are in [0,99].
type Attributes struct {
	Speed        float64 `json:"speed"`
	Strength     float64 `json:"strength"`
	Precision    float64 `json:"precision"`
	Endurance    float64 `json:"endurance"`
	Intelligence float64 `json:"intelligence"`
	Creativity   float64 `json:"creativity"`
	Defense      float64 `json:"defense"`
	Attack       float64 `json:"attack"`
	Heading      float64 `json:"heading"`
}

// Overall is the unweighted mean of all nine attributes.
func (a Attributes) Overall() float64 {
	sum := a.Speed + a.Strength + a.Precision + a.Endurance +
		a.Intelligence + a.Creativity + a.Defense + a.Attack + a.Heading
	return sum / 9
}

// WithBonus applies domain multipliers and caps the result at
// MaxEffectiveAttribute.
func (a Attributes) WithBonus(b DomainBonus) Attributes {
	return Attributes{
		Speed:        math.Min(a.Speed*b.Speed, MaxEffectiveAttribute),
		Strength:     math.Min(a.Strength*b.Strength, MaxEffectiveAttribute),
		Precision:    math.Min(a.Precision*b.Precision, MaxEffectiveAttribute),
		Endurance:    math.Min(a.Endurance*b.Endurance, MaxEffectiveAttribute),
		Intelligence: math.Min(a.Intelligence*b.Intelligence, MaxEffectiveAttribute),
		Creativity:   math.Min(a.Creativity*b.Creativity, MaxEffectiveAttribute),
		Defense:      math.Min(a.Defense*b.Defense, MaxEffectiveAttribute),
		Attack:       math.Min(a.Attack*b.Attack, MaxEffectiveAttribute),
		Heading:      math.Min(a.Heading*b.Heading, MaxEffectiveAttribute),
	}
}
