package testutil

import (
	"fmt"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
)

// squadShape is the lineup every fixture squad uses: five starters in a
// 1-2-1 shape followed by two substitutes.
var squadShape = []struct {
	pos    roster.Position
	domain roster.Domain
}{
	{roster.Goalkeeper, roster.DomainCybersecurity},
	{roster.Defender, roster.DomainMathematics},
	{roster.Midfielder, roster.DomainBioChemistry},
	{roster.Midfielder, roster.DomainChemistry},
	{roster.Forward, roster.DomainMechanicalPhysics},
	{roster.Forward, roster.DomainElectronics},
	{roster.Defender, roster.DomainMedicine},
}

// Squad builds a seven-player team whose base attributes all equal attr.
//
// Player ids are teamID×10+1 through teamID×10+7; the first five are on the
// field. Names are "<team> 1" through "<team> 7". Chemistry is 0.5.
func Squad(teamID int, name string, attr float64) roster.Team {
	t := roster.NewTeam(teamID, name)
	base := roster.Attributes{
		Speed: attr, Strength: attr, Precision: attr, Endurance: attr,
		Intelligence: attr, Creativity: attr, Defense: attr, Attack: attr, Heading: attr,
	}
	for i, s := range squadShape {
		p := roster.NewPlayer(teamID*10+i+1, fmt.Sprintf("%s %d", name, i+1), s.domain, s.pos, base)
		p.OnField = i < roster.MinOnField
		t.Players = append(t.Players, p)
	}
	return t
}

// StarterID returns the id of the i-th (0-based) player of a Squad.
func StarterID(teamID, i int) int {
	return teamID*10 + i + 1
}
