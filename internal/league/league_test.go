package league

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
)

const facultyCup = "../../leagues/faculty_cup.cue"

func playerSrc(id int, pos string, starter bool) string {
	return fmt.Sprintf(`{id: %d, name: "P%d", domain: "mathematics", position: %q, starter: %t, `+
		`attributes: {speed: 60, strength: 60, precision: 60, endurance: 60, intelligence: 60, `+
		`creativity: 60, defense: 60, attack: 60, heading: 60}}`, id, id, pos, starter)
}

// teamSrc builds a team with five starters and one substitute; extra is
// spliced into the team struct verbatim.
func teamSrc(id int, extra string) string {
	base := id * 10
	players := []string{
		playerSrc(base+1, "goalkeeper", true),
		playerSrc(base+2, "defender", true),
		playerSrc(base+3, "midfielder", true),
		playerSrc(base+4, "midfielder", true),
		playerSrc(base+5, "forward", true),
		playerSrc(base+6, "forward", false),
	}
	return fmt.Sprintf(`{id: %d, name: "T%d", %s players: [%s]}`, id, id, extra, strings.Join(players, ", "))
}

func leagueSrc(teams ...string) []byte {
	return []byte(fmt.Sprintf("league: {name: \"Test\", teams: [%s]}\n", strings.Join(teams, ", ")))
}

func loadCode(t *testing.T, err error) string {
	t.Helper()
	var le *LoadError
	require.True(t, errors.As(err, &le), "want *LoadError, got %T: %v", err, err)
	return le.Code
}

func TestLoad_FacultyCup(t *testing.T) {
	l, err := Load(facultyCup)
	require.NoError(t, err)

	assert.Equal(t, "Faculty Cup", l.Name)
	require.Len(t, l.Teams, 2)

	red, ok := l.Team(1)
	require.True(t, ok)
	assert.Equal(t, "Red Scientists", red.Name)
	assert.Len(t, red.Players, 8)
	assert.Len(t, red.OnField(), 5)
	assert.Equal(t, 1.1, red.Instructions.Intensity)
	assert.True(t, red.Instructions.HighPress)
	assert.True(t, red.Instructions.Possession, "default applies")
	require.NotNil(t, red.Goalkeeper())
	assert.Equal(t, "Henry", red.Goalkeeper().Name)
	assert.True(t, red.FindPlayer("theo").HasTrait(roster.TraitCrowdPleaser))
	assert.Greater(t, red.Chemistry, 0.3)
	assert.LessOrEqual(t, red.Chemistry, 1.0)

	blue, ok := l.Team(2)
	require.True(t, ok)
	assert.Equal(t, roster.Formation211, blue.Formation)
	assert.False(t, blue.Instructions.Possession)
	assert.Len(t, blue.Players, 7)
}

func TestLeague_TeamReturnsCopy(t *testing.T) {
	l, err := Load(facultyCup)
	require.NoError(t, err)

	team, _ := l.Team(1)
	team.Players[0].Goals = 12

	again, _ := l.Team(1)
	assert.Zero(t, again.Players[0].Goals)

	_, ok := l.Team(99)
	assert.False(t, ok)
}

func TestLeague_Fixture(t *testing.T) {
	l, err := Load(facultyCup)
	require.NoError(t, err)

	home, away, err := l.Fixture(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Red Scientists", home.Name)
	assert.Equal(t, "Blue Researchers", away.Name)

	_, _, err = l.Fixture(1, 1)
	assert.Error(t, err)
	_, _, err = l.Fixture(1, 7)
	assert.ErrorContains(t, err, "away team 7")
}

func TestLeague_FixtureShortLineup(t *testing.T) {
	l, err := Parse(leagueSrc(teamSrc(1, ""), teamSrc(2, "")), "short.cue")
	require.NoError(t, err)
	l.Teams[1].Players[0].OnField = false

	_, _, err = l.Fixture(1, 2)
	assert.ErrorIs(t, err, roster.ErrInsufficientLineup)
}

func TestParse_Defaults(t *testing.T) {
	l, err := Parse(leagueSrc(teamSrc(1, "")), "defaults.cue")
	require.NoError(t, err)

	team := l.Teams[0]
	assert.Equal(t, roster.Formation121, team.Formation)
	assert.Equal(t, roster.DefaultInstructions(), team.Instructions)
	// all starters share a domain: 0.6 × 0.7 + 0.3
	assert.InDelta(t, 0.72, team.Chemistry, 1e-9)
	assert.Nil(t, team.Players[0].Traits)

	p := team.Player(11)
	require.NotNil(t, p)
	assert.Equal(t, roster.Goalkeeper, p.Current)
	assert.True(t, p.OnField)
	assert.False(t, team.Player(16).OnField)
	assert.InDelta(t, 78.0, p.Effective.Speed, 1e-9)
}

func TestParse_ExplicitChemistry(t *testing.T) {
	l, err := Parse(leagueSrc(teamSrc(1, `chemistry: 0.9, formation: "1-1-2",`)), "chem.cue")
	require.NoError(t, err)
	assert.Equal(t, 0.9, l.Teams[0].Chemistry)
	assert.Equal(t, roster.Formation112, l.Teams[0].Formation)
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		code string
	}{
		{"syntax", []byte("league: {name: "), ErrCodeSyntax},
		{"missing league", []byte(`teams: []`), ErrCodeSchema},
		{"attribute out of range", leagueSrc(strings.Replace(teamSrc(1, ""), "speed: 60", "speed: 120", 1)), ErrCodeSchema},
		{"unknown domain", leagueSrc(strings.Replace(teamSrc(1, ""), `"mathematics"`, `"alchemy"`, 1)), ErrCodeSchema},
		{"unknown position", leagueSrc(strings.Replace(teamSrc(1, ""), `"defender"`, `"libero"`, 1)), ErrCodeSchema},
		{"unknown field", leagueSrc(teamSrc(1, `budget: 500000,`)), ErrCodeSchema},
		{"intensity too high", leagueSrc(teamSrc(1, `instructions: {intensity: 2},`)), ErrCodeSchema},
		{"duplicate team", leagueSrc(teamSrc(1, ""), strings.ReplaceAll(teamSrc(2, ""), "id: 2,", "id: 1,")), ErrCodeInvalid},
		{"player on two teams", leagueSrc(teamSrc(1, ""), strings.Replace(teamSrc(2, ""), "id: 21,", "id: 11,", 1)), ErrCodeInvalid},
		{"duplicate player in team", leagueSrc(strings.Replace(teamSrc(1, ""), "id: 12,", "id: 11,", 1)), ErrCodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, "bad.cue")
			require.Error(t, err)
			assert.Equal(t, tt.code, loadCode(t, err), "error: %v", err)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	src := leagueSrc(strings.Replace(teamSrc(1, ""), "speed: 60", "speed: 120", 1))
	_, err := Parse(src, "positions.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speed")
	assert.Contains(t, err.Error(), ErrCodeSchema)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Equal(t, ErrCodeNotFound, loadCode(t, err))
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.cue")
	require.NoError(t, os.WriteFile(path, leagueSrc(teamSrc(3, ""), teamSrc(4, "")), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, l.Teams, 2)
}
