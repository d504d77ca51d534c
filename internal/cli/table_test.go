package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playedDB plays one seeded fixture into a fresh database.
func playedDB(t *testing.T) (string, SimulationResult) {
	t.Helper()
	db := filepath.Join(t.TempDir(), "league.db")
	return db, simulateJSON(t, "--seed", "11", "--db", db)
}

func TestTable_Empty(t *testing.T) {
	out, _, err := execute(t, "table", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Equal(t, "No teams stored.\n", out)
}

func TestTable_Text(t *testing.T) {
	db, _ := playedDB(t)

	out, _, err := execute(t, "table", "--db", db, "--matches")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Contains(t, lines[0], "Team")
	assert.Contains(t, lines[0], "Pts")
	assert.Contains(t, out, "Red Scientists")
	assert.Contains(t, out, "Blue Researchers")
	assert.Contains(t, out, "Matches (1)")
	assert.Contains(t, out, "#1 Red Scientists")
	assert.Contains(t, out, "(finished)")
}

func TestTable_JSON(t *testing.T) {
	db, played := playedDB(t)

	out, _, err := execute(t, "--format", "json", "table", "--db", db, "--matches")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TableResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Standings, 2)

	points := 0
	for _, s := range resp.Data.Standings {
		assert.Equal(t, 1, s.Played)
		points += s.Points
	}
	if played.Winner == 0 {
		assert.Equal(t, 2, points)
	} else {
		assert.Equal(t, 3, points)
		assert.Equal(t, played.Winner, resp.Data.Standings[0].TeamID)
	}

	require.Len(t, resp.Data.Matches, 1)
	assert.Equal(t, played.RunToken, resp.Data.Matches[0].RunToken)
	assert.True(t, resp.Data.Matches[0].Applied)
}

func TestTable_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}
