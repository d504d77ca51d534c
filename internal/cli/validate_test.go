package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badSchemaLeague = `league: {
	name: "Broken"
	teams: [{
		id: 1
		name: "Alchemists"
		players: [{
			id: 1, name: "Nicolas", domain: "alchemy", position: "goalkeeper", starter: true
			attributes: {speed: 60, strength: 60, precision: 60, endurance: 60, intelligence: 60, creativity: 60, defense: 60, attack: 60, heading: 60}
		}]
	}]
}
`

type validateResponse struct {
	Status string           `json:"status"`
	Data   ValidationResult `json:"data"`
	Error  *CLIError        `json:"error"`
}

func TestValidate_FacultyCup(t *testing.T) {
	out, _, err := execute(t, "validate", facultyCup)
	require.NoError(t, err)
	assert.Equal(t, "✓ "+facultyCup+": Faculty Cup (2 teams, 15 players)\n", out)
}

func TestValidate_FacultyCupJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "validate", facultyCup)
	require.NoError(t, err)

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []LeagueSummary{{File: facultyCup, Name: "Faculty Cup", Teams: 2, Players: 15}}, resp.Data.Leagues)
	assert.Empty(t, resp.Data.Errors)
}

func TestValidate_SchemaViolation(t *testing.T) {
	bad := writeFile(t, "broken.cue", badSchemaLeague)

	out, _, err := execute(t, "validate", facultyCup, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")
	assert.Contains(t, out, "✓ "+facultyCup)
	assert.Contains(t, out, "✗ "+bad)
	assert.Contains(t, out, "SCHEMA_VIOLATION")
}

func TestValidate_SchemaViolationJSON(t *testing.T) {
	bad := writeFile(t, "broken.cue", badSchemaLeague)

	out, _, err := execute(t, "--format", "json", "validate", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, bad, resp.Data.Errors[0].File)
	assert.Equal(t, "SCHEMA_VIOLATION", resp.Data.Errors[0].Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SCHEMA_VIOLATION", resp.Error.Code)
}

func TestValidate_SyntaxError(t *testing.T) {
	bad := writeFile(t, "syntax.cue", "league: {name: ")

	out, _, err := execute(t, "validate", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "CUE_SYNTAX")
}

func TestValidate_NotFound(t *testing.T) {
	out, _, err := execute(t, "validate", "/nonexistent/league.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_NOT_FOUND]: league file not found: /nonexistent/league.cue")
}

func TestValidate_MissingArgs(t *testing.T) {
	_, _, err := execute(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
