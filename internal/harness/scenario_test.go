package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const facultyCup = "../../leagues/faculty_cup.cue"

// writeScenario writes content to a temp scenario file. {{league}} is
// replaced with the absolute path of the faculty cup league.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	league, err := filepath.Abs(facultyCup)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	content = strings.ReplaceAll(content, "{{league}}", league)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validScenario = `
name: kickoff
description: "Start and play one tick"
league: {{league}}
home: 1
away: 2
seed: 3
steps:
  - action: start
  - action: update
    delta: 1
    repeat: 4
assertions:
  - type: period
    period: first_half
  - type: score
    home: 0
    away: 0
`

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario(writeScenario(t, validScenario))
	require.NoError(t, err)

	assert.Equal(t, "kickoff", scenario.Name)
	assert.Equal(t, 1, scenario.Home)
	assert.Equal(t, 2, scenario.Away)
	assert.Equal(t, uint64(3), scenario.Seed)
	assert.Nil(t, scenario.Script)
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, ActionUpdate, scenario.Steps[1].Action)
	assert.Equal(t, 4, scenario.Steps[1].Repeat)
	require.Len(t, scenario.Assertions, 2)
	require.NotNil(t, scenario.Assertions[1].Home)
	assert.Zero(t, *scenario.Assertions[1].Home)
}

func TestLoadScenario_RelativeLeague(t *testing.T) {
	scenario, err := LoadScenario("../../testdata/scenarios/scripted_home_win.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("../../testdata/scenarios", facultyCup), scenario.League)
	require.NotNil(t, scenario.Script)
	assert.Len(t, scenario.Script.Floats, 17)
	assert.Equal(t, []int{1, 3, 0}, scenario.Script.Ints)
	require.NotNil(t, scenario.Script.Quiet)
	assert.Equal(t, 0.5, *scenario.Script.Quiet)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	content := strings.Replace(validScenario, "assertions:", "assertion:", 1)
	_, err := LoadScenario(writeScenario(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: strings.Replace(validScenario, "name: kickoff", "", 1),
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: strings.Replace(validScenario, `description: "Start and play one tick"`, "", 1),
			wantErr: "description is required",
		},
		{
			name:    "league not found",
			content: strings.Replace(validScenario, "league: {{league}}", "league: /nonexistent/league.cue", 1),
			wantErr: "league file not found",
		},
		{
			name:    "same team twice",
			content: strings.Replace(validScenario, "away: 2", "away: 1", 1),
			wantErr: "home and away must differ",
		},
		{
			name:    "missing away",
			content: strings.Replace(validScenario, "away: 2", "", 1),
			wantErr: "home and away team ids are required",
		},
		{
			name:    "update without delta",
			content: strings.Replace(validScenario, "    delta: 1\n", "", 1),
			wantErr: "steps[1]: positive delta is required for update",
		},
		{
			name:    "unknown action",
			content: strings.Replace(validScenario, "action: start", "action: kickoff", 1),
			wantErr: `steps[0]: unknown action "kickoff"`,
		},
		{
			name:    "unknown period",
			content: strings.Replace(validScenario, "period: first_half", "period: extra_time", 1),
			wantErr: `assertions[0]: unknown period "extra_time"`,
		},
		{
			name:    "score without away",
			content: strings.Replace(validScenario, "    away: 0\n", "", 1),
			wantErr: "assertions[1]: home and away are required for score",
		},
		{
			name:    "unknown assertion type",
			content: strings.Replace(validScenario, "type: score", "type: possession", 1),
			wantErr: `assertions[1]: unknown assertion type "possession"`,
		},
		{
			name: "substitute without players",
			content: strings.Replace(validScenario, "  - action: start\n",
				"  - action: start\n  - action: substitute\n    team: 1\n", 1),
			wantErr: "steps[1]: team, out and in are required for substitute",
		},
		{
			name: "unknown event kind",
			content: strings.Replace(validScenario, "assertions:\n",
				"assertions:\n  - type: event_count\n    kind: penalty\n    count: 0\n", 1),
			wantErr: `assertions[0]: unknown event kind "penalty"`,
		},
		{
			name: "event count without count",
			content: strings.Replace(validScenario, "assertions:\n",
				"assertions:\n  - type: event_count\n", 1),
			wantErr: "assertions[0]: non-negative count is required for event_count",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_Fixtures(t *testing.T) {
	paths, err := filepath.Glob("../../testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSuffix(filepath.Base(path), ".yaml"), scenario.Name)
		})
	}
}
