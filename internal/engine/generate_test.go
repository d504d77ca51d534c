package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/testutil"
)

func TestSaveResistance(t *testing.T) {
	assert.Equal(t, 0.4, SaveResistance(nil))

	keeper := &roster.Player{Effective: roster.Attributes{Precision: 60, Defense: 80}}
	assert.InDelta(t, 0.7, SaveResistance(keeper), 1e-9)

	keeper.Effective = roster.Attributes{Precision: 150, Defense: 150}
	assert.Equal(t, 1.0, SaveResistance(keeper), "clamped")
}

func TestShotChance(t *testing.T) {
	shooter := &roster.Player{Effective: roster.Attributes{Precision: 80, Attack: 60}}

	assert.InDelta(t, 0.7, ShotChance(shooter, 0), 1e-9)
	assert.InDelta(t, 0.7*0.76, ShotChance(shooter, 0.4), 1e-9)
	assert.Equal(t, 0.0, ShotChance(shooter, 1))
}

func TestGoal_WithAssist(t *testing.T) {
	// noise x, noise z, goal trial, side (home), shot, assist; then the
	// three remaining trials stay quiet
	r := testutil.NewScriptedRand(0.5, 0.5, 0, 0, 0, 0).
		Ints(2, 0, 1).
		Quiet(0.5)
	e := newMatch(t, r)
	require.NoError(t, e.Start())

	e.Update(1)

	home, away := e.Score()
	require.Equal(t, 1, home)
	require.Equal(t, 0, away)

	scorerID := testutil.StarterID(homeID, 4)
	assistID := testutil.StarterID(homeID, 0)
	events := e.Events()
	require.Len(t, events, 1)
	assert.Equal(t, Goal{
		At:          At{Minute: 0},
		ScorerID:    scorerID,
		TeamID:      homeID,
		AssistID:    assistID,
		Description: "Quarks 5 finishes brilliantly!",
	}, events[0])
	assert.True(t, events[0].(Goal).HasAssist())

	h, a := e.Home(), e.Away()
	scorer := h.Player(scorerID)
	assert.Equal(t, 1, scorer.Goals)
	assert.Equal(t, roster.GoalExperience, scorer.Experience)
	assert.InDelta(t, 1.10, scorer.Morale, 1e-9, "own goal boost plus team swing")

	assister := h.Player(assistID)
	assert.Equal(t, 1, assister.Assists)
	assert.Equal(t, roster.AssistExperience, assister.Experience)
	assert.InDelta(t, 1.05, assister.Morale, 1e-9)

	assert.Equal(t, 1.0, h.Player(testutil.StarterID(homeID, 5)).Morale, "bench unaffected")
	for _, p := range a.OnField() {
		assert.InDelta(t, 0.95, p.Morale, 1e-9)
	}
	assert.Equal(t, 1.0, a.Player(testutil.StarterID(awayID, 6)).Morale)
}

func TestGoal_KeeperSave(t *testing.T) {
	// away attacks, shot roll 0.99 fails against the home keeper
	r := testutil.NewScriptedRand(0.5, 0.5, 0, 0.999, 0.99).Ints(1).Quiet(0.5)
	e := newMatch(t, r)
	require.NoError(t, e.Start())

	e.Update(1)

	home, away := e.Score()
	assert.Zero(t, home+away)
	assert.Equal(t, []Event{GoalkeeperSave{At: At{Minute: 0}, GoalkeeperID: testutil.StarterID(homeID, 0)}}, e.Events())
}

func TestGoal_MissWithoutKeeperRecordsNothing(t *testing.T) {
	home, away := squads(t)
	away.Players[0].OnField = false
	r := testutil.NewScriptedRand(0.5, 0.5, 0, 0, 0.99).Ints(0).Quiet(0.5)
	e := New(7, home, away, WithRand(r), WithLogger(discardLogger()))
	require.NoError(t, e.Start())

	e.Update(1)

	assert.Empty(t, e.Events())
	h, _ := e.Score()
	assert.Zero(t, h)
}

func TestGoal_NoShootersAborts(t *testing.T) {
	home, away := squads(t)
	for i := range home.Players {
		if p := &home.Players[i]; p.Current == roster.Forward || p.Current == roster.Midfielder {
			p.Current = roster.Defender
		}
	}
	// no IntN is scripted: picking a shooter would panic
	r := testutil.NewScriptedRand(0.5, 0.5, 0, 0, 0.5, 0.5, 0.5)
	e := New(7, home, away, WithRand(r), WithLogger(discardLogger()))
	require.NoError(t, e.Start())

	e.Update(1)
	assert.Empty(t, e.Events())
}

func TestGoal_FullResistanceKeeperNeverConcedes(t *testing.T) {
	home, away := squads(t)
	away.Players[0].Effective.Precision = 100
	away.Players[0].Effective.Defense = 100

	const attempts = 50
	r := testutil.NewScriptedRand()
	for i := 0; i < attempts; i++ {
		// home attacks every tick and the shot roll is the lowest possible
		r.Floats(0.5, 0.5, 0, 0, 0, 0.5, 0.5, 0.5).Ints(i % 3)
	}
	e := New(7, home, away, WithRand(r), WithLogger(discardLogger()))
	require.NoError(t, e.Start())

	ticks(e, attempts, 1)

	h, a := e.Score()
	assert.Zero(t, h)
	assert.Zero(t, a)
	events := e.Events()
	require.Len(t, events, attempts)
	for _, ev := range events {
		save, ok := ev.(GoalkeeperSave)
		require.True(t, ok, "unexpected %T", ev)
		assert.Equal(t, testutil.StarterID(awayID, 0), save.GoalkeeperID)
	}
}

func TestCard(t *testing.T) {
	// quiet goal trial, card trial fires, trigger roll exactly at threshold
	r := testutil.NewScriptedRand(0.5, 0.5, 0.5, 0, 0.7, 0.5, 0.5).
		Ints(0, 1, 2)
	e := newMatch(t, r)
	require.NoError(t, e.Start())

	e.Update(1)

	playerID := testutil.StarterID(homeID, 1)
	assert.Equal(t, []Event{YellowCard{At: At{Minute: 0}, PlayerID: playerID, Reason: "Time wasting"}}, e.Events())
	h := e.Home()
	assert.Equal(t, 1, h.Player(playerID).YellowCards)
}

func TestCard_CrowdPleaserForgiven(t *testing.T) {
	home, away := squads(t)
	home.Players[1].Traits = []roster.Trait{{Key: roster.TraitCrowdPleaser, Name: "Referee Charmer"}}
	// 0.5 would book anyone else; the trait lowers the threshold to 0.21
	r := testutil.NewScriptedRand(0.5, 0.5, 0.5, 0, 0.5, 0.5, 0.5).Ints(0, 1)
	e := New(7, home, away, WithRand(r), WithLogger(discardLogger()))
	require.NoError(t, e.Start())

	e.Update(1)

	assert.Empty(t, e.Events())
	h := e.Home()
	assert.Zero(t, h.Player(testutil.StarterID(homeID, 1)).YellowCards)
}

func TestDiscovery(t *testing.T) {
	r := testutil.NewScriptedRand(0.5, 0.5, 0.5, 0.5, 0, 0.5).Ints(1, 2)
	e := newMatch(t, r)
	require.NoError(t, e.Start())

	e.Update(1)

	assert.Equal(t, []Event{ScientificDiscovery{
		At:          At{Minute: 0},
		TeamID:      awayID,
		Description: "Explosive catalytic reaction!",
		Bonus:       0.12,
	}}, e.Events())

	a := e.Away()
	for _, p := range a.OnField() {
		assert.InDelta(t, 1.12, p.Form, 1e-9)
	}
	assert.Equal(t, 1.0, a.Player(testutil.StarterID(awayID, 5)).Form)
	h := e.Home()
	assert.Equal(t, 1.0, h.Player(testutil.StarterID(homeID, 0)).Form)
}

func TestDiscovery_FormCapped(t *testing.T) {
	home, away := squads(t)
	for i := range away.Players {
		away.Players[i].Form = 1.45
	}
	r := testutil.NewScriptedRand(0.5, 0.5, 0.5, 0.5, 0, 0.5).Ints(1, 0)
	e := New(7, home, away, WithRand(r), WithLogger(discardLogger()))
	require.NoError(t, e.Start())

	e.Update(1)

	a := e.Away()
	for _, p := range a.OnField() {
		assert.Equal(t, roster.MaxForm, p.Form)
	}
}

func TestHighlight(t *testing.T) {
	r := testutil.NewScriptedRand(0.5, 0.5, 0.5, 0.5, 0.5, 0).Ints(0, 4, 5)
	e := newMatch(t, r)
	require.NoError(t, e.Start())
	before := e.Home()

	e.Update(1)

	assert.Equal(t, []Event{Highlight{
		At:          At{Minute: 0},
		PlayerID:    testutil.StarterID(homeID, 4),
		Description: "Perfect through ball!",
	}}, e.Events())

	after := e.Home()
	for i := range after.Players {
		assert.Equal(t, before.Players[i].Goals, after.Players[i].Goals)
		assert.Equal(t, before.Players[i].Form, after.Players[i].Form)
	}
}

func TestMoveBall(t *testing.T) {
	// maximum positive noise on both axes for ten seconds saturates the box
	r := testutil.NewScriptedRand(0.999999, 0.999999, 0.5, 0.5, 0.5, 0.5)
	e := newMatch(t, r)
	require.NoError(t, e.Start())

	e.Update(5)
	b := e.Ball()
	assert.LessOrEqual(t, b.X, playableX)
	assert.InDelta(t, playableZ, b.Z, 1e-3)
	assert.Greater(t, b.X, 39.0)
}

func TestMoveBall_PossessionBias(t *testing.T) {
	home := testutil.Squad(homeID, "Quarks", 90)
	away := testutil.Squad(awayID, "Photons", 40)
	e := New(7, home, away, WithRand(quiet()), WithLogger(discardLogger()))
	require.NoError(t, e.Start())

	assert.Greater(t, e.Possession(), 0.5)
	ticks(e, 10, 1)
	assert.Greater(t, e.Ball().X, 0.0, "stronger home side pushes toward +x")
	assert.Zero(t, e.Ball().Z)
}

func TestDrainStamina(t *testing.T) {
	home, away := squads(t)
	home.Instructions.Intensity = 1.5
	e := New(7, home, away, WithRand(quiet()), WithLogger(discardLogger()))
	require.NoError(t, e.Start())

	ticks(e, 4, 1)

	h, a := e.Home(), e.Away()
	starter := h.Player(testutil.StarterID(homeID, 0))
	assert.InDelta(t, starter.StaminaMax-1.5*1.5*4, starter.Stamina, 1e-9)
	bench := h.Player(testutil.StarterID(homeID, 5))
	assert.Equal(t, bench.StaminaMax, bench.Stamina)
	awayStarter := a.Player(testutil.StarterID(awayID, 0))
	assert.InDelta(t, awayStarter.StaminaMax-1.5*4, awayStarter.Stamina, 1e-9)
}

func TestPossession_EmptyLineups(t *testing.T) {
	e := New(7, roster.NewTeam(homeID, "A"), roster.NewTeam(awayID, "B"), WithRand(quiet()), WithLogger(discardLogger()))
	assert.Equal(t, 0.5, e.Possession())
}
