package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/testutil"
)

func TestRecord_JSON(t *testing.T) {
	goal := Goal{At: At{Minute: 17}, ScorerID: 15, TeamID: 1, Description: "Quarks 5 makes no mistake!"}

	data, err := json.Marshal(NewRecord(goal))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"goal","event":{"minute":17,"scorer_id":15,"team_id":1,"description":"Quarks 5 makes no mistake!"}}`, string(data))

	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, KindGoal, rec.Kind)
	assert.Equal(t, goal, rec.Event)
	assert.False(t, rec.Event.(Goal).HasAssist())
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent(KindPowerUpUsed, []byte(`{"minute":3,"player_id":21,"power_up":"black_hole"}`))
	require.NoError(t, err)
	assert.Equal(t, PowerUpUsed{At: At{Minute: 3}, PlayerID: 21, PowerUp: PowerUpBlackHole}, ev)
	assert.Equal(t, 3, ev.When())

	_, err = DecodeEvent("penalty", []byte(`{}`))
	assert.ErrorContains(t, err, `unknown event kind "penalty"`)

	_, err = DecodeEvent(KindHighlight, []byte(`{"minute":`))
	assert.ErrorContains(t, err, "decode highlight event")
}

func TestEventKind_Valid(t *testing.T) {
	assert.Len(t, EventKinds, 7)
	for _, k := range EventKinds {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, EventKind("penalty").Valid())
}

func TestPeriod_Text(t *testing.T) {
	for _, p := range []Period{FirstHalf, HalfTime, SecondHalf, Finished} {
		parsed, err := ParsePeriod(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	assert.Equal(t, "half_time", HalfTime.String())
	assert.Equal(t, "period(9)", Period(9).String())

	_, err := ParsePeriod("extra_time")
	assert.Error(t, err)

	data, err := json.Marshal(struct{ P Period }{SecondHalf})
	require.NoError(t, err)
	assert.JSONEq(t, `{"P":"second_half"}`, string(data))
}

func TestPowerUpKinds(t *testing.T) {
	assert.Len(t, PowerUpKinds, 15)
	seen := map[PowerUpKind]bool{}
	for _, k := range PowerUpKinds {
		assert.True(t, k.Valid(), k)
		assert.False(t, seen[k], "duplicate %s", k)
		seen[k] = true
		assert.Positive(t, k.Duration())
	}

	assert.Equal(t, "E=mc²", PowerUpEMC2.Name())
	assert.Equal(t, 2.0, PowerUpEMC2.Duration())
	assert.Equal(t, Epic, PowerUpEMC2.Rarity())
	assert.Equal(t, "legendary", PowerUpTheoryOfEverything.Rarity().String())
	assert.False(t, PowerUpKind("warp_drive").Valid())
	assert.Equal(t, "warp_drive", PowerUpKind("warp_drive").Name())
}

func TestRandomPowerUp(t *testing.T) {
	tests := []struct {
		roll float64
		pick int
		want PowerUpKind
	}{
		{0.10, 2, PowerUpPhotosynthesis},
		{0.40, 0, PowerUpBinaryCode},
		{0.75, 3, PowerUpBankingOptimisation},
		{0.90, 1, PowerUpDefensiveFirewall},
		{0.97, 1, PowerUpTheoryOfEverything},
	}
	for _, tt := range tests {
		r := testutil.NewScriptedRand(tt.roll).Ints(tt.pick)
		assert.Equal(t, tt.want, RandomPowerUp(r), "roll %.2f", tt.roll)
	}
}
