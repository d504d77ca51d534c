package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/testutil"
)

const (
	testRunToken = "run-0001"
	homeID       = 1
	awayID       = 2
)

// createTestStore creates a fresh store in a temporary directory with a
// fixed run token and a one-second step clock. Scripted engines carry the
// same token.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithTokenGenerator(testutil.NewFixedTokenGenerator(testRunToken)),
		WithClock(testutil.NewStepClock(time.Second)),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSquads() (roster.Team, roster.Team) {
	return testutil.Squad(homeID, "Quarks", 70), testutil.Squad(awayID, "Photons", 70)
}

// seedTeams stores both test squads.
func seedTeams(t *testing.T, s *Store) (roster.Team, roster.Team) {
	t.Helper()
	home, away := testSquads()
	require.NoError(t, s.SaveTeams(context.Background(), home, away))
	return home, away
}

// goalTick scripts the floats of one tick in which the chosen side scores
// without an assist and no other trial fires.
func goalTick(home bool) []float64 {
	side := 0.0
	if !home {
		side = 0.999
	}
	return []float64{0.5, 0.5, 0, side, 0, 0.99, 0.5, 0.5, 0.5}
}

// scriptedMatch starts a match whose first ticks score the given goals in
// order (true for home) and which stays quiet afterwards. The goals are
// already played when it returns.
func scriptedMatch(t *testing.T, id int, goals ...bool) *engine.Engine {
	t.Helper()
	r := testutil.NewScriptedRand()
	for i, home := range goals {
		r.Floats(goalTick(home)...).Ints(0, i%5)
	}
	r.Quiet(0.5)

	home, away := testSquads()
	e := engine.New(id, home, away,
		engine.WithRand(r),
		engine.WithRunToken(testRunToken),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, e.Start())
	for range goals {
		e.Update(1)
	}
	return e
}

// finishedMatch plays a scripted match through to full time.
func finishedMatch(t *testing.T, id int, goals ...bool) *engine.Engine {
	t.Helper()
	e := scriptedMatch(t, id, goals...)
	require.NoError(t, e.RunToCompletion(5))
	return e
}
