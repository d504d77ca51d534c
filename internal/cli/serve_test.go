package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/config"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/server"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseServe parses args into a serve command without running it. The env
// file always points at a missing file.
func parseServe(t *testing.T, args ...string) (*ServeOptions, *cobra.Command) {
	t.Helper()
	opts := &ServeOptions{RootOptions: &RootOptions{Format: "text"}}
	cmd := newServeCommand(opts)
	args = append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	require.NoError(t, cmd.ParseFlags(args))
	return opts, cmd
}

func matchState(t *testing.T, srv *server.Server) server.State {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/match", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var st server.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func TestServeConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SCIFOOT_ADDR", ":9000")
	t.Setenv("SCIFOOT_HOME", "2")
	t.Setenv("SCIFOOT_AWAY", "1")
	t.Setenv("SCIFOOT_SPEED", "3")

	opts, cmd := parseServe(t, "--home", "1", "--away", "2", "--league", facultyCup, "--seed", "9")
	cfg, err := serveConfig(opts, cmd)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 1, cfg.Home)
	assert.Equal(t, 2, cfg.Away)
	assert.Equal(t, facultyCup, cfg.League)
	assert.Equal(t, 3.0, cfg.Speed)
	assert.Equal(t, uint64(9), cfg.Seed)
}

func TestServeConfig_UnsetFlagsKeepEnvironment(t *testing.T) {
	t.Setenv("SCIFOOT_SPEED", "4")

	opts, cmd := parseServe(t)
	cfg, err := serveConfig(opts, cmd)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.Speed)
	assert.Equal(t, 1, cfg.Home)
	assert.Equal(t, 2, cfg.Away)
}

func TestServeConfig_Invalid(t *testing.T) {
	opts, cmd := parseServe(t, "--home", "2", "--away", "2")
	_, err := serveConfig(opts, cmd)
	assert.ErrorContains(t, err, "home and away are both team 2")

	opts, cmd = parseServe(t, "--speed=-1")
	_, err = serveConfig(opts, cmd)
	assert.ErrorContains(t, err, "SCIFOOT_SPEED must be positive")
}

func testServerConfig() config.Server {
	return config.Server{
		Addr:           "127.0.0.1:0",
		League:         facultyCup,
		Home:           1,
		Away:           2,
		Tick:           time.Second,
		Speed:          2,
		Seed:           5,
		AllowedOrigins: []string{"*"},
	}
}

func TestBuildServer_WaitsForKickoff(t *testing.T) {
	srv, cleanup, err := buildServer(context.Background(), testServerConfig(), false, discardLogger())
	require.NoError(t, err)
	defer cleanup()

	st := matchState(t, srv)
	assert.Equal(t, 1, st.MatchID)
	assert.Equal(t, "Red Scientists", st.Home.Name)
	assert.Equal(t, "Blue Researchers", st.Away.Name)
	assert.False(t, st.Started)
	assert.Equal(t, 2.0, st.Speed)
}

func TestBuildServer_KickoffWithStore(t *testing.T) {
	cfg := testServerConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "live.db")

	srv, cleanup, err := buildServer(context.Background(), cfg, true, discardLogger())
	require.NoError(t, err)

	st := matchState(t, srv)
	assert.True(t, st.Started)
	assert.True(t, st.Running)
	assert.Equal(t, "00:00", st.Clock)
	cleanup()

	db, err := store.Open(cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()
	teams, err := db.Teams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	matches, err := db.Matches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 1, "match row reserved at startup")
	assert.Equal(t, st.MatchID, matches[0].ID)
	assert.Equal(t, engine.FirstHalf, matches[0].Period)
	assert.False(t, matches[0].Applied)
}

func TestBuildServer_BadFixture(t *testing.T) {
	cfg := testServerConfig()
	cfg.Away = 8
	_, _, err := buildServer(context.Background(), cfg, false, discardLogger())
	assert.ErrorContains(t, err, "away team 8")

	cfg = testServerConfig()
	cfg.League = "/nonexistent/league.cue"
	_, _, err = buildServer(context.Background(), cfg, false, discardLogger())
	assert.ErrorContains(t, err, "league file not found")
}

func TestServe_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := &ServeOptions{RootOptions: &RootOptions{Format: "text"}}
	cmd := newServeCommand(opts)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
		"--addr", "127.0.0.1:0",
		"--league", facultyCup,
	})

	require.NoError(t, cmd.ExecuteContext(ctx))
}

func TestServe_InvalidConfig(t *testing.T) {
	out, _, err := execute(t, "serve", "--env-file", filepath.Join(t.TempDir(), "none.env"), "--home", "3", "--away", "3")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_USAGE]: invalid configuration")
}
