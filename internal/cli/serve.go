package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/config"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/league"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/server"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/store"
)

// ServeOptions holds flags for the serve command. Flags left unset keep the
// value read from the environment.
type ServeOptions struct {
	*RootOptions
	EnvFile string
	Addr    string
	League  string
	Home    int
	Away    int
	DB      string
	Seed    uint64
	Speed   float64
	Kickoff bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Play a match in real time over HTTP",
		Long: `Play one fixture in real time and serve it over HTTP.

Settings come from SCIFOOT_* environment variables (and an optional .env
file); flags override them. The match waits for POST /api/match/start
unless --kickoff is given.

Endpoints:
  GET  /api/match                  current state
  GET  /api/events?last=n          event log
  GET  /api/teams/{id}             team detail and bench
  GET  /api/power-ups              power-up catalogue
  POST /api/match/start|pause|resume|speed
  POST /api/match/substitutions    {"team_id", "out", "in"}
  POST /api/match/power-ups        {"player", "power_up"}
  POST /api/match/power-ups/draw   {"player"}
  GET  /ws                         live feed

Players are given by id or by name ("loic" matches "Loïc").

Examples:
  scifoot serve --league leagues/faculty_cup.cue --home 1 --away 2
  SCIFOOT_SPEED=10 scifoot serve --kickoff --db league.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file read before the environment")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (SCIFOOT_ADDR)")
	cmd.Flags().StringVar(&opts.League, "league", "", "league definition (SCIFOOT_LEAGUE)")
	cmd.Flags().IntVar(&opts.Home, "home", 0, "home team id (SCIFOOT_HOME)")
	cmd.Flags().IntVar(&opts.Away, "away", 0, "away team id (SCIFOOT_AWAY)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database (SCIFOOT_DB)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (SCIFOOT_SEED)")
	cmd.Flags().Float64Var(&opts.Speed, "speed", 0, "clock multiplier (SCIFOOT_SPEED)")
	cmd.Flags().BoolVar(&opts.Kickoff, "kickoff", false, "start the match immediately")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	cfg, err := serveConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "invalid configuration", err)
	}

	srv, cleanup, err := buildServer(ctx, cfg, opts.Kickoff, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeFixture, "failed to prepare match", err)
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownTimeout); err != nil {
		return WrapExitError(ExitCommandError, "server failed", err)
	}
	logger.Info("server stopped")
	return nil
}

// serveConfig reads the environment and applies the flags that were set.
func serveConfig(opts *ServeOptions, cmd *cobra.Command) (config.Server, error) {
	cfg, err := config.LoadServer(opts.EnvFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.Addr
	}
	if flags.Changed("league") {
		cfg.League = opts.League
	}
	if flags.Changed("home") {
		cfg.Home = opts.Home
	}
	if flags.Changed("away") {
		cfg.Away = opts.Away
	}
	if flags.Changed("db") {
		cfg.DBPath = opts.DB
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if flags.Changed("speed") {
		cfg.Speed = opts.Speed
	}
	return cfg, cfg.Validate()
}

// buildServer loads the fixture and wires the engine, the optional store and
// the HTTP server. cleanup closes the store.
func buildServer(ctx context.Context, cfg config.Server, kickoff bool, logger *slog.Logger) (*server.Server, func(), error) {
	cleanup := func() {}

	l, err := league.Load(cfg.League)
	if err != nil {
		return nil, cleanup, err
	}
	home, away, err := l.Fixture(cfg.Home, cfg.Away)
	if err != nil {
		return nil, cleanup, err
	}

	matchID := 1
	var engineOpts []engine.Option
	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithTick(cfg.Tick),
		server.WithAllowedOrigins(cfg.AllowedOrigins...),
	}
	if cfg.DBPath != "" {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = st.Close() }

		if home, away, err = storedFixture(ctx, st, l, cfg.Home, cfg.Away, logger); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		rec, err := st.ReserveMatch(ctx, home.ID, away.ID)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		matchID = rec.ID
		engineOpts = append(engineOpts, engine.WithRunToken(rec.RunToken))
		serverOpts = append(serverOpts, server.WithStore(st))
	}

	var r engine.Rand = engine.NewEntropyRand()
	if cfg.Seed != 0 {
		r = engine.NewSeededRand(cfg.Seed)
	}
	engineOpts = append(engineOpts,
		engine.WithRand(r),
		engine.WithSpeed(cfg.Speed),
		engine.WithLogger(logger))
	e := engine.New(matchID, home, away, engineOpts...)
	if kickoff {
		if err := e.Start(); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("kickoff: %w", err)
		}
	}

	logger.Info("match ready", "match", matchID, "home", home.Name, "away", away.Name, "speed", cfg.Speed)
	return server.New(e, serverOpts...), cleanup, nil
}
