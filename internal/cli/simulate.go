package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/league"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/report"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	League string
	Home   int
	Away   int
	DB     string // optional; results are applied to stored teams
	Seed   uint64 // 0 draws from entropy
	Delta  float64
	Match  int // 0 picks the next free id
	Rest   bool
	Train  bool
}

// SideResult is one team's line in a simulation result.
type SideResult struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SimulationResult is the JSON output of simulate.
type SimulationResult struct {
	MatchID  int             `json:"match_id"`
	RunToken string          `json:"run_token,omitempty"`
	Home     SideResult      `json:"home"`
	Away     SideResult      `json:"away"`
	Winner   int             `json:"winner,omitempty"`
	Clock    string          `json:"clock"`
	Events   []engine.Record `json:"events"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a full match instantly",
		Long: `Play one fixture from kickoff to the final whistle without waiting
for the clock, then print the full-time report.

With --db the teams are registered in the database on first use, the match
is played with their stored state and the result is copied back into the
team records.

Examples:
  scifoot simulate --league leagues/faculty_cup.cue --home 1 --away 2
  scifoot simulate --league leagues/faculty_cup.cue --home 2 --away 1 --db league.db --rest
  scifoot simulate --league leagues/faculty_cup.cue --home 1 --away 2 --seed 42 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.League, "league", "", "league definition (.cue)")
	cmd.Flags().IntVar(&opts.Home, "home", 1, "home team id")
	cmd.Flags().IntVar(&opts.Away, "away", 2, "away team id")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database for teams and results")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 = random)")
	cmd.Flags().Float64Var(&opts.Delta, "delta", 1, "simulated seconds per tick")
	cmd.Flags().IntVar(&opts.Match, "match", 0, "match id (default: next free id)")
	cmd.Flags().BoolVar(&opts.Rest, "rest", false, "rest both squads before kickoff")
	cmd.Flags().BoolVar(&opts.Train, "train", false, "train both squads before kickoff")
	_ = cmd.MarkFlagRequired("league")

	return cmd
}

func runSimulate(ctx context.Context, opts *SimulateOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Delta <= 0 {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "--delta must be positive", nil)
	}

	l, err := league.Load(opts.League)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLeague, "failed to load league", err)
	}
	home, away, err := l.Fixture(opts.Home, opts.Away)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeFixture, "invalid fixture", err)
	}

	var st *store.Store
	if opts.DB != "" {
		st, err = store.Open(opts.DB)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
		}
		defer st.Close()

		home, away, err = storedFixture(ctx, st, l, opts.Home, opts.Away, logger)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to load teams", err)
		}
	}

	for _, t := range []*roster.Team{&home, &away} {
		if opts.Rest {
			t.Rest()
		}
		if opts.Train {
			t.Train()
		}
		if err := roster.ValidateLineup(t); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeFixture, "invalid fixture", err)
		}
	}

	matchID := opts.Match
	var engineOpts []engine.Option
	switch {
	case matchID > 0:
	case st != nil:
		rec, err := st.ReserveMatch(ctx, home.ID, away.ID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to allocate match id", err)
		}
		matchID = rec.ID
		engineOpts = append(engineOpts, engine.WithRunToken(rec.RunToken))
	default:
		matchID = 1
	}

	var r engine.Rand = engine.NewEntropyRand()
	if opts.Seed != 0 {
		r = engine.NewSeededRand(opts.Seed)
	}
	engineOpts = append(engineOpts, engine.WithRand(r), engine.WithLogger(logger))
	e := engine.New(matchID, home, away, engineOpts...)
	if err := e.RunToCompletion(opts.Delta); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeFixture, "simulation failed", err)
	}
	logger.Info("full time", "match", matchID, "score", report.Scoreboard(e))

	result := newSimulationResult(e)
	if st != nil {
		rec, err := st.ApplyResult(ctx, e)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to store result", err)
		}
		result.RunToken = rec.RunToken
		logger.Debug("result applied", "match", rec.ID, "run_token", rec.RunToken)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return report.FullTime(formatter.Writer, e)
}

// storedFixture registers the league's teams on first use and returns the
// stored state of both sides.
func storedFixture(ctx context.Context, st *store.Store, l *league.League, homeID, awayID int, logger *slog.Logger) (home, away roster.Team, err error) {
	n, err := st.RegisterTeams(ctx, l.Teams...)
	if err != nil {
		return home, away, err
	}
	if n > 0 {
		logger.Info("registered teams", "league", l.Name, "count", n)
	}
	if home, err = st.Team(ctx, homeID); err != nil {
		return home, away, err
	}
	if away, err = st.Team(ctx, awayID); err != nil {
		return home, away, err
	}
	return home, away, nil
}

func newSimulationResult(e *engine.Engine) SimulationResult {
	home, away := e.Home(), e.Away()
	hs, as := e.Score()
	winner, _ := e.Winner()

	events := e.Events()
	records := make([]engine.Record, len(events))
	for i, ev := range events {
		records[i] = engine.NewRecord(ev)
	}
	return SimulationResult{
		MatchID: e.ID(),
		Home:    SideResult{ID: home.ID, Name: home.Name, Score: hs},
		Away:    SideResult{ID: away.ID, Name: away.Name, Score: as},
		Winner:  winner,
		Clock:   e.Clock(),
		Events:  records,
	}
}
