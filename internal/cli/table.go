package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/report"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/store"
)

// TableOptions holds flags for the table command.
type TableOptions struct {
	*RootOptions
	DB      string
	Matches bool // also list stored matches
}

// TableResult is the JSON output of table.
type TableResult struct {
	Standings []store.Standing    `json:"standings"`
	Matches   []store.MatchRecord `json:"matches,omitempty"`
}

// NewTableCommand creates the table command.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TableOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show the league table",
		Long: `Print the standings of every stored team ordered by points, goal
difference, goals scored and name.

Examples:
  scifoot table --db league.db
  scifoot table --db league.db --matches --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path")
	cmd.Flags().BoolVar(&opts.Matches, "matches", false, "list stored matches")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTable(ctx context.Context, opts *TableOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	var result TableResult
	if result.Standings, err = st.Standings(ctx); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read standings", err)
	}
	if opts.Matches {
		if result.Matches, err = st.Matches(ctx); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read matches", err)
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Standings) == 0 {
		fmt.Fprintln(w, "No teams stored.")
		return nil
	}
	if err := report.Table(w, result.Standings); err != nil {
		return err
	}
	if !opts.Matches {
		return nil
	}

	names := make(map[int]string, len(result.Standings))
	for _, s := range result.Standings {
		names[s.TeamID] = s.Name
	}
	fmt.Fprintf(w, "\nMatches (%d)\n", len(result.Matches))
	for _, m := range result.Matches {
		fmt.Fprintf(w, "  #%d %s %d - %d %s (%s)\n", m.ID, names[m.HomeID], m.HomeScore, m.AwayScore, names[m.AwayID], m.Period)
	}
	return nil
}
