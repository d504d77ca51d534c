package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/report"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/store"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	DB    string
	Match int
	Last  int // 0 lists the whole log in order
}

// EventLine is one stored event with its rendered text.
type EventLine struct {
	Kind  engine.EventKind `json:"kind"`
	Event engine.Event     `json:"event"`
	Text  string           `json:"text"`
}

// EventsResult is the JSON output of events.
type EventsResult struct {
	Match  store.MatchRecord        `json:"match"`
	Counts map[engine.EventKind]int `json:"counts"`
	Events []EventLine              `json:"events"`
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the event log of a stored match",
		Long: `Print the stored event log of a match in creation order, or the most
recent events first with --last.

Examples:
  scifoot events --db league.db --match 3
  scifoot events --db league.db --match 3 --last 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path")
	cmd.Flags().IntVar(&opts.Match, "match", 0, "match id")
	cmd.Flags().IntVar(&opts.Last, "last", 0, "show only the n most recent events, newest first")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("match")

	return cmd
}

func runEvents(ctx context.Context, opts *EventsOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Last < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "--last must not be negative", nil)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	match, err := st.Match(ctx, opts.Match)
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("match %d not found", opts.Match), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read match", err)
	}

	events, err := st.ReadMatchEvents(ctx, opts.Match)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read events", err)
	}
	counts, err := st.CountEvents(ctx, opts.Match)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to count events", err)
	}
	teams, err := st.Teams(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read teams", err)
	}
	dir := report.NewDirectory(teams...)

	lines := make([]EventLine, 0, len(events))
	for _, ev := range latestFirst(events, opts.Last) {
		lines = append(lines, EventLine{Kind: ev.Kind(), Event: ev, Text: dir.EventLine(ev)})
	}

	if formatter.JSON() {
		return formatter.Success(EventsResult{Match: match, Counts: counts, Events: lines})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Match %d: %s %d - %d %s (%s)\n", match.ID,
		dir.Team(match.HomeID), match.HomeScore, match.AwayScore, dir.Team(match.AwayID), match.Period)
	if len(lines) == 0 {
		fmt.Fprintln(w, "No events.")
		return nil
	}
	for _, l := range lines {
		fmt.Fprintln(w, l.Text)
	}
	return nil
}

// latestFirst returns the last n events newest first, or all events in
// order when n is zero.
func latestFirst(events []engine.Event, n int) []engine.Event {
	if n == 0 {
		return events
	}
	if n > len(events) {
		n = len(events)
	}
	out := make([]engine.Event, n)
	for i := range out {
		out[i] = events[len(events)-1-i]
	}
	return out
}
