// Package report renders match state for terminals: one line per event, a
// scoreboard, a full-time report and the league table.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/store"
)

// Directory resolves team and player ids to display names.
type Directory struct {
	teams   map[int]string
	players map[int]string
}

// NewDirectory indexes the given teams and their players.
func NewDirectory(teams ...roster.Team) *Directory {
	d := &Directory{teams: make(map[int]string), players: make(map[int]string)}
	for _, t := range teams {
		d.teams[t.ID] = t.Name
		for _, p := range t.Players {
			d.players[p.ID] = p.Name
		}
	}
	return d
}

// Team returns the team name, or "team <id>" when unknown.
func (d *Directory) Team(id int) string {
	if name, ok := d.teams[id]; ok {
		return name
	}
	return fmt.Sprintf("team %d", id)
}

// Player returns the player name, or "player <id>" when unknown.
func (d *Directory) Player(id int) string {
	if name, ok := d.players[id]; ok {
		return name
	}
	return fmt.Sprintf("player %d", id)
}

// EventLine renders a single event, prefixed with its minute.
func (d *Directory) EventLine(ev engine.Event) string {
	var body string
	switch ev := ev.(type) {
	case engine.Goal:
		body = fmt.Sprintf("GOAL %s: %s", d.Team(ev.TeamID), ev.Description)
		if ev.HasAssist() {
			body += fmt.Sprintf(" (assist %s)", d.Player(ev.AssistID))
		}
	case engine.Substitution:
		body = fmt.Sprintf("SUB %s: %s on for %s", d.Team(ev.TeamID), d.Player(ev.InID), d.Player(ev.OutID))
	case engine.PowerUpUsed:
		body = fmt.Sprintf("POWER-UP %s activates %s", d.Player(ev.PlayerID), ev.PowerUp.Name())
	case engine.YellowCard:
		body = fmt.Sprintf("YELLOW %s (%s)", d.Player(ev.PlayerID), ev.Reason)
	case engine.ScientificDiscovery:
		body = fmt.Sprintf("DISCOVERY %s: %s (+%.2f form)", d.Team(ev.TeamID), ev.Description, ev.Bonus)
	case engine.GoalkeeperSave:
		body = fmt.Sprintf("SAVE %s", d.Player(ev.GoalkeeperID))
	case engine.Highlight:
		body = fmt.Sprintf("HIGHLIGHT %s: %s", d.Player(ev.PlayerID), ev.Description)
	default:
		body = string(ev.Kind())
	}
	return fmt.Sprintf("%2d' %s", ev.When(), body)
}

// Scoreboard renders the one-line match state, e.g.
//
//	Quarks 2 - 1 Photons | 31:07 | second_half
func Scoreboard(e *engine.Engine) string {
	home, away := e.Home(), e.Away()
	return fmt.Sprintf("%s %s %s | %s | %s", home.Name, e.ScoreLine(), away.Name, e.Clock(), e.Period())
}

// FullTime writes the end-of-match report: the result, every event in
// order and a per-kind summary.
func FullTime(w io.Writer, e *engine.Engine) error {
	home, away := e.Home(), e.Away()
	d := NewDirectory(home, away)
	events := e.Events()

	var b strings.Builder
	if e.Period() == engine.Finished {
		b.WriteString("FULL TIME\n")
	} else {
		fmt.Fprintf(&b, "IN PLAY %s (%s)\n", e.Clock(), e.Period())
	}
	fmt.Fprintf(&b, "%s %s %s\n", home.Name, e.ScoreLine(), away.Name)
	switch winner, ok := e.Winner(); {
	case ok:
		fmt.Fprintf(&b, "Winner: %s\n", d.Team(winner))
	case e.Period() == engine.Finished:
		b.WriteString("Result: draw\n")
	}

	fmt.Fprintf(&b, "\nEvents (%d)\n", len(events))
	for _, ev := range events {
		fmt.Fprintf(&b, "  %s\n", d.EventLine(ev))
	}

	counts := make(map[engine.EventKind]int)
	for _, ev := range events {
		counts[ev.Kind()]++
	}
	b.WriteString("\nSummary\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 1, ' ', 0)
	for _, row := range summaryRows {
		fmt.Fprintf(tw, "  %s\t%d\n", row.label, counts[row.kind])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	b.WriteString("\nScorers\n")
	scorers := 0
	for _, t := range []roster.Team{home, away} {
		for _, p := range t.Players {
			n := goalsBy(events, p.ID)
			if n == 0 {
				continue
			}
			scorers++
			fmt.Fprintf(&b, "  %s (%s) %d\n", p.Name, t.Name, n)
		}
	}
	if scorers == 0 {
		b.WriteString("  none\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var summaryRows = []struct {
	label string
	kind  engine.EventKind
}{
	{"Goals", engine.KindGoal},
	{"Saves", engine.KindGoalkeeperSave},
	{"Yellow cards", engine.KindYellowCard},
	{"Discoveries", engine.KindScientificDiscovery},
	{"Highlights", engine.KindHighlight},
	{"Substitutions", engine.KindSubstitution},
	{"Power-ups", engine.KindPowerUpUsed},
}

func goalsBy(events []engine.Event, playerID int) int {
	n := 0
	for _, ev := range events {
		if g, ok := ev.(engine.Goal); ok && g.ScorerID == playerID {
			n++
		}
	}
	return n
}

// Table writes the league table with one row per team.
func Table(w io.Writer, standings []store.Standing) error {
	width := len("Team")
	for _, st := range standings {
		if n := utf8.RuneCountInString(st.Name); n > width {
			width = n
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%2s  %-*s  %2s  %2s  %2s  %2s  %3s  %3s  %4s  %3s\n",
		"#", width, "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts")
	for i, st := range standings {
		fmt.Fprintf(&b, "%2d  %-*s  %2d  %2d  %2d  %2d  %3d  %3d  %+4d  %3d\n",
			i+1, width, st.Name, st.Played, st.Wins, st.Draws, st.Losses,
			st.GoalsFor, st.GoalsAgainst, st.GoalDifference, st.Points)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
