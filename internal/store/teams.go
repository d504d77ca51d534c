package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Standing is one row of the league table.
type Standing struct {
	TeamID         int    `json:"team_id"`
	Name           string `json:"name"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

// SaveTeam inserts a team or replaces its stored snapshot.
func (s *Store) SaveTeam(ctx context.Context, team roster.Team) error {
	return s.upsertTeam(ctx, s.db, team)
}

// SaveTeams stores several teams in one transaction.
func (s *Store) SaveTeams(ctx context.Context, teams ...roster.Team) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range teams {
		if err := s.upsertTeam(ctx, tx, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teams: %w", err)
	}
	return nil
}

// RegisterTeams stores teams that are not yet known and leaves existing
// records untouched. It returns the number of teams inserted.
func (s *Store) RegisterTeams(ctx context.Context, teams ...roster.Team) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, t := range teams {
		snapshot, err := json.Marshal(t)
		if err != nil {
			return 0, fmt.Errorf("register team %d: %w", t.ID, err)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO teams
			(id, name, snapshot, wins, draws, losses, goals_for, goals_against, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, t.ID, t.Name, string(snapshot), t.Wins, t.Draws, t.Losses, t.GoalsFor, t.GoalsAgainst, s.now())
		if err != nil {
			return 0, fmt.Errorf("register team %d: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit teams: %w", err)
	}
	return inserted, nil
}

func (s *Store) upsertTeam(ctx context.Context, db execer, t roster.Team) error {
	snapshot, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("write team %d: %w", t.ID, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO teams
		(id, name, snapshot, wins, draws, losses, goals_for, goals_against, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			snapshot = excluded.snapshot,
			wins = excluded.wins,
			draws = excluded.draws,
			losses = excluded.losses,
			goals_for = excluded.goals_for,
			goals_against = excluded.goals_against,
			updated_at = excluded.updated_at
	`, t.ID, t.Name, string(snapshot), t.Wins, t.Draws, t.Losses, t.GoalsFor, t.GoalsAgainst, s.now())
	if err != nil {
		return fmt.Errorf("write team %d: %w", t.ID, err)
	}
	return nil
}

// Team retrieves the stored snapshot of a team.
// Returns an error wrapping sql.ErrNoRows if the team is unknown.
func (s *Store) Team(ctx context.Context, id int) (roster.Team, error) {
	var snapshot string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM teams WHERE id = ?`, id).Scan(&snapshot)
	if err != nil {
		return roster.Team{}, fmt.Errorf("read team %d: %w", id, err)
	}
	return unmarshalTeam(snapshot)
}

// Teams returns every stored team ordered by id.
// Returns an empty slice (not nil) if no teams exist.
func (s *Store) Teams(ctx context.Context) ([]roster.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT snapshot FROM teams ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	teams := []roster.Team{}
	for rows.Next() {
		var snapshot string
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t, err := unmarshalTeam(snapshot)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return teams, nil
}

// Standings returns the league table: points (3 per win, 1 per draw), then
// goal difference, then goals scored, then name.
func (s *Store) Standings(ctx context.Context) ([]Standing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, wins, draws, losses, goals_for, goals_against
		FROM teams
		ORDER BY (wins * 3 + draws) DESC,
		         (goals_for - goals_against) DESC,
		         goals_for DESC,
		         name COLLATE BINARY ASC,
		         id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	table := []Standing{}
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.TeamID, &st.Name, &st.Wins, &st.Draws, &st.Losses, &st.GoalsFor, &st.GoalsAgainst); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		st.Played = st.Wins + st.Draws + st.Losses
		st.GoalDifference = st.GoalsFor - st.GoalsAgainst
		st.Points = st.Wins*3 + st.Draws
		table = append(table, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standings: %w", err)
	}
	return table, nil
}

func unmarshalTeam(snapshot string) (roster.Team, error) {
	var t roster.Team
	if err := json.Unmarshal([]byte(snapshot), &t); err != nil {
		return roster.Team{}, fmt.Errorf("decode team snapshot: %w", err)
	}
	return t, nil
}
