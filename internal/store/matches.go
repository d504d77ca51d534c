package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
)

var (
	// ErrMatchNotFinished is returned by ApplyResult before the final whistle.
	ErrMatchNotFinished = errors.New("match is not finished")

	// ErrResultApplied is returned by ApplyResult for a match whose result
	// was already copied back into the team records.
	ErrResultApplied = errors.New("match result already applied")

	// ErrRunConflict is returned when a match id is already stored under
	// another run token.
	ErrRunConflict = errors.New("match belongs to another run")
)

// MatchRecord is the stored summary of a match.
type MatchRecord struct {
	ID        int           `json:"id"`
	RunToken  string        `json:"run_token"`
	HomeID    int           `json:"home_id"`
	AwayID    int           `json:"away_id"`
	HomeScore int           `json:"home_score"`
	AwayScore int           `json:"away_score"`
	Period    engine.Period `json:"period"`
	Elapsed   float64       `json:"elapsed"`
	Applied   bool          `json:"applied"`
	PlayedAt  time.Time     `json:"played_at"`
}

// SaveMatch stores the match summary and any events not stored yet.
//
// Both teams must already exist in the store. The row is stamped with the
// engine's run token on the first save; a later save from an engine with
// another token fails with ErrRunConflict and leaves the row untouched.
// Saving the same engine repeatedly is safe: events are keyed by their
// position in the log and existing rows are skipped.
func (s *Store) SaveMatch(ctx context.Context, e *engine.Engine) (MatchRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.writeMatch(ctx, tx, e); err != nil {
		return MatchRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return MatchRecord{}, fmt.Errorf("commit match %d: %w", e.ID(), err)
	}
	return s.Match(ctx, e.ID())
}

// ApplyResult saves a finished match and copies both final team snapshots
// back into the team records, all in one transaction.
//
// It fails with ErrMatchNotFinished before the final whistle, with
// ErrRunConflict when the match id is stored under another run, and with
// ErrResultApplied when called twice for the same match, so a result can
// never be counted twice.
func (s *Store) ApplyResult(ctx context.Context, e *engine.Engine) (MatchRecord, error) {
	if e.Period() != engine.Finished {
		return MatchRecord{}, fmt.Errorf("apply result of match %d: %w", e.ID(), ErrMatchNotFinished)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var applied bool
	var token string
	err = tx.QueryRowContext(ctx, `SELECT applied, run_token FROM matches WHERE id = ?`, e.ID()).
		Scan(&applied, &token)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return MatchRecord{}, fmt.Errorf("apply result of match %d: %w", e.ID(), err)
	case token != e.RunToken():
		return MatchRecord{}, fmt.Errorf("apply result of match %d: stored by run %s, engine is run %s: %w",
			e.ID(), token, e.RunToken(), ErrRunConflict)
	case applied:
		return MatchRecord{}, fmt.Errorf("apply result of match %d: %w", e.ID(), ErrResultApplied)
	}

	if err := s.writeMatch(ctx, tx, e); err != nil {
		return MatchRecord{}, err
	}
	if err := s.upsertTeam(ctx, tx, e.Home()); err != nil {
		return MatchRecord{}, err
	}
	if err := s.upsertTeam(ctx, tx, e.Away()); err != nil {
		return MatchRecord{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE matches SET applied = 1 WHERE id = ?`, e.ID()); err != nil {
		return MatchRecord{}, fmt.Errorf("mark match %d applied: %w", e.ID(), err)
	}

	if err := tx.Commit(); err != nil {
		return MatchRecord{}, fmt.Errorf("commit result of match %d: %w", e.ID(), err)
	}
	return s.Match(ctx, e.ID())
}

func (s *Store) writeMatch(ctx context.Context, tx *sql.Tx, e *engine.Engine) error {
	home, away := e.Home(), e.Away()
	homeScore, awayScore := e.Score()

	var storedHome, storedAway int
	var storedToken string
	err := tx.QueryRowContext(ctx, `SELECT home_id, away_id, run_token FROM matches WHERE id = ?`, e.ID()).
		Scan(&storedHome, &storedAway, &storedToken)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO matches
			(id, run_token, home_id, away_id, home_score, away_score, period, elapsed, played_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID(), e.RunToken(), home.ID, away.ID, homeScore, awayScore,
			e.Period().String(), e.Elapsed(), s.now())
		if err != nil {
			return fmt.Errorf("write match %d: %w", e.ID(), err)
		}
	case err != nil:
		return fmt.Errorf("write match %d: %w", e.ID(), err)
	case storedHome != home.ID || storedAway != away.ID:
		return fmt.Errorf("write match %d: stored for teams %d v %d, engine has %d v %d",
			e.ID(), storedHome, storedAway, home.ID, away.ID)
	case storedToken != e.RunToken():
		return fmt.Errorf("write match %d: stored by run %s, engine is run %s: %w",
			e.ID(), storedToken, e.RunToken(), ErrRunConflict)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE matches
			SET home_score = ?, away_score = ?, period = ?, elapsed = ?
			WHERE id = ?
		`, homeScore, awayScore, e.Period().String(), e.Elapsed(), e.ID())
		if err != nil {
			return fmt.Errorf("write match %d: %w", e.ID(), err)
		}
	}

	for i, ev := range e.Events() {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("write event %d of match %d: %w", i+1, e.ID(), err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_events (match_id, seq, minute, kind, payload)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(match_id, seq) DO NOTHING
		`, e.ID(), i+1, ev.When(), string(ev.Kind()), string(payload))
		if err != nil {
			return fmt.Errorf("write event %d of match %d: %w", i+1, e.ID(), err)
		}
	}
	return nil
}

// Match retrieves a stored match summary.
// Returns an error wrapping sql.ErrNoRows if the match is unknown.
func (s *Store) Match(ctx context.Context, id int) (MatchRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_token, home_id, away_id, home_score, away_score, period, elapsed, applied, played_at
		FROM matches
		WHERE id = ?
	`, id)
	m, err := scanMatch(row)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("read match %d: %w", id, err)
	}
	return m, nil
}

// Matches returns every stored match ordered by id.
// Returns an empty slice (not nil) if no matches exist.
func (s *Store) Matches(ctx context.Context) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_token, home_id, away_id, home_score, away_score, period, elapsed, applied, played_at
		FROM matches
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := []MatchRecord{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}

// ReserveMatch stores an empty first-half row for a new fixture under the
// next free id and a fresh run token. Build the engine with that id and
// engine.WithRunToken(rec.RunToken) so its saves land on this row.
func (s *Store) ReserveMatch(ctx context.Context, homeID, awayID int) (MatchRecord, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (run_token, home_id, away_id, period, elapsed, played_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`, s.tokens.Generate(), homeID, awayID, engine.FirstHalf.String(), s.now())
	if err != nil {
		return MatchRecord{}, fmt.Errorf("reserve match %d v %d: %w", homeID, awayID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return MatchRecord{}, fmt.Errorf("reserve match %d v %d: %w", homeID, awayID, err)
	}
	return s.Match(ctx, int(id))
}

// ReadMatchEvents returns the stored log of a match in creation order.
// Returns an empty slice (not nil) if no events exist.
func (s *Store) ReadMatchEvents(ctx context.Context, matchID int) ([]engine.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, payload
		FROM match_events
		WHERE match_id = ?
		ORDER BY seq ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []engine.Event{}
	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev, err := engine.DecodeEvent(engine.EventKind(kind), []byte(payload))
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// CountEvents returns how many events of each kind a match logged.
func (s *Store) CountEvents(ctx context.Context, matchID int) (map[engine.EventKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM match_events
		WHERE match_id = ?
		GROUP BY kind
		ORDER BY kind ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query event counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[engine.EventKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		counts[engine.EventKind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var m MatchRecord
	var period, playedAt string
	err := row.Scan(&m.ID, &m.RunToken, &m.HomeID, &m.AwayID, &m.HomeScore, &m.AwayScore,
		&period, &m.Elapsed, &m.Applied, &playedAt)
	if err != nil {
		return MatchRecord{}, err
	}
	if m.Period, err = engine.ParsePeriod(period); err != nil {
		return MatchRecord{}, fmt.Errorf("match %d: %w", m.ID, err)
	}
	if m.PlayedAt, err = time.Parse(time.RFC3339Nano, playedAt); err != nil {
		return MatchRecord{}, fmt.Errorf("match %d played_at: %w", m.ID, err)
	}
	return m, nil
}
