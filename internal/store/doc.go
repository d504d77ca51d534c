// Package store provides SQLite-backed persistence for the league: team
// snapshots, saved matches and their event logs.
//
// # Tables
//
//   - teams: latest roster snapshot per team (JSON) plus record counters
//   - matches: one row per saved match, stamped with a UUIDv7 run token
//   - match_events: the match log, keyed by (match_id, seq)
//
// # Lifecycle
//
// A running match may be saved any number of times with SaveMatch; events
// already stored are skipped, so repeated saves only append the tail of the
// log. Once the engine reaches Finished, ApplyResult copies both final team
// snapshots back into the teams table in the same transaction. A match
// result is applied at most once.
//
// Event reads are ordered by seq, the position in the engine log, never by
// timestamp.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
