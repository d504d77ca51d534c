// Package engine simulates a single timed 5-a-side match.
//
// An Engine owns deep copies of the two team snapshots for the lifetime of
// the match and is advanced exclusively by the caller through Update. Each
// tick runs in three steps:
//
//  1. Clock and period: elapsed time advances by delta × speed; crossing
//     600 s in the first half stops play for half-time, crossing 1200 s in
//     the second half finishes the match and reconciles team records.
//  2. Continuous simulation: the ball abstraction drifts with noise and a
//     possession bias, and on-field players lose stamina.
//  3. Event generation: independent Bernoulli trials (rate × delta) for goal
//     attempts, cards, scientific discoveries and highlight plays. Resolved
//     events mutate the owned snapshots and are appended to the log.
//
// The engine performs no I/O and has no internal scheduling. It is not safe
// for concurrent use; callers that drive it from several goroutines must
// serialize access themselves.
//
// All randomness is drawn from the Rand supplied with WithRand. The draw
// order within a tick is fixed, so a seeded or scripted source reproduces
// the same event log for the same sequence of calls.
package engine
