package roster

import (
	"errors"
	"fmt"
)

// SubstitutionError reports why a substitution was refused. The team is
// left untouched whenever one is returned.
type SubstitutionError struct {
	// Code identifies the refusal reason.
	Code SubstitutionErrorCode

	// TeamID is the team the substitution targeted.
	TeamID int

	// PlayerID is the player the check failed on (zero for team-level codes).
	PlayerID int
}

// SubstitutionErrorCode categorizes substitution failures.
type SubstitutionErrorCode string

const (
	// ErrCodeTeamNotFound indicates the team id matches neither side.
	ErrCodeTeamNotFound SubstitutionErrorCode = "TEAM_NOT_FOUND"

	// ErrCodePlayerNotFound indicates a player id is not in the squad.
	ErrCodePlayerNotFound SubstitutionErrorCode = "PLAYER_NOT_FOUND"

	// ErrCodeNotOnField indicates the outgoing player is not playing.
	ErrCodeNotOnField SubstitutionErrorCode = "NOT_ON_FIELD"

	// ErrCodeAlreadyOnField indicates the incoming player is already playing.
	ErrCodeAlreadyOnField SubstitutionErrorCode = "ALREADY_ON_FIELD"

	// ErrCodeUnavailable indicates the incoming player is injured or suspended.
	ErrCodeUnavailable SubstitutionErrorCode = "UNAVAILABLE"

	// ErrCodeMatchFinished indicates the match is over and immutable.
	ErrCodeMatchFinished SubstitutionErrorCode = "MATCH_FINISHED"
)

var substitutionMessages = map[SubstitutionErrorCode]string{
	ErrCodeTeamNotFound:   "team not found",
	ErrCodePlayerNotFound: "player not found",
	ErrCodeNotOnField:     "outgoing player is not on the field",
	ErrCodeAlreadyOnField: "incoming player is already on the field",
	ErrCodeUnavailable:    "incoming player is injured or suspended",
	ErrCodeMatchFinished:  "match is finished",
}

// Error implements the error interface.
func (e *SubstitutionError) Error() string {
	msg := substitutionMessages[e.Code]
	if e.PlayerID != 0 {
		return fmt.Sprintf("%s: %s (team=%d, player=%d)", e.Code, msg, e.TeamID, e.PlayerID)
	}
	return fmt.Sprintf("%s: %s (team=%d)", e.Code, msg, e.TeamID)
}

// NewSubstitutionError creates a SubstitutionError.
func NewSubstitutionError(code SubstitutionErrorCode, teamID, playerID int) *SubstitutionError {
	return &SubstitutionError{Code: code, TeamID: teamID, PlayerID: playerID}
}

// SubstitutionCode extracts the code from a (possibly wrapped) substitution
// error. The second result is false for any other error.
func SubstitutionCode(err error) (SubstitutionErrorCode, bool) {
	var se *SubstitutionError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return "", false
}

// IsSubstitutionError reports whether err is a substitution error with the
// given code. Uses errors.As to handle wrapped errors.
func IsSubstitutionError(err error, code SubstitutionErrorCode) bool {
	c, ok := SubstitutionCode(err)
	return ok && c == code
}

// ErrInsufficientLineup is returned by ValidateLineup when a team fields
// fewer than MinOnField players.
var ErrInsufficientLineup = errors.New("insufficient on-field players")
