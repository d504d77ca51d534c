package engine

import "errors"

var (
	// ErrAlreadyStarted is returned by Start on every call after the first.
	ErrAlreadyStarted = errors.New("match already started")

	// ErrMatchFinished is returned by operations that would mutate a
	// finished match.
	ErrMatchFinished = errors.New("match is finished")

	// ErrNotOnField is returned by UsePowerUp when the player is not playing.
	ErrNotOnField = errors.New("player is not on the field")

	// ErrUnknownPlayer is returned when a player id matches neither squad.
	ErrUnknownPlayer = errors.New("player not found")

	// ErrUnknownPowerUp is returned for an unrecognized power-up kind.
	ErrUnknownPowerUp = errors.New("unknown power-up")

	// ErrInvalidDelta is returned by RunToCompletion for a non-positive step.
	ErrInvalidDelta = errors.New("tick delta must be positive")
)
