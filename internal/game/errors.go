package game

import "errors"

var (
	// ErrDuplicateSession is returned when a session id is already active.
	ErrDuplicateSession = errors.New("session already exists")

	// ErrSessionNotFound is returned when a session id is unknown or was
	// already cleared.
	ErrSessionNotFound = errors.New("session not found")

	// ErrPuzzleNotFound is returned when a puzzle id is unknown or expired.
	ErrPuzzleNotFound = errors.New("puzzle not found")

	// ErrGenerationExhausted is returned when the provider failed to produce
	// a valid puzzle within the attempt budget.
	ErrGenerationExhausted = errors.New("puzzle generation exhausted")

	// ErrMalformedPuzzle marks a structurally incomplete puzzle coming back
	// from the provider.
	ErrMalformedPuzzle = errors.New("malformed puzzle")

	// ErrInvalidPuzzle marks a structurally complete puzzle that breaks the
	// content-uniqueness rules.
	ErrInvalidPuzzle = errors.New("invalid puzzle content")
)
