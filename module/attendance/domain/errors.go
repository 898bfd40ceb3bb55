package domain

import "errors"

var (
	// ErrInvalidInput marks malformed geometry: NaN or infinite
	// coordinates, out-of-range latitude/longitude, negative radius.
	ErrInvalidInput = errors.New("invalid input")

	ErrSessionNotFound = errors.New("session not found")
	ErrNotOnRoster     = errors.New("claimant not on roster")
	ErrDuplicateClaim  = errors.New("claim already recorded")
	ErrUnknownPolicy   = errors.New("unknown decision policy")
)
