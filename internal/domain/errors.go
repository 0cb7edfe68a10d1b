package domain

import "errors"

// Error kinds. Every business failure returned by usecases and services wraps
// exactly one of them, so callers can classify it with errors.Is.
var (
	// ErrValidation malformed or missing input
	ErrValidation = errors.New("validation error")

	// ErrInvalidRequest well-formed input that makes no sense (past date, bad duration)
	ErrInvalidRequest = errors.New("invalid request")

	// ErrConflict the slot is already taken
	ErrConflict = errors.New("conflict")

	// ErrNotFound unknown appointment or service
	ErrNotFound = errors.New("not found")

	// ErrInvalidState transition not allowed for the current status or time window
	ErrInvalidState = errors.New("invalid state")
)
