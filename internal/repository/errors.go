package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when the backing store cannot be reached.
	// It marks an infrastructure failure, never a domain outcome, and is
	// what the resilient facade watches for before falling back.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
