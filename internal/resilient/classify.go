package resilient

import (
	"context"
	"errors"

	"github.com/planforge/rackplan/internal/repository"
)

// isInfrastructure reports whether err indicates the durable backend is
// unhealthy, as opposed to a well-formed answer about the data. Domain
// outcomes (not found, invalid input) must pass through untouched so
// callers can map them; only infrastructure errors trigger fallback.
func isInfrastructure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repository.ErrUnavailable) {
		return true
	}
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidInput) {
		return false
	}
	// The caller walked away; retrying against the mirror would just
	// hide the cancellation.
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
