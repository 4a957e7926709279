package activity

import "time"

// IsTerminal reports whether a declared status ends the activity's
// lifecycle. Terminal statuses are never overridden by deadline checks.
func IsTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// EffectiveStatus derives the status reported to callers from the
// declared status and the activity's deadlines at the given instant.
//
// The cutoff is the end date when set, otherwise the due date. An
// activity with a cutoff strictly before now is delayed; an exactly-due
// activity is not. Activities with no cutoff never auto-delay.
func EffectiveStatus(declared Status, endDate, dueDate *time.Time, now time.Time) Status {
	if IsTerminal(declared) {
		return declared
	}

	cutoff := endDate
	if cutoff == nil {
		cutoff = dueDate
	}
	if cutoff == nil {
		return declared
	}

	if cutoff.Before(now) {
		return StatusDelayed
	}
	return declared
}
