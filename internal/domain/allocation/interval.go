package allocation

import "time"

// Overlaps reports whether two half-open [start, end) windows intersect.
// A nil end means the window extends to the unbounded future. Adjacent
// windows sharing a boundary instant do not overlap.
func Overlaps(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	// aStart < bEnd AND bStart < aEnd, with a nil end winning every
	// comparison it appears in.
	startsBeforeBEnds := bEnd == nil || aStart.Before(*bEnd)
	bStartsBeforeEnds := aEnd == nil || bStart.Before(*aEnd)
	return startsBeforeBEnds && bStartsBeforeEnds
}
