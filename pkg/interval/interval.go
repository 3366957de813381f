package interval

import "time"

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect. Intervals that only touch at a boundary do not
// overlap. Callers guarantee start < end for both intervals.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// Valid reports whether start is strictly before end and neither is the zero time.
func Valid(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return start.Before(end)
}
