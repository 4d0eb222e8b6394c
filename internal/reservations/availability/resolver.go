// Package availability decides whether a candidate reservation interval can
// coexist with the intervals already booked on a room. It is a pure function
// over its inputs and performs no locking: a caller that needs "check then
// write" to be atomic must hold the room's advisory lock around both steps.
package availability

import (
	"roomdesk/pkg/model"
)

// ConflictResult reports the outcome of a conflict check. Conflicts holds
// every interval the candidate collides with, so the caller can explain a
// rejection fully instead of naming just the first collision. SkippedUnknown
// lists statuses outside the fixed occupancy mapping that were defaulted to
// non-occupying; the caller should log them.
type ConflictResult struct {
	Conflicts      []model.Interval `json:"conflicts,omitempty"`
	SkippedUnknown []string         `json:"-"`
}

// HasConflict reports whether the candidate collides with at least one
// occupying interval.
func (r ConflictResult) HasConflict() bool {
	return len(r.Conflicts) > 0
}

// CheckConflict checks candidate against every occupying interval in
// existing, excluding the reservation named by excludeReservationID (used
// when validating an edit against itself) and every non-occupying status.
func CheckConflict(existing []model.Interval, candidate model.Interval, excludeReservationID string) ConflictResult {
	var result ConflictResult

	for _, interval := range existing {
		if excludeReservationID != "" && interval.ReservationID == excludeReservationID {
			continue
		}
		occupying, known := interval.Occupies()
		if !known {
			result.SkippedUnknown = append(result.SkippedUnknown, interval.Status)
		}
		if !occupying {
			continue
		}
		if Overlaps(candidate, interval) {
			result.Conflicts = append(result.Conflicts, interval)
		}
	}

	return result
}

// Overlaps reports whether two half-open [CheckIn, CheckOut) spans collide.
// Touching endpoints do not: a checkout on day D and a check-in on day D are
// a normal turnover (transition day), not a double booking.
func Overlaps(a, b model.Interval) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}
