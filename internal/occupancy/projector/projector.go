// Package projector computes the per-day operational state of a room from
// the reservation intervals that touch a date range. It is pure: fetching
// intervals, caching and logging belong to the occupancy service above it.
package projector

import (
	"sort"
	"time"

	"roomdesk/pkg/model"
)

// Policy carries the projection inputs that do not come from reservations.
// ManualOccupied is the room's hand-set occupancy flag from the back office:
// when set it is authoritative for days with no covering reservation, which
// then project as occupied with no reservation id until the flag is cleared.
type Policy struct {
	ManualOccupied bool
}

// Anomaly records a day covered by more than one occupying reservation.
// That is a data inconsistency, not a projector bug: it means the
// availability check was bypassed (records written directly, or a race that
// slipped past the lock). The projection stays deterministic regardless.
type Anomaly struct {
	RoomID         string    `json:"room_id"`
	Date           time.Time `json:"date"`
	ReservationIDs []string  `json:"reservation_ids"`
}

// Report carries everything the caller should surface as warnings upstream.
type Report struct {
	Anomalies       []Anomaly
	UnknownStatuses []string
}

// Project computes one DayState per calendar day in [from, to] for the room.
// Both boundary days are inclusive and normalized to midnight UTC.
func Project(roomID string, intervals []model.Interval, from, to time.Time, policy Policy) ([]model.DayState, Report) {
	from = model.DateOnly(from)
	to = model.DateOnly(to)

	var report Report
	occupying := filterOccupying(intervals, &report)

	var states []model.DayState
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		states = append(states, projectDay(roomID, occupying, day, policy, &report))
	}

	return states, report
}

func filterOccupying(intervals []model.Interval, report *Report) []model.Interval {
	var occupying []model.Interval
	for _, interval := range intervals {
		occupies, known := interval.Occupies()
		if !known {
			report.UnknownStatuses = append(report.UnknownStatuses, interval.Status)
		}
		if occupies {
			occupying = append(occupying, interval)
		}
	}
	return occupying
}

func projectDay(roomID string, intervals []model.Interval, day time.Time, policy Policy, report *Report) model.DayState {
	state := model.DayState{RoomID: roomID, Date: day}

	var covering []model.Interval
	var departing []model.Interval
	for _, interval := range intervals {
		if interval.Covers(day) {
			covering = append(covering, interval)
		} else if interval.CheckOut.Equal(day) {
			departing = append(departing, interval)
		}
	}
	sortByReservationID(covering)
	sortByReservationID(departing)

	switch {
	case len(covering) == 0 && len(departing) == 0:
		if policy.ManualOccupied {
			state.Kind = model.DayOccupied
		} else {
			state.Kind = model.DayAvailable
		}

	case len(covering) == 0:
		// The guest leaves this morning and nobody arrives: the room frees
		// up during the day.
		state.Kind = model.DayCheckOutOnly
		state.DepartingReservationID = departing[0].ReservationID

	case len(covering) == 1:
		interval := covering[0]
		if interval.CheckIn.Equal(day) && len(departing) > 0 {
			// One guest out in the morning, another in the same day.
			state.Kind = model.DayTransition
			state.PrimaryReservationID = interval.ReservationID
			state.DepartingReservationID = departing[0].ReservationID
		} else if interval.CheckIn.Equal(day) {
			state.Kind = model.DayCheckInOnly
			state.PrimaryReservationID = interval.ReservationID
		} else {
			state.Kind = model.DayOccupied
			state.PrimaryReservationID = interval.ReservationID
		}

	default:
		// Two or more occupying reservations cover the same day. Lowest
		// reservation id wins as primary, the rest are reported so the
		// caller can warn upstream; the read itself never fails.
		state.Kind = model.DayOccupied
		state.PrimaryReservationID = covering[0].ReservationID
		ids := make([]string, 0, len(covering))
		for _, c := range covering {
			ids = append(ids, c.ReservationID)
		}
		state.SecondaryReservationIDs = ids[1:]
		report.Anomalies = append(report.Anomalies, Anomaly{
			RoomID:         roomID,
			Date:           day,
			ReservationIDs: ids,
		})
	}

	return state
}

func sortByReservationID(intervals []model.Interval) {
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].ReservationID < intervals[j].ReservationID
	})
}
