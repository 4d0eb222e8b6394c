package projector

import (
	"testing"
	"time"

	"roomdesk/pkg/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func interval(id string, checkIn, checkOut time.Time, status string) model.Interval {
	return model.Interval{
		RoomID:        "room-1",
		ReservationID: id,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Status:        status,
	}
}

func stateFor(t *testing.T, states []model.DayState, d time.Time) model.DayState {
	t.Helper()
	for _, s := range states {
		if s.Date.Equal(d) {
			return s
		}
	}
	t.Fatalf("no state projected for %s", d.Format("2006-01-02"))
	return model.DayState{}
}

func TestProject_SingleStay(t *testing.T) {
	intervals := []model.Interval{
		interval("res-a", day(2024, 5, 1), day(2024, 5, 5), model.StatusConfirmed),
	}

	states, report := Project("room-1", intervals, day(2024, 4, 30), day(2024, 5, 6), Policy{})
	if len(report.Anomalies) != 0 {
		t.Fatalf("unexpected anomalies: %+v", report.Anomalies)
	}
	if len(states) != 7 {
		t.Fatalf("expected 7 day states, got %d", len(states))
	}

	tests := []struct {
		date time.Time
		kind string
	}{
		{day(2024, 4, 30), model.DayAvailable},
		{day(2024, 5, 1), model.DayCheckInOnly},
		{day(2024, 5, 2), model.DayOccupied},
		{day(2024, 5, 4), model.DayOccupied},
		{day(2024, 5, 5), model.DayCheckOutOnly},
		{day(2024, 5, 6), model.DayAvailable},
	}
	for _, tt := range tests {
		s := stateFor(t, states, tt.date)
		if s.Kind != tt.kind {
			t.Errorf("%s: expected %s, got %s", tt.date.Format("2006-01-02"), tt.kind, s.Kind)
		}
	}

	if s := stateFor(t, states, day(2024, 5, 2)); s.PrimaryReservationID != "res-a" {
		t.Errorf("occupied day should carry the reservation id, got %q", s.PrimaryReservationID)
	}
	if s := stateFor(t, states, day(2024, 5, 5)); s.DepartingReservationID != "res-a" {
		t.Errorf("checkout day should carry the departing id, got %q", s.DepartingReservationID)
	}
}

func TestProject_TransitionDay(t *testing.T) {
	intervals := []model.Interval{
		interval("res-a", day(2024, 5, 1), day(2024, 5, 5), model.StatusConfirmed),
		interval("res-b", day(2024, 5, 5), day(2024, 5, 9), model.StatusConfirmed),
	}

	states, report := Project("room-1", intervals, day(2024, 5, 5), day(2024, 5, 5), Policy{})
	if len(report.Anomalies) != 0 {
		t.Fatalf("a clean turnover is not an anomaly: %+v", report.Anomalies)
	}

	s := stateFor(t, states, day(2024, 5, 5))
	if s.Kind != model.DayTransition {
		t.Fatalf("expected transition, got %s", s.Kind)
	}
	if s.PrimaryReservationID != "res-b" {
		t.Errorf("arriving reservation should be primary, got %q", s.PrimaryReservationID)
	}
	if s.DepartingReservationID != "res-a" {
		t.Errorf("departing reservation should be recorded, got %q", s.DepartingReservationID)
	}
}

func TestProject_NonOccupyingNeverRenders(t *testing.T) {
	intervals := []model.Interval{
		interval("res-a", day(2024, 5, 1), day(2024, 5, 9), model.StatusCancelled),
	}

	states, _ := Project("room-1", intervals, day(2024, 5, 2), day(2024, 5, 4), Policy{})
	for _, s := range states {
		if s.Kind != model.DayAvailable {
			t.Errorf("%s: cancelled stay must not occupy, got %s", s.Date.Format("2006-01-02"), s.Kind)
		}
	}
}

func TestProject_MultiCoverAnomaly(t *testing.T) {
	intervals := []model.Interval{
		interval("res-c", day(2024, 5, 1), day(2024, 5, 5), model.StatusConfirmed),
		interval("res-a", day(2024, 5, 2), day(2024, 5, 6), model.StatusPending),
		interval("res-b", day(2024, 5, 3), day(2024, 5, 4), model.StatusInProgress),
	}

	states, report := Project("room-1", intervals, day(2024, 5, 3), day(2024, 5, 3), Policy{})

	s := stateFor(t, states, day(2024, 5, 3))
	if s.Kind != model.DayOccupied {
		t.Errorf("anomalous day still projects deterministically, got %s", s.Kind)
	}
	if s.PrimaryReservationID != "res-a" {
		t.Errorf("lowest reservation id wins as primary, got %q", s.PrimaryReservationID)
	}
	if len(s.SecondaryReservationIDs) != 2 {
		t.Errorf("remaining covers reported as secondary, got %v", s.SecondaryReservationIDs)
	}
	if len(report.Anomalies) != 1 {
		t.Fatalf("expected one anomaly, got %d", len(report.Anomalies))
	}
	if got := report.Anomalies[0].ReservationIDs; len(got) != 3 || got[0] != "res-a" {
		t.Errorf("anomaly should list every covering reservation sorted, got %v", got)
	}
}

func TestProject_UnknownStatusReported(t *testing.T) {
	intervals := []model.Interval{
		interval("res-a", day(2024, 5, 1), day(2024, 5, 5), "waitlisted"),
	}

	states, report := Project("room-1", intervals, day(2024, 5, 2), day(2024, 5, 2), Policy{})
	if s := stateFor(t, states, day(2024, 5, 2)); s.Kind != model.DayAvailable {
		t.Errorf("unknown status defaults open, got %s", s.Kind)
	}
	if len(report.UnknownStatuses) != 1 || report.UnknownStatuses[0] != "waitlisted" {
		t.Errorf("defaulted status should be reported for logging, got %v", report.UnknownStatuses)
	}
}

func TestProject_ManualOccupiedPolicy(t *testing.T) {
	// A hand-set occupied flag is authoritative for otherwise-free days
	// until it is explicitly cleared.
	states, _ := Project("room-1", nil, day(2024, 5, 1), day(2024, 5, 2), Policy{ManualOccupied: true})
	for _, s := range states {
		if s.Kind != model.DayOccupied {
			t.Errorf("%s: expected occupied under manual flag, got %s", s.Date.Format("2006-01-02"), s.Kind)
		}
		if s.PrimaryReservationID != "" {
			t.Errorf("manual occupancy has no reservation id, got %q", s.PrimaryReservationID)
		}
	}
}
