package model

import (
	"testing"
	"time"
)

func TestStatusOccupies(t *testing.T) {
	cases := []struct {
		status    string
		occupying bool
		known     bool
	}{
		{StatusPending, true, true},
		{StatusConfirmed, true, true},
		{StatusInProgress, true, true},
		{StatusCompleted, false, true},
		{StatusCancelled, false, true},
		{StatusNoShow, false, true},
		{"waitlisted", false, false},
		{"", false, false},
	}

	for _, tc := range cases {
		occupying, known := StatusOccupies(tc.status)
		if occupying != tc.occupying || known != tc.known {
			t.Errorf("StatusOccupies(%q) = (%v, %v), want (%v, %v)",
				tc.status, occupying, known, tc.occupying, tc.known)
		}
	}
}

func TestIntervalCovers(t *testing.T) {
	interval := Interval{
		RoomID:        "room-101",
		ReservationID: "res-a",
		CheckIn:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Status:        StatusConfirmed,
	}

	cases := []struct {
		name    string
		day     time.Time
		covered bool
	}{
		{"day before check-in", time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), false},
		{"check-in day", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"middle of stay", time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), true},
		{"check-out day is excluded", time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), false},
		{"after check-out", time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), false},
		{"late clock time inside stay", time.Date(2026, 5, 3, 23, 59, 0, 0, time.UTC), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := interval.Covers(tc.day); got != tc.covered {
				t.Errorf("Covers(%v) = %v, want %v", tc.day, got, tc.covered)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	// A timestamp east of UTC can land on the previous UTC day.
	loc := time.FixedZone("UTC+9", 9*60*60)
	in := time.Date(2026, 5, 2, 3, 30, 0, 0, loc)
	got := DateOnly(in)
	want := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", in, got, want)
	}

	midnight := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	if got := DateOnly(midnight); !got.Equal(midnight) {
		t.Errorf("DateOnly(%v) = %v, want unchanged", midnight, got)
	}
}

func TestReservationInterval(t *testing.T) {
	r := &Reservation{
		ID:       "res-a",
		RoomID:   "room-101",
		CheckIn:  time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 5, 4, 11, 0, 0, 0, time.UTC),
		Status:   StatusConfirmed,
	}

	interval := r.Interval()
	if !interval.CheckIn.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("check-in not normalized to midnight: %v", interval.CheckIn)
	}
	if !interval.CheckOut.Equal(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("check-out not normalized to midnight: %v", interval.CheckOut)
	}
	if interval.ReservationID != "res-a" || interval.RoomID != "room-101" {
		t.Errorf("identity fields not carried: %+v", interval)
	}
}

func TestRoomLockLive(t *testing.T) {
	now := time.Now()
	lock := &RoomLock{
		ResourceKey: "room_room-101",
		Holder:      "actor-1",
		ExpiresAt:   now.Add(time.Minute),
	}

	if !lock.Live(now) {
		t.Error("lock with future expiry must be live")
	}
	if lock.Live(now.Add(2 * time.Minute)) {
		t.Error("lock past its expiry must not be live")
	}
	if lock.Live(lock.ExpiresAt) {
		t.Error("lock exactly at expiry must not be live")
	}
}
