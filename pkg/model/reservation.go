package model

import (
	"time"
)

// Reservation statuses. Only OccupyingStatuses consume room capacity for
// conflict checking; everything else (including statuses this service has
// never seen) is treated as non-occupying.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
)

var occupancyByStatus = map[string]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusInProgress: true,
	StatusCompleted:  false,
	StatusCancelled:  false,
	StatusNoShow:     false,
}

// StatusOccupies reports whether a reservation status consumes room capacity.
// known is false for statuses outside the fixed mapping; those default to
// non-occupying so a bad record can never block bookings, and the caller is
// expected to log the fallback.
func StatusOccupies(status string) (occupying bool, known bool) {
	occupying, known = occupancyByStatus[status]
	return occupying, known
}

type Reservation struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID    string    `json:"room_id" bson:"room_id" validate:"required,min=1,max=64"`
	GuestName string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	CheckIn   time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut  time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed in_progress completed cancelled no_show"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ReservationUpdate struct {
	GuestName string     `json:"guest_name,omitempty" validate:"omitempty,min=2,max=100"`
	CheckIn   *time.Time `json:"check_in,omitempty" validate:"omitempty"`
	CheckOut  *time.Time `json:"check_out,omitempty" validate:"omitempty"`
	Status    string     `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed in_progress completed cancelled no_show"`
	Notes     string     `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Interval is the occupied span of one reservation on one room: check-in day
// inclusive, check-out day exclusive (the guest vacates that morning). It is
// derived from the reservation record, never persisted on its own.
type Interval struct {
	RoomID        string    `json:"room_id"`
	ReservationID string    `json:"reservation_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Status        string    `json:"status"`
}

// Interval returns the reservation's occupied span with both boundary days
// normalized to midnight UTC.
func (r *Reservation) Interval() Interval {
	return Interval{
		RoomID:        r.RoomID,
		ReservationID: r.ID,
		CheckIn:       DateOnly(r.CheckIn),
		CheckOut:      DateOnly(r.CheckOut),
		Status:        r.Status,
	}
}

// Occupies reports whether the interval consumes capacity for conflict
// purposes. Unknown statuses report known=false and never occupy.
func (i Interval) Occupies() (occupying bool, known bool) {
	return StatusOccupies(i.Status)
}

// Covers reports whether day falls inside the half-open [CheckIn, CheckOut)
// span.
func (i Interval) Covers(day time.Time) bool {
	day = DateOnly(day)
	return !day.Before(i.CheckIn) && day.Before(i.CheckOut)
}

// DateOnly truncates a timestamp to its calendar day in UTC. All interval
// arithmetic operates on these normalized days.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
