package model

import "time"

// DayState kinds produced by the occupancy projector.
const (
	DayAvailable    = "available"
	DayOccupied     = "occupied"
	DayCheckInOnly  = "check_in_only"
	DayCheckOutOnly = "check_out_only"
	DayTransition   = "transition"
)

// DayState is the projector's output for one (room, calendar day) pair.
// DepartingReservationID is only set for transition days. Secondary ids are
// only present when more than two occupying reservations cover the same day,
// which indicates the availability check was bypassed upstream.
type DayState struct {
	RoomID                  string    `json:"room_id"`
	Date                    time.Time `json:"date"`
	Kind                    string    `json:"kind"`
	PrimaryReservationID    string    `json:"primary_reservation_id,omitempty"`
	DepartingReservationID  string    `json:"departing_reservation_id,omitempty"`
	SecondaryReservationIDs []string  `json:"secondary_reservation_ids,omitempty"`
}
