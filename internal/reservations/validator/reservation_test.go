package validator

import (
	"testing"
	"time"

	"roomdesk/pkg/logger"
	"roomdesk/pkg/model"
)

func newTestValidator() *ReservationValidator {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewReservationValidator(log)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validReservation() *model.Reservation {
	return &model.Reservation{
		RoomID:    "room-101",
		GuestName: "Ada Lovelace",
		CheckIn:   day(2024, 5, 1),
		CheckOut:  day(2024, 5, 5),
		Status:    model.StatusConfirmed,
	}
}

func TestValidate(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name        string
		mutate      func(*model.Reservation)
		expectValid bool
	}{
		{
			name:        "valid reservation",
			mutate:      func(r *model.Reservation) {},
			expectValid: true,
		},
		{
			name:        "missing room",
			mutate:      func(r *model.Reservation) { r.RoomID = "" },
			expectValid: false,
		},
		{
			name:        "guest name too short",
			mutate:      func(r *model.Reservation) { r.GuestName = "A" },
			expectValid: false,
		},
		{
			name:        "unknown status",
			mutate:      func(r *model.Reservation) { r.Status = "waitlisted" },
			expectValid: false,
		},
		{
			name:        "check-out equals check-in",
			mutate:      func(r *model.Reservation) { r.CheckOut = r.CheckIn },
			expectValid: false,
		},
		{
			name:        "check-out before check-in",
			mutate:      func(r *model.Reservation) { r.CheckOut = day(2024, 4, 1) },
			expectValid: false,
		},
		{
			name: "same calendar day despite later clock time",
			mutate: func(r *model.Reservation) {
				r.CheckIn = day(2024, 5, 1)
				r.CheckOut = day(2024, 5, 1).Add(18 * time.Hour)
			},
			expectValid: false,
		},
		{
			name:        "stay too long",
			mutate:      func(r *model.Reservation) { r.CheckOut = r.CheckIn.AddDate(0, 0, MaxStayNights+1) },
			expectValid: false,
		},
		{
			name:        "one-night stay",
			mutate:      func(r *model.Reservation) { r.CheckOut = day(2024, 5, 2) },
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReservation()
			tt.mutate(r)

			err := v.Validate(r)
			if tt.expectValid && err != nil {
				t.Errorf("expected valid, got: %v", err)
			}
			if !tt.expectValid && err == nil {
				t.Error("expected validation failure, got none")
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateUpdate(&model.ReservationUpdate{Status: model.StatusCancelled}); err != nil {
		t.Errorf("cancelling is a valid update: %v", err)
	}

	if err := v.ValidateUpdate(&model.ReservationUpdate{Status: "double-booked"}); err == nil {
		t.Error("unknown status must fail update validation")
	}

	if err := v.ValidateUpdate(&model.ReservationUpdate{GuestName: "B"}); err == nil {
		t.Error("too-short guest name must fail update validation")
	}
}
