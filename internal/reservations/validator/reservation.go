package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"roomdesk/pkg/logger"
	"roomdesk/pkg/model"
)

// MaxStayNights bounds a single reservation. Longer stays are back-office
// contracts, not bookings, and go through a different flow.
const MaxStayNights = 180

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func (rv *ReservationValidator) Validate(reservation *model.Reservation) error {
	var failures ValidationErrors

	if err := rv.validate.Struct(reservation); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				failures = append(failures, ValidationError{
					Field:   fe.Field(),
					Message: describeFieldError(fe),
				})
			}
		} else {
			return err
		}
	}

	failures = append(failures, rv.validateStay(reservation)...)

	if len(failures) > 0 {
		return failures
	}
	return nil
}

func (rv *ReservationValidator) ValidateUpdate(updates *model.ReservationUpdate) error {
	if err := rv.validate.Struct(updates); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			var failures ValidationErrors
			for _, fe := range fieldErrs {
				failures = append(failures, ValidationError{
					Field:   fe.Field(),
					Message: describeFieldError(fe),
				})
			}
			return failures
		}
		return err
	}
	return nil
}

// validateStay enforces the date rules struct tags cannot express: both
// boundaries are calendar days, the half-open span is non-empty and the stay
// has a sane length.
func (rv *ReservationValidator) validateStay(reservation *model.Reservation) ValidationErrors {
	var failures ValidationErrors

	checkIn := model.DateOnly(reservation.CheckIn)
	checkOut := model.DateOnly(reservation.CheckOut)

	if !checkOut.After(checkIn) {
		failures = append(failures, ValidationError{
			Field:   "CheckOut",
			Message: "check-out day must be after check-in day",
		})
		return failures
	}

	if nights := int(checkOut.Sub(checkIn).Hours() / 24); nights > MaxStayNights {
		failures = append(failures, ValidationError{
			Field:   "CheckOut",
			Message: fmt.Sprintf("stay cannot exceed %d nights, got %d", MaxStayNights, nights),
		})
	}

	return failures
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", fe.Param())
	case "mongodb":
		return "must be a valid object id"
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
