package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"roomdesk/internal/reservations/availability"
	reservationserrors "roomdesk/internal/reservations/errors"
	"roomdesk/internal/reservations/repository"
	"roomdesk/internal/reservations/validator"
	"roomdesk/pkg/config"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/events"
	"roomdesk/pkg/lock"
	"roomdesk/pkg/middleware"
	"roomdesk/pkg/model"
	"roomdesk/pkg/sanitizer"
)

// maxOverlapCheck bounds how many candidate reservations one conflict check
// fetches. A single room cannot plausibly carry more concurrent stays than
// this inside one queried window.
const maxOverlapCheck = 50

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	Update(ctx context.Context, id string, updates *model.ReservationUpdate) error
	Delete(ctx context.Context, id string) error
	SearchByRoom(ctx context.Context, roomID string, from, to *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error)
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeReservationID string) (availability.ConflictResult, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	locks     lock.Manager
	validator *validator.ReservationValidator
	producer  *events.Producer
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	locks lock.Manager,
	validator *validator.ReservationValidator,
	producer *events.Producer,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		locks:     locks,
		validator: validator,
		producer:  producer,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	s.applyDefaults(reservation)
	s.sanitize(reservation)
	if err := s.validate(reservation); err != nil {
		return err
	}

	// The lock wraps both the conflict check and the insert: without it two
	// concurrent requests can both pass the check and both write.
	release, err := s.acquireRoomLock(ctx, reservation.RoomID)
	if err != nil {
		return err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, reservation.Interval(), ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return err
	}

	s.publish(ctx, events.TypeReservationCreated, reservation)

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"room_id", reservation.RoomID,
		"check_in", reservation.CheckIn,
		"check_out", reservation.CheckOut,
	)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	// Lock the room the reservation lands on after the edit; that is the
	// room whose availability the write can corrupt.
	release, err := s.acquireRoomLock(ctx, merged.RoomID)
	if err != nil {
		return err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, merged.Interval(), id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return err
	}

	eventType := events.TypeReservationUpdated
	if updates.Status == model.StatusCancelled && existing.Status != model.StatusCancelled {
		eventType = events.TypeReservationCancelled
	}
	merged.ID = id
	s.publish(ctx, eventType, merged)

	s.cfg.Log.Info("Reservation updated successfully", "id", id)
	return nil
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid reservation ID format")
		}
		return apperrors.Internal("Failed to delete reservation", err)
	}

	s.publish(ctx, events.TypeReservationDeleted, existing)

	s.cfg.Log.Info("Reservation deleted successfully", "id", id)
	return nil
}

func (s *reservationService) SearchByRoom(ctx context.Context, roomID string, from, to *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if roomID == "" {
		return nil, 0, apperrors.InvalidInput("RoomID is required")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByRoomAndRange(ctx, roomID, from, to)
		if err != nil {
			s.cfg.Log.Error("Failed to count reservations by room", "room_id", roomID, "error", err)
			errCount = apperrors.Internal("Failed to count reservations", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		reservations, err = s.repo.FindByRoomAndRange(ctx, roomID, from, to, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search reservations", "room_id", roomID, "error", err)
			errFind = apperrors.Internal("Failed to search reservations", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// CheckAvailability runs the conflict check without acquiring a lock. It is
// an advisory read for the booking form; the authoritative check reruns
// inside the lock when the write actually happens.
func (s *reservationService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeReservationID string) (availability.ConflictResult, error) {
	if roomID == "" {
		return availability.ConflictResult{}, apperrors.InvalidInput("RoomID is required")
	}

	candidate := model.Interval{
		RoomID:   roomID,
		CheckIn:  model.DateOnly(checkIn),
		CheckOut: model.DateOnly(checkOut),
		Status:   model.StatusPending,
	}
	if !candidate.CheckOut.After(candidate.CheckIn) {
		return availability.ConflictResult{}, apperrors.InvalidInput("check-out day must be after check-in day")
	}

	existing, err := s.intervalsForRoom(ctx, candidate)
	if err != nil {
		return availability.ConflictResult{}, err
	}

	result := availability.CheckConflict(existing, candidate, excludeReservationID)
	s.logUnknownStatuses(roomID, result.SkippedUnknown)
	return result, nil
}

// --- Helpers ---

func (s *reservationService) applyDefaults(r *model.Reservation) {
	if r.Status == "" {
		r.Status = model.StatusPending
	}
	r.CheckIn = model.DateOnly(r.CheckIn)
	r.CheckOut = model.DateOnly(r.CheckOut)
}

func (s *reservationService) sanitize(r *model.Reservation) {
	r.GuestName = sanitizer.NormalizeName(r.GuestName)
	r.Notes = sanitizer.NormalizeNotes(r.Notes)
}

func (s *reservationService) validate(reservation *model.Reservation) error {
	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *reservationService) mergeUpdates(existing *model.Reservation, updates *model.ReservationUpdate) *model.Reservation {
	merged := *existing

	if updates.GuestName != "" {
		merged.GuestName = updates.GuestName
	}
	if updates.CheckIn != nil {
		merged.CheckIn = model.DateOnly(*updates.CheckIn)
	}
	if updates.CheckOut != nil {
		merged.CheckOut = model.DateOnly(*updates.CheckOut)
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Notes != "" {
		merged.Notes = updates.Notes
	}

	return &merged
}

// acquireRoomLock serializes mutations per room via the advisory lock
// manager. The returned release func runs on every exit path; a failed
// release is logged and swallowed because the lock self-expires and must
// never turn a successful write into an error.
func (s *reservationService) acquireRoomLock(ctx context.Context, roomID string) (func(), error) {
	resourceKey := roomLockKey(roomID)
	holder := middleware.ActorFrom(ctx)

	acquired, ok, err := s.locks.Acquire(ctx, resourceKey, holder, s.cfg.LockTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to acquire room lock", err)
	}
	if !ok {
		s.cfg.Log.Info("Room lock contended", "resource_key", resourceKey, "holder", holder)
		return nil, apperrors.LockBusy(resourceKey)
	}

	release := func() {
		if releaseErr := s.locks.Release(ctx, resourceKey, acquired.Token); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock",
				"resource_key", resourceKey,
				"token", acquired.Token,
				"error", releaseErr,
			)
		}
	}
	return release, nil
}

func roomLockKey(roomID string) string {
	return fmt.Sprintf("room_%s", roomID)
}

// verifyAvailability fetches the intervals that touch the candidate window
// and rejects the write if any occupying one collides.
func (s *reservationService) verifyAvailability(ctx context.Context, candidate model.Interval, excludeReservationID string) error {
	existing, err := s.intervalsForRoom(ctx, candidate)
	if err != nil {
		return err
	}

	result := availability.CheckConflict(existing, candidate, excludeReservationID)
	s.logUnknownStatuses(candidate.RoomID, result.SkippedUnknown)

	if result.HasConflict() {
		conflicts := make([]map[string]any, 0, len(result.Conflicts))
		for _, c := range result.Conflicts {
			conflicts = append(conflicts, map[string]any{
				"reservation_id": c.ReservationID,
				"check_in":       c.CheckIn.Format("2006-01-02"),
				"check_out":      c.CheckOut.Format("2006-01-02"),
				"status":         c.Status,
			})
		}
		return apperrors.BookingConflict(
			"Requested stay overlaps existing reservations",
			map[string]any{"conflicts": conflicts},
		)
	}
	return nil
}

func (s *reservationService) intervalsForRoom(ctx context.Context, candidate model.Interval) ([]model.Interval, error) {
	reservations, err := s.repo.FindByRoomAndRange(ctx, candidate.RoomID, &candidate.CheckIn, &candidate.CheckOut, maxOverlapCheck, 0)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing reservations", err)
	}

	intervals := make([]model.Interval, 0, len(reservations))
	for _, r := range reservations {
		intervals = append(intervals, r.Interval())
	}
	return intervals, nil
}

func (s *reservationService) logUnknownStatuses(roomID string, statuses []string) {
	for _, status := range statuses {
		s.cfg.Log.Warn("Unknown reservation status defaulted to non-occupying",
			"room_id", roomID,
			"status", status,
		)
	}
}

func (s *reservationService) publish(ctx context.Context, eventType string, reservation *model.Reservation) {
	msg, err := events.NewMessage(eventType, reservation.RoomID, reservation)
	if err != nil {
		s.cfg.Log.Error("Failed to encode reservation event", "event_type", eventType, "error", err)
		return
	}
	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}
