package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"roomdesk/internal/occupancy/projector"
	"roomdesk/pkg/config"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/model"
)

// IntervalSource supplies the reservations whose stays touch a queried
// window. The reservations repository satisfies it; the calendar side needs
// nothing else from that package.
type IntervalSource interface {
	FindByRoomAndRange(ctx context.Context, roomID string, from, to *time.Time, limit int, offset int64) ([]*model.Reservation, error)
}

// maxCalendarFetch bounds one calendar query's reservation fetch. A year of
// back-to-back one-night stays fits well inside it.
const maxCalendarFetch = 500

type Calendar struct {
	RoomID string           `json:"room_id"`
	From   string           `json:"from"`
	To     string           `json:"to"`
	Days   []model.DayState `json:"days"`
}

type OccupancyService interface {
	// GetCalendar renders one day state per day in the half-open [from, to)
	// window.
	GetCalendar(ctx context.Context, roomID string, from, to time.Time) (*Calendar, error)
	SetManualOccupied(roomID string, occupied bool)
}

type occupancyService struct {
	source IntervalSource
	cfg    *config.Config

	// group collapses concurrent calendar reads for the same room and
	// window into one repository query.
	group singleflight.Group

	manual manualOverrides
}

func NewOccupancyService(source IntervalSource, cfg *config.Config) OccupancyService {
	return &occupancyService{
		source: source,
		cfg:    cfg,
		manual: newManualOverrides(),
	}
}

func (s *occupancyService) GetCalendar(ctx context.Context, roomID string, from, to time.Time) (*Calendar, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("RoomID is required")
	}

	from = model.DateOnly(from)
	to = model.DateOnly(to)
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%s|%s", roomID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	result, err, _ := s.group.Do(key, func() (any, error) {
		// The fetch serves every caller collapsed onto this key, so it must
		// not die with whichever request happened to start it.
		return s.buildCalendar(context.WithoutCancel(ctx), roomID, from, to)
	})
	if err != nil {
		return nil, err
	}

	return result.(*Calendar), nil
}

func (s *occupancyService) SetManualOccupied(roomID string, occupied bool) {
	s.manual.set(roomID, occupied)
	s.cfg.Log.Info("Manual occupancy override changed", "room_id", roomID, "occupied", occupied)
}

func (s *occupancyService) validateRange(from, to time.Time) error {
	if !to.After(from) {
		return apperrors.InvalidInput("'to' must be after 'from'")
	}
	maxRange := time.Duration(s.cfg.CalendarMaxRangeDays) * 24 * time.Hour
	if to.Sub(from) > maxRange {
		return apperrors.InvalidInput(fmt.Sprintf("requested range exceeds %d days", s.cfg.CalendarMaxRangeDays))
	}
	return nil
}

func (s *occupancyService) buildCalendar(ctx context.Context, roomID string, from, to time.Time) (*Calendar, error) {
	reservations, err := s.source.FindByRoomAndRange(ctx, roomID, &from, &to, maxCalendarFetch, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for calendar", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to load reservations", err)
	}

	intervals := make([]model.Interval, 0, len(reservations))
	for _, r := range reservations {
		intervals = append(intervals, r.Interval())
	}

	// The query window is half-open like the interval model: to is the first
	// day not rendered. The projector itself takes inclusive bounds.
	policy := projector.Policy{ManualOccupied: s.manual.get(roomID)}
	days, report := projector.Project(roomID, intervals, from, to.AddDate(0, 0, -1), policy)

	for _, status := range report.UnknownStatuses {
		s.cfg.Log.Warn("Unknown reservation status defaulted to non-occupying",
			"room_id", roomID,
			"status", status,
		)
	}
	for _, anomaly := range report.Anomalies {
		s.cfg.Log.Warn("Multiple reservations cover the same day",
			"room_id", anomaly.RoomID,
			"date", anomaly.Date.Format("2006-01-02"),
			"reservation_ids", anomaly.ReservationIDs,
		)
	}

	return &Calendar{
		RoomID: roomID,
		From:   from.Format("2006-01-02"),
		To:     to.Format("2006-01-02"),
		Days:   days,
	}, nil
}
