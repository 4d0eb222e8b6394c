package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"roomdesk/internal/reservations/availability"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
	"roomdesk/pkg/model"
)

// Mock service for testing
type mockReservationService struct {
	createFunc            func(ctx context.Context, reservation *model.Reservation) error
	checkAvailabilityFunc func(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (availability.ConflictResult, error)
}

func (m *mockReservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	return nil
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	return nil, apperrors.NotFoundWithID("Reservation", id)
}

func (m *mockReservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) error {
	return nil
}

func (m *mockReservationService) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockReservationService) SearchByRoom(ctx context.Context, roomID string, from, to *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error) {
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (availability.ConflictResult, error) {
	if m.checkAvailabilityFunc != nil {
		return m.checkAvailabilityFunc(ctx, roomID, checkIn, checkOut, excludeID)
	}
	return availability.ConflictResult{}, nil
}

func newTestHandler(svc *mockReservationService) *ReservationHandler {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
	return NewReservationHandler(svc, log)
}

func newRouter(h *ReservationHandler) *httprouter.Router {
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreate_InvalidBody(t *testing.T) {
	router := newRouter(newTestHandler(&mockReservationService{}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCreate_ConflictMapsTo409(t *testing.T) {
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, reservation *model.Reservation) error {
			return apperrors.BookingConflict("Requested stay overlaps existing reservations", map[string]any{
				"conflicts": []map[string]any{{"reservation_id": "res-a"}},
			})
		},
	}
	router := newRouter(newTestHandler(svc))

	body := `{"room_id":"room-101","guest_name":"Alex Morgan","check_in":"2026-05-01T00:00:00Z","check_out":"2026-05-04T00:00:00Z","status":"confirmed"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}

	var resp struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != apperrors.CodeBookingConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeBookingConflict, resp.Code)
	}
	if resp.Details["conflicts"] == nil {
		t.Error("expected conflicting reservations in details")
	}
}

func TestCreate_LockBusyMapsTo409(t *testing.T) {
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, reservation *model.Reservation) error {
			return apperrors.LockBusy("room_room-101")
		},
	}
	router := newRouter(newTestHandler(svc))

	body := `{"room_id":"room-101","guest_name":"Alex Morgan","check_in":"2026-05-01T00:00:00Z","check_out":"2026-05-04T00:00:00Z","status":"confirmed"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != apperrors.CodeLockBusy {
		t.Errorf("expected code %s, got %s", apperrors.CodeLockBusy, resp.Code)
	}
}

func TestCheckAvailability(t *testing.T) {
	var receivedExclude string
	svc := &mockReservationService{
		checkAvailabilityFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (availability.ConflictResult, error) {
			receivedExclude = excludeID
			return availability.ConflictResult{
				Conflicts: []model.Interval{{ReservationID: "res-a", RoomID: roomID}},
			}, nil
		},
	}
	router := newRouter(newTestHandler(svc))

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/rooms/room-101/availability?check_in=2026-05-01&check_out=2026-05-04&exclude_reservation_id=res-z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if receivedExclude != "res-z" {
		t.Errorf("expected exclude id res-z, got %q", receivedExclude)
	}

	var resp struct {
		Data struct {
			Available bool             `json:"available"`
			Conflicts []model.Interval `json:"conflicts"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Available {
		t.Error("expected available=false when conflicts exist")
	}
	if len(resp.Data.Conflicts) != 1 {
		t.Errorf("expected 1 conflict, got %d", len(resp.Data.Conflicts))
	}
}

func TestCheckAvailability_MissingDates(t *testing.T) {
	router := newRouter(newTestHandler(&mockReservationService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/room-101/availability?check_in=2026-05-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestGetAll_InvalidLimit(t *testing.T) {
	router := newRouter(newTestHandler(&mockReservationService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
