package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roomdesk/internal/occupancy/service"
	httputil "roomdesk/pkg/http"
	"roomdesk/pkg/logger"
)

type CalendarHandler struct {
	service service.OccupancyService
	log     *logger.Logger
}

func NewCalendarHandler(service service.OccupancyService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log,
	}
}

func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomId")

	from, err := httputil.ExtractDate(r, "from")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCalendar", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	to, err := httputil.ExtractDate(r, "to")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCalendar", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	calendar, err := h.service.GetCalendar(r.Context(), roomID, from, to)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCalendar", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, calendar); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCalendar", "operation", "WriteSuccess", "error", err)
	}
}

// SetOverride flips the manual occupied flag operators use to block a room
// outside any reservation.
func (h *CalendarHandler) SetOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomId")

	var body struct {
		Occupied bool `json:"occupied"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetOverride", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	h.service.SetManualOccupied(roomID, body.Occupied)
	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms/:roomId/calendar", h.GetCalendar)
	router.PUT("/api/v1/rooms/:roomId/occupied", h.SetOverride)
}
