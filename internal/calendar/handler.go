package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/salonbook/internal/bookings"
	"github.com/glowdesk/salonbook/internal/dates"
	"github.com/glowdesk/salonbook/internal/scope"
	"github.com/glowdesk/salonbook/pkg/logging"
)

// ViewMetrics counts calendar view renders. Implementations must tolerate
// being called from concurrent requests.
type ViewMetrics interface {
	ObserveView(view string)
}

// Handler handles HTTP requests for the booking calendar
type Handler struct {
	service     *bookings.Service
	metrics     ViewMetrics
	logger      *logging.Logger
	now         func() time.Time
	defaultView ViewType
}

// NewHandler creates a new calendar handler. metrics may be nil.
func NewHandler(service *bookings.Service, metrics ViewMetrics, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
		defaultView: ViewDay,
	}
}

// SetDefaultView changes the view rendered when the request omits view=.
func (h *Handler) SetDefaultView(v ViewType) {
	h.defaultView = v
}

// Routes mounts the calendar endpoints on r. The artist scope must already
// be on the request context.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/calendar", h.GetCalendar)
	r.Get("/bookings", h.ListBookings)
	r.Post("/bookings", h.CreateBooking)
	r.Post("/bookings/{bookingID}/status", h.ChangeStatus)
}

// CalendarResponse is the rendered calendar for one view and anchor date.
// Exactly one of Day, Week, Month is set, matching State.View.
type CalendarResponse struct {
	State State      `json:"state"`
	Day   *DayView   `json:"day,omitempty"`
	Week  *WeekView  `json:"week,omitempty"`
	Month *MonthView `json:"month,omitempty"`
}

// GetCalendar handles GET /calendar?view=day|week|month&date=YYYY-MM-DD.
// An optional dir=-1|1 applies one navigation step before rendering.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	artistID, ok := scope.ArtistIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing artist context", http.StatusBadRequest)
		return
	}

	today := dates.DateOf(h.now())

	view := h.defaultView
	if raw := r.URL.Query().Get("view"); raw != "" {
		parsed, err := ParseViewType(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		view = parsed
	}

	anchor := today
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := dates.ParseDate(raw)
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		anchor = parsed
	}

	state := NewState(view, anchor)
	if raw := r.URL.Query().Get("dir"); raw != "" {
		dir, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid dir, want -1 or 1", http.StatusBadRequest)
			return
		}
		if err := state.Navigate(dir); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	from, to := state.Window()
	snapshot, err := h.service.Snapshot(r.Context(), artistID, from, to)
	if err != nil {
		h.logger.Error("failed to load bookings", "error", err, "artist_id", artistID)
		http.Error(w, "failed to load bookings", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveView(string(state.View))
	}

	resp := CalendarResponse{State: state}
	switch state.View {
	case ViewWeek:
		v := BuildWeekView(snapshot, state.Anchor, today)
		resp.Week = &v
	case ViewMonth:
		v := BuildMonthView(snapshot, state.Anchor, today)
		resp.Month = &v
	default:
		v := BuildDayView(snapshot, state.Anchor, today)
		resp.Day = &v
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListBookings handles GET /bookings. Unlike the calendar views it includes
// undated bookings so operators can still see them.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	artistID, ok := scope.ArtistIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing artist context", http.StatusBadRequest)
		return
	}

	list, err := h.service.List(r.Context(), artistID, bookings.ListFilter{IncludeUndated: true})
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err, "artist_id", artistID)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": list,
		"count":    len(list),
	})
}

// CreateBooking handles POST /bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	artistID, ok := scope.ArtistIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing artist context", http.StatusBadRequest)
		return
	}

	var req bookings.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.ArtistID = artistID

	b, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create booking", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

type changeStatusRequest struct {
	Status        string `json:"status"`
	DeclineReason string `json:"decline_reason,omitempty"`
}

// ChangeStatus handles POST /bookings/{bookingID}/status. Illegal
// transitions come back as 409 so the caller can refresh its stale card.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	artistID, ok := scope.ArtistIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing artist context", http.StatusBadRequest)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	if bookingID == "" {
		http.Error(w, "missing booking id", http.StatusBadRequest)
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b, err := h.service.ChangeStatus(r.Context(), artistID, bookingID, req.Status, req.DeclineReason)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrNotFound):
			http.Error(w, "booking not found", http.StatusNotFound)
		case errors.Is(err, bookings.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, bookings.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error("failed to change status", "error", err, "booking_id", bookingID)
			http.Error(w, "failed to change status", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
