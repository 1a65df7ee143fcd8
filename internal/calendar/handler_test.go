package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/salonbook/internal/bookings"
	"github.com/glowdesk/salonbook/internal/dates"
	"github.com/glowdesk/salonbook/internal/scope"
	"github.com/glowdesk/salonbook/pkg/logging"
)

type countingViewMetrics struct {
	views map[string]int
}

func (m *countingViewMetrics) ObserveView(view string) {
	if m.views == nil {
		m.views = make(map[string]int)
	}
	m.views[view]++
}

type handlerFixture struct {
	repo    *bookings.InMemoryRepository
	metrics *countingViewMetrics
	handler *Handler
	router  chi.Router
}

func newHandlerFixture(t *testing.T, now time.Time) *handlerFixture {
	t.Helper()

	repo := bookings.NewInMemoryRepository()
	service := bookings.NewService(repo, nil, nil, logging.New("error"))
	metrics := &countingViewMetrics{}

	h := NewHandler(service, metrics, logging.New("error"))
	h.now = func() time.Time { return now }

	r := chi.NewRouter()
	r.Route("/artists/{artistID}", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := scope.WithArtistID(req.Context(), chi.URLParam(req, "artistID"))
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		h.Routes(r)
	})

	return &handlerFixture{repo: repo, metrics: metrics, handler: h, router: r}
}

func (f *handlerFixture) seedBooking(t *testing.T, artistID, clientName, date, clock string) *bookings.Booking {
	t.Helper()
	b, err := f.repo.Create(t.Context(), &bookings.CreateBookingRequest{
		ArtistID:      artistID,
		ClientName:    clientName,
		DateRequested: date,
		TimeRequested: clock,
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func (f *handlerFixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_GetCalendar_ConfiguredDefaultView(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	f := newHandlerFixture(t, now)
	f.handler.SetDefaultView(ViewWeek)

	rec := f.do(t, http.MethodGet, "/artists/artist-1/calendar", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp CalendarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Week == nil {
		t.Fatal("expected week view when configured as default")
	}
	if resp.Day != nil || resp.Month != nil {
		t.Error("only the week view should be rendered")
	}

	// An explicit view= still wins over the configured default.
	rec = f.do(t, http.MethodGet, "/artists/artist-1/calendar?view=day", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp = CalendarResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Day == nil {
		t.Fatal("expected day view for explicit view param")
	}
}

func TestHandler_GetCalendar_DayView(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	f := newHandlerFixture(t, now)
	f.seedBooking(t, "artist-1", "Ana", "2025-03-10", "09:00")
	f.seedBooking(t, "artist-1", "Bea", "2025-03-10", "")

	rec := f.do(t, http.MethodGet, "/artists/artist-1/calendar?view=day&date=2025-03-10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp CalendarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Day == nil {
		t.Fatal("day view missing")
	}
	if !resp.Day.Today {
		t.Errorf("Today = false, want true")
	}
	if len(resp.Day.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(resp.Day.Cards))
	}
	if resp.Day.Cards[0].ClientName != "Ana" || resp.Day.Cards[1].ClientName != "Bea" {
		t.Errorf("order = %s, %s; timed booking renders first", resp.Day.Cards[0].ClientName, resp.Day.Cards[1].ClientName)
	}
	for _, card := range resp.Day.Cards {
		if len(card.Actions) != 2 {
			t.Errorf("card %s actions = %v, pending cards offer accept and decline", card.ID, card.Actions)
		}
	}

	if f.metrics.views["day"] != 1 {
		t.Errorf("day view renders = %d, want 1", f.metrics.views["day"])
	}
}

func TestHandler_GetCalendar_MonthThenDayDrilldown(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	f := newHandlerFixture(t, now)
	f.seedBooking(t, "artist-1", "Ana", "2025-03-10", "09:00")
	f.seedBooking(t, "artist-1", "Bea", "2025-03-10", "14:00")
	f.seedBooking(t, "artist-1", "Cleo", "2025-03-12", "")

	rec := f.do(t, http.MethodGet, "/artists/artist-1/calendar?view=month&date=2025-03-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var monthResp CalendarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &monthResp); err != nil {
		t.Fatalf("decode month: %v", err)
	}
	if monthResp.Month == nil {
		t.Fatal("month view missing")
	}

	var clicked dates.Date
	for _, cell := range monthResp.Month.Cells {
		if cell != nil && cell.BookingCount == 2 {
			clicked = cell.Date
		}
	}
	if !clicked.Equal(dates.NewDate(2025, time.March, 10)) {
		t.Fatalf("cell with 2 bookings = %s, want 2025-03-10", clicked)
	}

	// A month cell click lands on the day view for that date.
	rec = f.do(t, http.MethodGet, fmt.Sprintf("/artists/artist-1/calendar?view=day&date=%s", clicked), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var dayResp CalendarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &dayResp); err != nil {
		t.Fatalf("decode day: %v", err)
	}
	if dayResp.Day == nil || len(dayResp.Day.Cards) != 2 {
		t.Fatalf("day view shows %+v, want the 2 bookings from the clicked cell", dayResp.Day)
	}
}

func TestHandler_GetCalendar_Navigate(t *testing.T) {
	now := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)
	f := newHandlerFixture(t, now)

	rec := f.do(t, http.MethodGet, "/artists/artist-1/calendar?view=month&date=2025-01-31&dir=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp CalendarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.State.Anchor.Equal(dates.NewDate(2025, time.February, 28)) {
		t.Errorf("anchor = %s, want 2025-02-28", resp.State.Anchor)
	}
	if resp.Month == nil || resp.Month.Month != "February" {
		t.Errorf("month view missing or wrong month")
	}
}

func TestHandler_GetCalendar_BadInput(t *testing.T) {
	f := newHandlerFixture(t, time.Now())

	tests := []struct {
		name   string
		target string
	}{
		{"unknown view", "/artists/artist-1/calendar?view=year"},
		{"bad date", "/artists/artist-1/calendar?date=March+10"},
		{"bad direction", "/artists/artist-1/calendar?dir=2"},
		{"non-numeric direction", "/artists/artist-1/calendar?dir=next"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := f.do(t, http.MethodGet, tt.target, nil); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandler_CreateBooking(t *testing.T) {
	f := newHandlerFixture(t, time.Now())

	rec := f.do(t, http.MethodPost, "/artists/artist-1/bookings", map[string]any{
		"client_name":    "Ana",
		"date_requested": "2025-03-10",
		"time_requested": "09:00",
		"service_title":  "Balayage",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var b bookings.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.ArtistID != "artist-1" {
		t.Errorf("ArtistID = %q, scope must come from the route", b.ArtistID)
	}
	if b.Status != bookings.StatusPending {
		t.Errorf("Status = %s, want pending", b.Status)
	}

	rec = f.do(t, http.MethodPost, "/artists/artist-1/bookings", map[string]any{
		"date_requested": "2025-03-10",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing client name: status = %d, want 400", rec.Code)
	}
}

func TestHandler_ListBookings_IncludesUndated(t *testing.T) {
	f := newHandlerFixture(t, time.Now())
	f.seedBooking(t, "artist-1", "Ana", "2025-03-10", "")
	f.seedBooking(t, "artist-1", "Bea", "", "")
	f.seedBooking(t, "artist-2", "Other", "2025-03-10", "")

	rec := f.do(t, http.MethodGet, "/artists/artist-1/bookings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Bookings []*bookings.Booking `json:"bookings"`
		Count    int                 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Bookings) != 2 {
		t.Fatalf("count = %d, want both of artist-1's bookings", resp.Count)
	}
}

func TestHandler_ChangeStatus(t *testing.T) {
	f := newHandlerFixture(t, time.Now())
	b := f.seedBooking(t, "artist-1", "Ana", "2025-03-10", "09:00")

	rec := f.do(t, http.MethodPost, "/artists/artist-1/bookings/"+b.ID+"/status", changeStatusRequest{Status: "accepted"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var updated bookings.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != bookings.StatusAccepted {
		t.Errorf("Status = %s, want accepted", updated.Status)
	}
}

func TestHandler_ChangeStatus_Errors(t *testing.T) {
	f := newHandlerFixture(t, time.Now())
	b := f.seedBooking(t, "artist-1", "Ana", "2025-03-10", "09:00")

	tests := []struct {
		name     string
		target   string
		status   string
		wantCode int
	}{
		{"unknown status", "/artists/artist-1/bookings/" + b.ID + "/status", "archived", http.StatusBadRequest},
		{"illegal transition", "/artists/artist-1/bookings/" + b.ID + "/status", "completed", http.StatusConflict},
		{"missing booking", "/artists/artist-1/bookings/nope/status", "accepted", http.StatusNotFound},
		{"wrong artist scope", "/artists/artist-2/bookings/" + b.ID + "/status", "accepted", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, tt.target, changeStatusRequest{Status: tt.status})
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body)
			}
		})
	}

	got, err := f.repo.GetByID(t.Context(), "artist-1", b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != bookings.StatusPending {
		t.Errorf("Status = %s, failed requests must not move the booking", got.Status)
	}
}
