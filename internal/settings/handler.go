package settings

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/salonbook/internal/calendar"
	"github.com/glowdesk/salonbook/internal/dates"
	"github.com/glowdesk/salonbook/internal/scope"
	"github.com/glowdesk/salonbook/pkg/logging"
)

// Handler handles HTTP requests for artist preferences
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new settings handler
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Routes mounts the settings endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.PutSettings)
}

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	artistID, ok := scope.ArtistIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing artist context", http.StatusBadRequest)
		return
	}

	prefs, err := h.store.Get(r.Context(), artistID)
	if err != nil {
		h.logger.Error("failed to load preferences", "error", err, "artist_id", artistID)
		http.Error(w, "failed to load preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

// PutSettings handles PUT /settings.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	artistID, ok := scope.ArtistIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing artist context", http.StatusBadRequest)
		return
	}

	var prefs Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	prefs.ArtistID = artistID

	if err := validate(&prefs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.Set(r.Context(), &prefs); err != nil {
		h.logger.Error("failed to save preferences", "error", err, "artist_id", artistID)
		http.Error(w, "failed to save preferences", http.StatusInternalServerError)
		return
	}

	h.logger.Info("preferences saved", "artist_id", artistID, "default_view", prefs.DefaultView)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&prefs)
}

func validate(prefs *Preferences) error {
	if prefs.DefaultView != "" {
		if _, err := calendar.ParseViewType(prefs.DefaultView); err != nil {
			return err
		}
	}
	if prefs.Timezone != "" {
		if _, err := time.LoadLocation(prefs.Timezone); err != nil {
			return err
		}
	}
	for _, day := range []*DayHours{
		prefs.Hours.Sunday, prefs.Hours.Monday, prefs.Hours.Tuesday,
		prefs.Hours.Wednesday, prefs.Hours.Thursday, prefs.Hours.Friday,
		prefs.Hours.Saturday,
	} {
		if day == nil {
			continue
		}
		if _, err := dates.ParseClock(day.Open); err != nil {
			return err
		}
		if _, err := dates.ParseClock(day.Close); err != nil {
			return err
		}
	}
	return nil
}
