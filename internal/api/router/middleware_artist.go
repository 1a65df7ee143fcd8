package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/salonbook/internal/scope"
)

const artistHeader = "X-Artist-Id"

// requireArtistID puts the artist scope on the request context. The route
// parameter wins; the header is the fallback for routes mounted outside
// /artists/{artistID}.
func requireArtistID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		artistID := strings.TrimSpace(chi.URLParam(r, "artistID"))
		if artistID == "" {
			artistID = strings.TrimSpace(r.Header.Get(artistHeader))
		}
		if artistID == "" {
			http.Error(w, "missing X-Artist-Id", http.StatusBadRequest)
			return
		}
		ctx := scope.WithArtistID(r.Context(), artistID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
