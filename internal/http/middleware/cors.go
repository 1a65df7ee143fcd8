package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowedHeaders = "Authorization, Content-Type, X-Artist-Id"
	corsAllowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsMaxAge         = "600"
)

// CORS allows browser calls from the configured origins. An entry of "*"
// echoes back any Origin, which the local dev frontend relies on.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			allowAny = true
		default:
			allowed[origin] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" {
				_, ok := allowed[origin]
				if allowAny || ok {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
					h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
					h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
					h.Set("Access-Control-Max-Age", corsMaxAge)
				}
			}

			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
