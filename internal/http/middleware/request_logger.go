package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowdesk/salonbook/pkg/logging"
)

// LatencyObserver records how long a request took on a route. A nil
// observer disables recording.
type LatencyObserver interface {
	ObserveRequestLatency(route string, seconds float64)
}

// RequestLogger emits structured logs for every HTTP request and feeds the
// latency histogram.
func RequestLogger(logger *logging.Logger, observer LatencyObserver) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			logger.Info("request started",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
			)
			next.ServeHTTP(w, r)
			elapsed := time.Since(start)
			if observer != nil {
				observer.ObserveRequestLatency(routeLabel(r), elapsed.Seconds())
			}
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
				"duration_ms", elapsed.Milliseconds(),
			)
		})
	}
}

// routeLabel keeps the metric label bounded: the chi route pattern collapses
// path params like booking ids into one series per route. Read after the
// handler runs so the pattern is fully resolved.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
