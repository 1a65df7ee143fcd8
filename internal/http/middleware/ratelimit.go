package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter throttles callers per client IP with a token bucket. Booking
// pages poll the calendar, so the burst should cover a full page load.
type RateLimiter struct {
	rate  float64
	burst float64

	mu      sync.Mutex
	clients map[string]*tokenBucket
}

type tokenBucket struct {
	tokens   float64
	refilled time.Time
}

// NewRateLimiter allows rate requests/sec with the given burst per IP.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:    rate,
		burst:   float64(burst),
		clients: make(map[string]*tokenBucket),
	}
	go rl.evictIdle()
	return rl
}

// Allow reports whether a request from ip fits within the limit.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b := rl.clients[ip]
	if b == nil {
		b = &tokenBucket{tokens: rl.burst, refilled: now}
		rl.clients[ip] = b
	} else {
		b.tokens += now.Sub(b.refilled).Seconds() * rl.rate
		if b.tokens > rl.burst {
			b.tokens = rl.burst
		}
		b.refilled = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// evictIdle drops buckets that have not been touched for a while so the map
// does not grow with every IP that ever hit the API.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)
		rl.mu.Lock()
		for ip, b := range rl.clients {
			if b.refilled.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit rejects mutating requests over the configured rate with 429.
// Reads pass through untouched; the calendar views poll and must not be
// throttled.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			// chi's RealIP middleware rewrites RemoteAddr, but keep the
			// header fallback for setups that skip it.
			ip := r.Header.Get("X-Real-Ip")
			if ip == "" {
				ip = r.RemoteAddr
			}
			if !limiter.Allow(ip) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
