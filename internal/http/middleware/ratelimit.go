package middleware

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once the shared token bucket of
// requestsPerSecond, refilled up to burst, is empty. A non-positive rate
// disables the limit.
func RateLimit(requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	retryAfter := strconv.Itoa(max(1, int(1/requestsPerSecond)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", retryAfter)
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"detail":"request was throttled"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
