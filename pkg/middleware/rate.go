// Package middleware provides the HTTP middleware chain: authentication,
// request logging, CORS, rate limiting, and panic recovery.
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// limiter counts requests per client over a fixed window.
type limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	counts  map[string]int
	resetAt time.Time
}

func newLimiter(max int, window time.Duration) *limiter {
	l := &limiter{
		max:     max,
		window:  window,
		counts:  map[string]int{},
		resetAt: time.Now().Add(window),
	}
	return l
}

// allow increments the client's count, rolling the whole window over when
// it expires. Returns false and the seconds until reset when over limit.
func (l *limiter) allow(client string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.resetAt) {
		l.counts = map[string]int{}
		l.resetAt = now.Add(l.window)
	}

	l.counts[client]++
	if l.counts[client] > l.max {
		return false, int(time.Until(l.resetAt).Seconds()) + 1
	}
	return true, 0
}

// clientKey picks the client identity: the first X-Forwarded-For hop when
// present, otherwise the remote IP without its port.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit limits each client to max requests per window. Each call
// creates an independent limiter, so different route groups can carry
// different budgets.
//
//	r.Use(middleware.RateLimit(300, time.Minute))
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := l.allow(clientKey(r))
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"status":429,"message":"Too Many Requests"}`)) //nolint:errcheck
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
