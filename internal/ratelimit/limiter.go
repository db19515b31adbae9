// Package ratelimit provides per-IP rate limiting for the dashboard API.
package ratelimit

import (
	"net/http"
	"sync"

	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	"golang.org/x/time/rate"
)

// maxTrackedIPs caps the limiter map so many unique source addresses
// cannot exhaust memory.
const maxTrackedIPs = 10000

type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	enabled  bool
}

func NewLimiter(conf *structures.Config) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(conf.RateLimit.RequestsPerSecond),
		burst:    conf.RateLimit.Burst,
		enabled:  conf.RateLimit.Enabled,
	}
}

// Allow reports whether a request from ip may proceed. New IPs are
// rejected once the tracking map is full.
func (l *Limiter) Allow(ip string) bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	limiter, exists := l.limiters[ip]
	if !exists {
		if len(l.limiters) >= maxTrackedIPs {
			l.mu.Unlock()
			return false
		}
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[ip] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Prune drops limiters that have regained their full burst, meaning the
// IP has been idle. Called periodically by the scheduler.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, limiter := range l.limiters {
		if limiter.Tokens() >= float64(l.burst) {
			delete(l.limiters, ip)
		}
	}
}

// Middleware rejects rate-limited requests with 429. ipFn extracts the
// client address from the request.
func Middleware(l *Limiter, ipFn func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ipFn(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
