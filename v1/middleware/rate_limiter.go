package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	authutils "github.com/legalese-navigator/portal-backend/v1/utils"
)

// RateLimiter implements a simple in-memory rate limiter
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.RWMutex
	maxReqs  int
	window   time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		maxReqs:  maxRequests,
		window:   window,
	}
}

// IsAllowed checks if a request from the given IP is allowed
func (rl *RateLimiter) IsAllowed(clientIP string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()

	requests := rl.requests[clientIP]

	// Remove old requests outside the window
	var validRequests []time.Time
	for _, reqTime := range requests {
		if now.Sub(reqTime) < rl.window {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) >= rl.maxReqs {
		slog.Warn("Rate limit exceeded", "ip", clientIP, "requests", len(validRequests), "limit", rl.maxReqs)
		return false
	}

	validRequests = append(validRequests, now)
	rl.requests[clientIP] = validRequests

	return true
}

// sweep drops IPs whose requests have all aged out of the window, keeping
// the map bounded by active-client cardinality rather than total unique
// clients seen
func (rl *RateLimiter) sweep() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	for ip, requests := range rl.requests {
		active := false
		for _, reqTime := range requests {
			if now.Sub(reqTime) < rl.window {
				active = true
				break
			}
		}
		if !active {
			delete(rl.requests, ip)
		}
	}
}

// startSweeping evicts idle IPs periodically until the returned stop
// function is called
func (rl *RateLimiter) startSweeping(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				rl.sweep()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}

// RateLimitMiddleware creates a rate limiting middleware
func RateLimitMiddleware(maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(maxRequests, window)
	limiter.startSweeping(window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := authutils.GetRequestIP(r)

			if !limiter.IsAllowed(clientIP) {
				slog.Warn("Rate limit exceeded", "ip", clientIP, "path", r.URL.Path)
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
