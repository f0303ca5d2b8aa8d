package api

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/BaselBoulos/la-maison-privee/config"
)

// RateLimiter hands out one token bucket per client address
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	every    time.Duration
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows burst requests per client, refilled one every interval
func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		every:    every,
		burst:    burst,
	}
}

// Allow reports whether the client identified by key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(rl.every), rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now

	// drop clients idle for an hour
	if len(rl.limiters) > 1024 {
		for k, other := range rl.limiters {
			if now.Sub(other.lastSeen) > time.Hour {
				delete(rl.limiters, k)
			}
		}
	}
	return v.limiter.Allow()
}

// Middleware answers 429 once a client runs out of tokens
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			config.ErrorStatus("too many requests", http.StatusTooManyRequests, w, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
