package handler

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SecurityHeaders adds security response headers for a JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter provides per-client token-bucket rate limiting.
type RateLimiter struct {
	limit             rate.Limit
	burst             int
	trustedProxyCount int
	mu                sync.Mutex
	clients           map[string]*client
	done              chan struct{}
	closeOnce         sync.Once
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter allowing maxPerMinute requests per
// client, refilled evenly over the minute. trustedProxyCount is the number
// of reverse proxies in front of the server that append to X-Forwarded-For.
func NewRateLimiter(maxPerMinute, trustedProxyCount int) *RateLimiter {
	rl := &RateLimiter{
		limit:             rate.Every(time.Minute / time.Duration(maxPerMinute)),
		burst:             maxPerMinute,
		trustedProxyCount: trustedProxyCount,
		clients:           make(map[string]*client),
		done:              make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Close stops the background cleanup.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

// cleanupLoop periodically drops clients idle for more than a window.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.sweep(now.Add(-time.Minute))
		}
	}
}

func (rl *RateLimiter) sweep(idleBefore time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if c.lastSeen.Before(idleBefore) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *RateLimiter) limiter(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Middleware returns an http.Handler that enforces rate limits.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		res := rl.limiter(rl.clientIP(r), now).ReserveN(now, 1)
		if delay := res.DelayFrom(now); !res.OK() || delay > 0 {
			res.CancelAt(now)
			rateLimitedTotal.Inc()
			w.Header().Set("Retry-After", retryAfterSeconds(delay))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP extracts the real client IP, reading from the rightmost trusted
// proxy position in X-Forwarded-For to prevent spoofing.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		idx := len(parts) - rl.trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
