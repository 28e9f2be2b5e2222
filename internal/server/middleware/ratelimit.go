package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the rate limit (requests per second).
	RequestsPerSecond float64
	// Burst is the maximum burst size.
	Burst int
	// Enabled controls whether rate limiting is active.
	Enabled bool
	// PerIP gives every client address its own bucket.
	PerIP bool
}

// maxClients bounds the per-IP table; the least recently seen entry is evicted.
const maxClients = 10000

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket whose settings can be replaced at runtime.
type RateLimiter struct {
	mu      sync.Mutex
	config  RateLimitConfig
	global  *rate.Limiter
	clients map[string]*clientLimiter
}

// NewRateLimiter creates a limiter with the given settings.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	l := &RateLimiter{}
	l.Update(config)
	return l
}

// Update replaces the settings and resets all buckets.
func (l *RateLimiter) Update(config RateLimitConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.config = config
	l.global = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
	l.clients = make(map[string]*clientLimiter)
}

// Config returns the current settings.
func (l *RateLimiter) Config() RateLimitConfig {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.config
}

// Allow reports whether r may proceed.
func (l *RateLimiter) Allow(r *http.Request) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.config.Enabled {
		return true
	}
	if !l.config.PerIP {
		return l.global.Allow()
	}
	return l.clientLocked(getClientIP(r)).Allow()
}

func (l *RateLimiter) clientLocked(ip string) *rate.Limiter {
	now := time.Now()

	c, exists := l.clients[ip]
	if !exists {
		if len(l.clients) >= maxClients {
			l.evictOldestLocked()
		}
		c = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst),
		}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (l *RateLimiter) evictOldestLocked() {
	var (
		oldestIP   string
		oldestTime time.Time
	)
	for ip, c := range l.clients {
		if oldestIP == "" || c.lastSeen.Before(oldestTime) {
			oldestIP = ip
			oldestTime = c.lastSeen
		}
	}
	delete(l.clients, oldestIP)
}

func (l *RateLimiter) clientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r) {
				writeError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// First hop of X-Forwarded-For is the original client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
