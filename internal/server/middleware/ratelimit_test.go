package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := NewRateLimiter(RateLimitConfig{Enabled: false}).Middleware()(okHandler())

	for i := 0; i < 100; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		if w.Code != http.StatusOK {
			t.Errorf("request %d: expected status 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimit_RejectsExcessRequests(t *testing.T) {
	config := &RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		Burst:             2,
	}

	handler := NewRateLimiter(*config).Middleware()(okHandler())

	// Use all burst tokens
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		if w.Code != http.StatusOK {
			t.Errorf("burst request %d: expected status 200, got %d", i, w.Code)
		}
	}

	// Next request should be rate limited
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error, got %q", ct)
	}
}

func TestRateLimiter_Update(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1})
	handler := l.Middleware()(okHandler())

	serve := func() int {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	if serve() != http.StatusOK {
		t.Fatal("first request should pass")
	}
	if serve() != http.StatusTooManyRequests {
		t.Fatal("second request should be limited")
	}

	l.Update(RateLimitConfig{Enabled: false})
	for i := 0; i < 10; i++ {
		if code := serve(); code != http.StatusOK {
			t.Fatalf("request %d after disabling: got %d", i, code)
		}
	}

	l.Update(RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 3})
	if got := l.Config().Burst; got != 3 {
		t.Errorf("expected burst 3, got %d", got)
	}
	for i := 0; i < 3; i++ {
		if code := serve(); code != http.StatusOK {
			t.Errorf("request %d within new burst: got %d", i, code)
		}
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{Enabled: true, PerIP: true, RequestsPerSecond: 1, Burst: 1})
	handler := l.Middleware()(okHandler())

	serve := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	if serve("10.0.0.1:1234") != http.StatusOK {
		t.Error("first client should pass")
	}
	if serve("10.0.0.1:5678") != http.StatusTooManyRequests {
		t.Error("same client on another port should share a bucket")
	}
	if serve("10.0.0.2:1234") != http.StatusOK {
		t.Error("second client should have its own bucket")
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{Enabled: true, PerIP: true, RequestsPerSecond: 1000, Burst: 1000})
	handler := l.Middleware()(okHandler())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = fmt.Sprintf("10.0.%d.%d:80", id/256, id%256)
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}(i)
	}
	wg.Wait()

	if got := l.clientCount(); got != 50 {
		t.Errorf("expected 50 tracked clients, got %d", got)
	}
}

func TestRateLimiter_EvictOldest(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{Enabled: true, PerIP: true, RequestsPerSecond: 1, Burst: 1})

	for i := 0; i < maxClients+5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = fmt.Sprintf("10.%d.%d.%d:80", i/65536, (i/256)%256, i%256)
		l.Allow(req)
	}

	if got := l.clientCount(); got != maxClients {
		t.Errorf("expected table capped at %d, got %d", maxClients, got)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"remote addr", "", "", "192.168.1.1:12345", "192.168.1.1"},
		{"x-forwarded-for", "203.0.113.5", "", "10.0.0.1:80", "203.0.113.5"},
		{"x-forwarded-for chain", "203.0.113.5, 70.41.3.18", "", "10.0.0.1:80", "203.0.113.5"},
		{"x-real-ip", "", "198.51.100.7", "10.0.0.1:80", "198.51.100.7"},
		{"no port", "", "", "192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
