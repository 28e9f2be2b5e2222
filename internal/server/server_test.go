package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/globalsolution/ecoprev/internal/config"
	"github.com/globalsolution/ecoprev/internal/metrics"
	"github.com/globalsolution/ecoprev/internal/prediction"
	"github.com/globalsolution/ecoprev/internal/server/middleware"
)

func TestServer_Integration(t *testing.T) {
	srv := testServer(t)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	t.Run("POST /prever_emissao", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/prever_emissao", "application/json", strings.NewReader(emissionBody))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}
		if resp.Header.Get(middleware.RequestIDHeader) == "" {
			t.Error("expected request id header")
		}

		var result prediction.EmissionResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if result.Full != 12.5 || result.Zero != 77.5 || result.Diff != 65 {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("POST /prever_politica missing field", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/prever_politica", "application/json", strings.NewReader(`{"Year":2020}`))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", resp.StatusCode)
		}

		var body prediction.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if body.Erro != "Campo obrigatório 'Solar (terawatt-hours)' não encontrado" {
			t.Errorf("unexpected error %q", body.Erro)
		}
	})

	t.Run("GET /unknown", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/unknown")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", resp.StatusCode)
		}
	})
}

func TestServer_Metrics(t *testing.T) {
	srv := testServer(t)

	do(t, srv, http.MethodPost, "/prever_politica", policyBody)
	do(t, srv, http.MethodPost, "/prever_emissao", `{}`)

	w := do(t, srv, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`ecoprev_predictions_total{endpoint="politica",outcome="success"} 1`,
		`ecoprev_predictions_total{endpoint="emissao",outcome="client_error"} 1`,
		`ecoprev_policy_class_total{label="Alto"} 1`,
		`ecoprev_model_info{model="policy",type="forest"} 1`,
		`route="POST /prever_politica"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %s", want)
		}
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = false

	srv := newTestServer(t, testOptions{cfg: cfg, metrics: metrics.New()})
	w := do(t, srv, http.MethodGet, "/metrics", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestServer_Profiling(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Profiling.Enabled = true

	srv := newTestServer(t, testOptions{cfg: cfg})
	w := do(t, srv, http.MethodGet, "/debug/pprof/", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	srv = newTestServer(t, testOptions{})
	w = do(t, srv, http.MethodGet, "/debug/pprof/", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 with profiling disabled, got %d", w.Code)
	}
}

func TestServer_RateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RequestsPerSecond = 1
	cfg.Server.RateLimit.Burst = 1

	srv := newTestServer(t, testOptions{cfg: cfg})

	if w := do(t, srv, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", w.Code)
	}
	if w := do(t, srv, http.MethodGet, "/health", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", w.Code)
	}
}

func TestServer_ReloadConfig(t *testing.T) {
	cfg := config.Default()
	level := new(slog.LevelVar)

	srv := New(cfg, Deps{
		Service:  prediction.NewService(nil, nil),
		LogLevel: level,
	}, testLogger(), "test")

	updated := config.Default()
	updated.Logging.Level = "debug"
	updated.Server.RateLimit.Enabled = true
	updated.Server.RateLimit.RequestsPerSecond = 5
	updated.Server.RateLimit.Burst = 10

	srv.ReloadConfig(updated)

	if level.Level() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", level.Level())
	}

	rl := srv.rateLimiter.Config()
	if !rl.Enabled || rl.RequestsPerSecond != 5 || rl.Burst != 10 {
		t.Errorf("rate limiter not updated: %+v", rl)
	}
	if srv.Config() != updated {
		t.Error("expected active config to be replaced")
	}
}

func TestServer_Addr(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8085

	srv := New(cfg, Deps{Service: prediction.NewService(nil, nil)}, testLogger(), "test")

	if srv.Addr() != "127.0.0.1:8085" {
		t.Errorf("expected addr 127.0.0.1:8085, got %s", srv.Addr())
	}
	if srv.httpServer.ReadTimeout != cfg.ReadTimeout() {
		t.Errorf("expected read timeout %v, got %v", cfg.ReadTimeout(), srv.httpServer.ReadTimeout)
	}
}

func TestServer_StartShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	srv := New(cfg, Deps{Service: prediction.NewService(nil, nil)}, testLogger(), "test")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_PanicRecovered(t *testing.T) {
	srv := testServer(t)

	// Route a panicking handler through the same middleware chain.
	h := middleware.Chain(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
		middleware.Recovery(testLogger(), srv.tracker),
	)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/prever_politica", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), "boom") {
		t.Errorf("expected panic message in body, got %s", body)
	}
}
