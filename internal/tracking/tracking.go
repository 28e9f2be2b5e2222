package tracking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds Sentry settings.
type Config struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
}

// Tracker reports errors to Sentry. A nil *Tracker is valid and reports nothing.
type Tracker struct {
	hub *sentry.Hub
}

// New initializes the Sentry client. An empty DSN returns a nil tracker.
func New(cfg Config) (*Tracker, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		SampleRate:  cfg.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return &Tracker{
		hub: sentry.CurrentHub(),
	}, nil
}

// CaptureError sends err with the request's method, path and id as tags.
func (t *Tracker) CaptureError(r *http.Request, err error, tags map[string]string) {
	if t == nil || err == nil {
		return
	}

	hub := t.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		if r != nil {
			scope.SetRequest(r)
			scope.SetTag("method", r.Method)
			scope.SetTag("path", r.URL.Path)
		}
		for k, v := range tags {
			scope.SetTag(k, v)
		}
	})
	hub.CaptureException(err)
}

// Recover reports a recovered panic value.
func (t *Tracker) Recover(r *http.Request, v any) {
	if t == nil {
		return
	}

	hub := t.hub.Clone()
	if r != nil {
		hub.Scope().SetRequest(r)
	}
	hub.Recover(v)
}

// Flush waits up to timeout for buffered events.
func (t *Tracker) Flush(timeout time.Duration) bool {
	if t == nil {
		return true
	}
	return sentry.Flush(timeout)
}
