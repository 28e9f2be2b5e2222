package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
)

// Metrics owns a registry so tests and multiple servers do not collide.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	predictions *prometheus.CounterVec
	classes     *prometheus.CounterVec
	modelInfo   *prometheus.GaugeVec
}

// New creates the collectors and registers them with Go and process metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecoprev_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ecoprev_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"route"},
		),

		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecoprev_predictions_total",
				Help: "Total number of prediction requests by outcome",
			},
			[]string{"endpoint", "outcome"}, // outcome: success|client_error|server_error
		),

		classes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecoprev_policy_class_total",
				Help: "Predicted policy levels",
			},
			[]string{"label"},
		),

		modelInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ecoprev_model_info",
				Help: "Loaded model artifacts",
			},
			[]string{"model", "type"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.predictions,
		m.classes,
		m.modelInfo,
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObservePrediction(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) ObserveClass(label string) {
	if m == nil {
		return
	}
	m.classes.WithLabelValues(label).Inc()
}

// SetModelInfo marks a loaded artifact.
func (m *Metrics) SetModelInfo(model, typ string) {
	if m == nil {
		return
	}
	m.modelInfo.WithLabelValues(model, typ).Set(1)
}
