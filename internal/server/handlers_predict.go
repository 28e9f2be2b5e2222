package server

import (
	"errors"
	"net/http"

	"github.com/globalsolution/ecoprev/internal/metrics"
	"github.com/globalsolution/ecoprev/internal/prediction"
	"github.com/globalsolution/ecoprev/internal/server/middleware"
)

const (
	endpointPolicy   = "politica"
	endpointEmission = "emissao"
)

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	payload, err := prediction.DecodePayload(r.Body)
	if err != nil {
		s.writeError(w, r, endpointPolicy, err)
		return
	}

	res, err := s.service.PredictPolicy(payload)
	if err != nil {
		s.writeError(w, r, endpointPolicy, err)
		return
	}

	s.metrics.ObservePrediction(endpointPolicy, metrics.OutcomeSuccess)
	s.metrics.ObserveClass(res.Label)
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEmission(w http.ResponseWriter, r *http.Request) {
	payload, err := prediction.DecodePayload(r.Body)
	if err != nil {
		s.writeError(w, r, endpointEmission, err)
		return
	}

	res, err := s.service.EstimateEmission(payload)
	if err != nil {
		s.writeError(w, r, endpointEmission, err)
		return
	}

	s.metrics.ObservePrediction(endpointEmission, metrics.OutcomeSuccess)
	s.writeJSON(w, http.StatusOK, res)
}

// statusForError maps pipeline errors to HTTP status codes.
func statusForError(err error) int {
	var (
		missing *prediction.MissingFieldError
		invalid *prediction.InvalidPayloadError
	)
	switch {
	case errors.As(err, &missing), errors.As(err, &invalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends {"erro": <message>} with the raw error text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	status := statusForError(err)
	requestID := middleware.GetRequestID(r.Context())

	if status >= http.StatusInternalServerError {
		s.metrics.ObservePrediction(endpoint, metrics.OutcomeServerError)

		attrs := []any{"endpoint", endpoint, "error", err, "request_id", requestID}
		var inv *prediction.ModelInvocationError
		if errors.As(err, &inv) {
			attrs = append(attrs, "model", inv.Model)
		}
		s.logger.Error("prediction failed", attrs...)

		s.tracker.CaptureError(r, err, map[string]string{
			"endpoint":   endpoint,
			"request_id": requestID,
		})
	} else {
		s.metrics.ObservePrediction(endpoint, metrics.OutcomeClientError)
		s.logger.Debug("prediction rejected",
			"endpoint", endpoint,
			"error", err,
			"request_id", requestID,
		)
	}

	s.writeJSON(w, status, prediction.ErrorResponse{Erro: err.Error()})
}
