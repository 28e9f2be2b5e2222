package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/globalsolution/ecoprev/internal/monitor"
	"github.com/globalsolution/ecoprev/internal/prediction"
	"github.com/globalsolution/ecoprev/internal/storage"
)

type InfoResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type StatusResponse struct {
	Version string                `json:"version"`
	Ready   bool                  `json:"ready"`
	Runtime *monitor.RuntimeState `json:"runtime,omitempty"`
}

type ModelsResponse struct {
	Models []storage.ModelInfo `json:"models"`
	Labels []string            `json:"labels"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	resp := InfoResponse{
		Name:    "ecoprev",
		Version: s.version,
		Endpoints: []string{
			"POST /prever_politica",
			"POST /prever_emissao",
		},
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.service.Ready() {
		s.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "not ready"})
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Version: s.version,
		Ready:   s.service.Ready(),
	}
	if s.aggregator != nil {
		resp.Runtime = s.aggregator.GetState()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models := s.models
	if models == nil {
		models = []storage.ModelInfo{}
	}
	s.writeJSON(w, http.StatusOK, ModelsResponse{
		Models: models,
		Labels: prediction.Labels(),
	})
}

// writeJSON encodes data before sending the status line, so an encoding
// failure still produces a 500 {"erro": ...} body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
		buf.Reset()
		json.NewEncoder(&buf).Encode(prediction.ErrorResponse{Erro: err.Error()})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}
