package server

import (
	"net/http"
	"net/http/pprof"
)

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /prever_politica", s.handlePolicy)
	mux.HandleFunc("POST /prever_emissao", s.handleEmission)

	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /models", s.handleModels)

	cfg := s.Config()
	if cfg.Metrics.Enabled && s.metrics != nil {
		mux.Handle("GET "+cfg.Metrics.Path, s.metrics.Handler())
	}

	if cfg.Server.Profiling.Enabled {
		s.setupProfilingRoutes(mux)
	}

	return mux
}

func (s *Server) setupProfilingRoutes(mux *http.ServeMux) {
	s.logger.Info("profiling endpoints enabled at /debug/pprof/")

	mux.HandleFunc("GET /debug/pprof/{$}", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("POST /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	mux.Handle("GET /debug/pprof/heap", pprof.Handler("heap"))
	mux.Handle("GET /debug/pprof/goroutine", pprof.Handler("goroutine"))
	mux.Handle("GET /debug/pprof/allocs", pprof.Handler("allocs"))
	mux.Handle("GET /debug/pprof/block", pprof.Handler("block"))
	mux.Handle("GET /debug/pprof/mutex", pprof.Handler("mutex"))
	mux.Handle("GET /debug/pprof/threadcreate", pprof.Handler("threadcreate"))
}
