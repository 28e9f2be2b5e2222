package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// chunked hides the length so the limit is enforced on read.
type chunked struct{ io.Reader }

func TestMaxBody(t *testing.T) {
	const limit = 100

	handler := MaxBody(limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		method   string
		size     int
		chunked  bool
		expected int
	}{
		{"within limit", http.MethodPost, 50, false, http.StatusOK},
		{"at limit", http.MethodPost, 100, false, http.StatusOK},
		{"declared over limit", http.MethodPost, 101, false, http.StatusBadRequest},
		{"chunked over limit", http.MethodPost, 101, true, http.StatusRequestEntityTooLarge},
		{"GET body also limited", http.MethodGet, 500, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(strings.Repeat("x", tt.size))
			if tt.chunked {
				body = chunked{body}
			}
			req := httptest.NewRequest(tt.method, "/", body)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestMaxBody_RejectionBody(t *testing.T) {
	handler := MaxBody(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/prever_emissao", strings.NewReader(`{"Year":2021}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var resp struct {
		Erro string `json:"erro"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !strings.HasPrefix(resp.Erro, "Corpo da requisição inválido") {
		t.Errorf("unexpected message %q", resp.Erro)
	}
}

func TestMaxBody_DefaultLimit(t *testing.T) {
	var readErr error
	handler := MaxBody(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	body := chunked{strings.NewReader(strings.Repeat("x", MaxBodySize+1))}
	req := httptest.NewRequest(http.MethodPost, "/", body)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Error("expected error reading body over the default limit")
	}
}
