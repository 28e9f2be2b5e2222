package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/globalsolution/ecoprev/internal/prediction"
)

// Client is an HTTP client for the ecoprev API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new API client
func NewClient() *Client {
	return &Client{
		baseURL: GetServerURL(),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Get performs a GET request
func (c *Client) Get(path string) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	return c.do(req)
}

// Post performs a POST request with JSON body
func (c *Client) Post(path string, body any) ([]byte, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return data, resp.StatusCode, nil
}

// Predict posts a payload to a prediction endpoint and returns the raw 200
// body. Non-200 responses become errors carrying the server's message.
func (c *Client) Predict(path string, payload map[string]any) ([]byte, error) {
	data, status, err := c.Post(path, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		var e prediction.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Erro != "" {
			return nil, fmt.Errorf("server returned status %d: %w", status, errors.New(e.Erro))
		}
		return nil, fmt.Errorf("server returned status %d: %s", status, string(data))
	}
	return data, nil
}

// Health checks if server is running
func (c *Client) Health() error {
	_, status, err := c.Get("/health")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d", status)
	}
	return nil
}
