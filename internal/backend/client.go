// Package backend is the HTTP client for the CodeWizard backend, which
// proxies chat requests to the LLM providers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultURL     = "http://127.0.0.1:8000"
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// ErrMalformedResponse is returned when a 2xx body does not have the expected shape.
var ErrMalformedResponse = errors.New("malformed response from backend")

// APIError is a non-2xx answer from the backend. Message holds the body's
// "error" field when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Provider string           `json:"provider"`
	Model    string           `json:"model"`
	Mode     models.Mode      `json:"mode"`
	APIKey   string           `json:"apiKey"`
	Messages []models.Message `json:"messages"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Models fetches GET /api/models.
func (c *Client) Models(ctx context.Context) (map[string][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var catalog map[string][]string
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return catalog, nil
}

// Chat sends one chat round trip and returns the assistant reply text.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (string, error) {
	bodyBytes, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	reply := gjson.GetBytes(body, "response")
	if !gjson.ValidBytes(body) || reply.Type != gjson.String {
		return "", ErrMalformedResponse
	}
	return reply.Str, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	logrus.WithFields(logrus.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("backend request")

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage pulls the error text out of a failure body. It accepts both
// {"error": "text"} and the nested {"error": {"message": "text"}} shape.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	field := gjson.GetBytes(body, "error")
	switch {
	case field.Type == gjson.String:
		return strings.TrimSpace(field.Str)
	case field.IsObject():
		return strings.TrimSpace(field.Get("message").String())
	}
	return ""
}
