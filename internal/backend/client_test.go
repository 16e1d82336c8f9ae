package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"openai":["gpt-4o"],"anthropic":["claude-3-haiku","claude-3-opus"]}`))
	}))
	defer server.Close()

	got, err := NewClient(server.URL+"/", time.Second).Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"openai":    {"gpt-4o"},
		"anthropic": {"claude-3-haiku", "claude-3-opus"},
	}, got)
}

func TestModelsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Models(context.Background())
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestChatSendsRequestShape(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"response":"Hi there"}`))
	}))
	defer server.Close()

	reply, err := NewClient(server.URL, time.Second).Chat(context.Background(), ChatRequest{
		Provider: "openai",
		Model:    "gpt-4o",
		Mode:     models.ModeDebug,
		APIKey:   "sk-test",
		Messages: []models.Message{models.UserMessage("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)

	assert.Equal(t, "openai", received["provider"])
	assert.Equal(t, "gpt-4o", received["model"])
	assert.Equal(t, "debug", received["mode"])
	assert.Equal(t, "sk-test", received["apiKey"])
	assert.Equal(t, []any{map[string]any{"role": "user", "content": "hello"}}, received["messages"])
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
		malformed  bool
	}{
		{name: "error string", status: 401, body: `{"error":"Invalid API key"}`, wantStatus: 401, wantMsg: "Invalid API key"},
		{name: "nested error", status: 500, body: `{"error":{"message":"upstream down"}}`, wantStatus: 500, wantMsg: "upstream down"},
		{name: "no body", status: 502, body: ``, wantStatus: 502},
		{name: "html body", status: 503, body: `<h1>Service Unavailable</h1>`, wantStatus: 503},
		{name: "missing response field", status: 200, body: `{"answer":"x"}`, malformed: true},
		{name: "non-string response", status: 200, body: `{"response":42}`, malformed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, time.Second).Chat(context.Background(), ChatRequest{})
			require.Error(t, err)

			if tc.malformed {
				require.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tc.wantMsg, apiErr.Message)
		})
	}
}

func TestChatTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "request failed")
}

func TestAPIErrorMessage(t *testing.T) {
	assert.Equal(t, "request failed with status code 404", (&APIError{StatusCode: 404}).Error())
	assert.Equal(t, "request failed with status code 401: Invalid API key",
		(&APIError{StatusCode: 401, Message: "Invalid API key"}).Error())
}
