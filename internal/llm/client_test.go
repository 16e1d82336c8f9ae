package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
	"id": "chatcmpl-test",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "  Check the nil map.  "},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestGenerateSendsSystemPromptAndHistory(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer server.Close()

	gen, err := New(models.ProviderOpenAI, "gpt-4o", "sk-test",
		option.WithBaseURL(server.URL+"/v1/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	reply, err := gen.Generate(context.Background(), "be helpful", []models.Message{
		models.UserMessage("why does this panic?"),
		models.AssistantMessage("show me the code"),
		models.UserMessage("m[k] = v"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Check the nil map.", reply)

	assert.Equal(t, "gpt-4o", received["model"])
	assert.Equal(t, 0.3, received["temperature"])
	msgs, ok := received["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])
}

func TestGenerateUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	gen, err := New(models.ProviderAnthropic, "claude-3-haiku", "sk-bad",
		option.WithBaseURL(server.URL+"/v1/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "p", []models.Message{models.UserMessage("hi")})
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestNewUnsupportedProvider(t *testing.T) {
	_, err := New("cohere", "command-r", "key")
	require.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Contains(t, err.Error(), "cohere")
}

func TestSystemPromptCoversEveryMode(t *testing.T) {
	for _, mode := range models.Modes {
		prompt, ok := SystemPrompt(mode)
		assert.True(t, ok, mode)
		assert.Contains(t, prompt, "CodeWizard")
	}
	_, ok := SystemPrompt("poetry")
	assert.False(t, ok)
}
