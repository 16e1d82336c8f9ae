package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KpathaK21/CodeWizard/internal/backend"
	"github.com/KpathaK21/CodeWizard/internal/catalog"
	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredentials map[string]string

func (f fakeCredentials) Get(provider string) string { return f[provider] }

func (f fakeCredentials) IsAvailable(provider string) bool {
	return strings.TrimSpace(f[provider]) != ""
}

type fakeChatter struct {
	calls    []backend.ChatRequest
	response string
	err      error
	// seen records the transcript length observed while the request is in flight.
	seen    func() int
	seenLen []int
}

func (f *fakeChatter) Chat(_ context.Context, req backend.ChatRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.seen != nil {
		f.seenLen = append(f.seenLen, f.seen())
	}
	return f.response, f.err
}

func newTestSession(creds fakeCredentials, chatter *fakeChatter) *Session {
	initial := Config{Mode: models.ModeDebug, Provider: models.ProviderOpenAI, Model: "gpt-4o"}
	return New(initial, creds, catalog.New(), chatter)
}

func TestSubmitWithoutCredentialIsGated(t *testing.T) {
	chatter := &fakeChatter{}
	s := newTestSession(fakeCredentials{}, chatter)

	_, err := s.Dispatch(context.Background(), "fix this bug")

	require.ErrorIs(t, err, ErrCredentialRequired)
	assert.Empty(t, s.Transcript())
	assert.Empty(t, chatter.calls)
	assert.False(t, s.Busy())
}

func TestSubmitEmptyInputIsNoop(t *testing.T) {
	for _, input := range []string{"", " ", "\n\t  ", "\r\n"} {
		t.Run("input "+strings.ReplaceAll(input, "\n", `\n`), func(t *testing.T) {
			chatter := &fakeChatter{}
			s := newTestSession(fakeCredentials{"openai": "sk-test"}, chatter)

			_, err := s.Dispatch(context.Background(), input)

			require.ErrorIs(t, err, ErrEmptyInput)
			assert.Empty(t, s.Transcript())
			assert.Empty(t, chatter.calls)
		})
	}
}

func TestDispatchSuccess(t *testing.T) {
	chatter := &fakeChatter{response: "Hi there"}
	s := newTestSession(fakeCredentials{"openai": "sk-test"}, chatter)

	reply, err := s.Dispatch(context.Background(), "hello")

	require.NoError(t, err)
	assert.False(t, reply.Failed)
	assert.False(t, reply.PromptCredentials)
	assert.Equal(t, []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "Hi there"},
	}, s.Transcript())
	assert.False(t, s.Busy())
}

func TestDispatchSendsSnapshotOfSession(t *testing.T) {
	chatter := &fakeChatter{response: "ok"}
	creds := fakeCredentials{"openai": "sk-openai", "anthropic": "sk-ant"}
	s := newTestSession(creds, chatter)
	require.NoError(t, s.SetMode(models.ModeArchitect))

	_, err := s.Dispatch(context.Background(), "  first  ")
	require.NoError(t, err)
	s.SetProvider(models.ProviderAnthropic)
	_, err = s.Dispatch(context.Background(), "second")
	require.NoError(t, err)

	require.Len(t, chatter.calls, 2)
	first := chatter.calls[0]
	assert.Equal(t, "openai", first.Provider)
	assert.Equal(t, "gpt-4o", first.Model)
	assert.Equal(t, models.ModeArchitect, first.Mode)
	assert.Equal(t, "sk-openai", first.APIKey)
	assert.Equal(t, []models.Message{models.UserMessage("first")}, first.Messages)

	second := chatter.calls[1]
	assert.Equal(t, "anthropic", second.Provider)
	assert.Equal(t, "claude-3-opus", second.Model)
	assert.Equal(t, "sk-ant", second.APIKey)
	assert.Equal(t, []models.Message{
		models.UserMessage("first"),
		models.AssistantMessage("ok"),
		models.UserMessage("second"),
	}, second.Messages)
}

func TestUserMessageAppendedBeforeSend(t *testing.T) {
	chatter := &fakeChatter{response: "pong"}
	s := newTestSession(fakeCredentials{"openai": "sk"}, chatter)
	chatter.seen = func() int { return len(s.Transcript()) }

	_, err := s.Dispatch(context.Background(), "ping")
	require.NoError(t, err)

	assert.Equal(t, []int{1}, chatter.seenLen)
	assert.Len(t, s.Transcript(), 2)
}

func TestSubmitWhileBusy(t *testing.T) {
	chatter := &fakeChatter{response: "done"}
	s := newTestSession(fakeCredentials{"openai": "sk"}, chatter)

	pending, err := s.Submit("one")
	require.NoError(t, err)
	require.True(t, s.Busy())

	_, err = s.Submit("two")
	require.ErrorIs(t, err, ErrBusy)
	assert.Len(t, s.Transcript(), 1)

	s.Complete(s.Send(context.Background(), pending))
	assert.False(t, s.Busy())

	_, err = s.Submit("two")
	require.NoError(t, err)
	assert.Len(t, s.Transcript(), 3)
}

func TestDispatchUnauthorized(t *testing.T) {
	chatter := &fakeChatter{err: &backend.APIError{StatusCode: 401, Message: "Invalid API key"}}
	s := newTestSession(fakeCredentials{"openai": "sk-bad"}, chatter)

	reply, err := s.Dispatch(context.Background(), "hello")

	require.NoError(t, err)
	assert.True(t, reply.Failed)
	assert.True(t, reply.PromptCredentials)
	msgs := s.Transcript()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Invalid API key")
	assert.True(t, strings.HasPrefix(msgs[1].Content, ErrorPrefix))
	assert.False(t, s.Busy())
}

func TestDispatchFailureDetail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantDetail string
		wantPrompt bool
	}{
		{
			name:       "structured error field",
			err:        &backend.APIError{StatusCode: 500, Message: "model overloaded"},
			wantDetail: "model overloaded",
		},
		{
			name:       "status without body",
			err:        &backend.APIError{StatusCode: 502},
			wantDetail: "request failed with status code 502",
		},
		{
			name:       "unauthorized without body",
			err:        &backend.APIError{StatusCode: 401},
			wantDetail: "request failed with status code 401",
			wantPrompt: true,
		},
		{
			name:       "transport error",
			err:        errors.New("request failed: dial tcp: connection refused"),
			wantDetail: "request failed: dial tcp: connection refused",
		},
		{
			name:       "transport error mentioning key",
			err:        errors.New("missing API key header"),
			wantDetail: "missing API key header",
			wantPrompt: true,
		},
		{
			name:       "malformed payload",
			err:        backend.ErrMalformedResponse,
			wantDetail: "malformed response from backend",
		},
		{
			name:       "empty error text",
			err:        errors.New(""),
			wantDetail: UnknownErrText,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(fakeCredentials{"openai": "sk"}, &fakeChatter{err: tc.err})

			reply, err := s.Dispatch(context.Background(), "hi")

			require.NoError(t, err)
			assert.Equal(t, ErrorPrefix+tc.wantDetail, reply.Message.Content)
			assert.Equal(t, tc.wantPrompt, reply.PromptCredentials)
			assert.Len(t, s.Transcript(), 2)
		})
	}
}

func TestSetProviderResetsModel(t *testing.T) {
	s := newTestSession(fakeCredentials{"openai": "sk"}, &fakeChatter{})
	require.Equal(t, "gpt-4o", s.Config().Model)

	needs := s.SetProvider(models.ProviderOpenAI)
	assert.False(t, needs)
	assert.Equal(t, "gpt-3.5-turbo", s.Config().Model)

	needs = s.SetProvider(models.ProviderAnthropic)
	assert.True(t, needs)
	assert.Equal(t, "anthropic", s.Config().Provider)
	assert.Equal(t, "claude-3-opus", s.Config().Model)
}

func TestSetProviderKeepsModelInCatalog(t *testing.T) {
	cat := catalog.New()
	for _, provider := range cat.Providers() {
		for _, from := range cat.Providers() {
			for _, model := range cat.Models(from) {
				s := New(Config{Mode: models.ModeAsk, Provider: from, Model: model}, fakeCredentials{}, cat, &fakeChatter{})
				s.SetProvider(provider)
				assert.True(t, cat.Contains(provider, s.Config().Model),
					"provider %s from %s/%s left model %q", provider, from, model, s.Config().Model)
			}
		}
	}
}

func TestSetProviderWithoutModels(t *testing.T) {
	s := newTestSession(fakeCredentials{}, &fakeChatter{})

	s.SetProvider("unlisted")

	assert.Equal(t, "unlisted", s.Config().Provider)
	assert.Equal(t, "gpt-4o", s.Config().Model)
}

func TestSetModelIsUnvalidated(t *testing.T) {
	s := newTestSession(fakeCredentials{}, &fakeChatter{})

	s.SetModel("custom-model")

	assert.Equal(t, "custom-model", s.Config().Model)
}

func TestSetMode(t *testing.T) {
	s := newTestSession(fakeCredentials{}, &fakeChatter{})

	require.NoError(t, s.SetMode(models.ModeCode))
	assert.Equal(t, models.ModeCode, s.Config().Mode)

	err := s.SetMode("poetry")
	require.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, models.ModeCode, s.Config().Mode)
}

func TestNewRepairsInitialConfig(t *testing.T) {
	s := New(Config{Mode: "bogus", Provider: models.ProviderAnthropic, Model: "gpt-4o"}, fakeCredentials{}, catalog.New(), &fakeChatter{})

	assert.Equal(t, models.ModeDebug, s.Config().Mode)
	assert.Equal(t, "claude-3-opus", s.Config().Model)
	assert.NotEmpty(t, s.ID())
}

type staticLister map[string][]string

func (l staticLister) Models(context.Context) (map[string][]string, error) { return l, nil }

func TestApplyCatalogAfterRefresh(t *testing.T) {
	cat := catalog.New()
	s := New(Config{Mode: models.ModeDebug, Provider: models.ProviderOpenAI, Model: "gpt-4o"}, fakeCredentials{}, cat, &fakeChatter{})

	_, err := cat.Load(context.Background(), staticLister{"openai": {"gpt-4.1", "gpt-4o"}})
	require.NoError(t, err)
	s.ApplyCatalog()
	assert.Equal(t, "gpt-4o", s.Config().Model)

	_, err = cat.Load(context.Background(), staticLister{"openai": {"gpt-4.1"}})
	require.NoError(t, err)
	s.ApplyCatalog()
	assert.Equal(t, "gpt-4.1", s.Config().Model)
}
