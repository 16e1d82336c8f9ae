// Package session is the conversation controller: it owns the active
// configuration and transcript and runs one request/response cycle per
// user submission.
//
// A cycle is split in three so the network call can run off the UI loop:
//
//	pending, err := s.Submit(input) // gate, append user message, go busy
//	result := s.Send(ctx, pending)  // network only, touches no session state
//	reply := s.Complete(result)     // append reply, leave busy
//
// Dispatch chains the three for callers that can block.
//
// A Session is not safe for concurrent use. Only Send may run concurrently
// with the goroutine that owns the session.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/KpathaK21/CodeWizard/internal/backend"
	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyInput means the input was blank; nothing happened.
	ErrEmptyInput = errors.New("empty input")

	// ErrBusy means a request is already in flight.
	ErrBusy = errors.New("a request is already in flight")

	// ErrCredentialRequired means the current provider has no API key. The
	// caller should ask the user for one.
	ErrCredentialRequired = errors.New("API key required")
)

const (
	ErrorPrefix    = "⚠️ Error: "
	UnknownErrText = "Unknown error"
)

// Credentials is the read side of the credential store.
type Credentials interface {
	Get(provider string) string
	IsAvailable(provider string) bool
}

// Catalog is the read side of the model catalog.
type Catalog interface {
	DefaultModel(provider string) string
	Contains(provider, model string) bool
}

// Chatter performs the backend round trip.
type Chatter interface {
	Chat(ctx context.Context, req backend.ChatRequest) (string, error)
}

type Session struct {
	id          string
	config      Config
	transcript  Transcript
	busy        bool
	credentials Credentials
	catalog     Catalog
	chatter     Chatter
	log         *logrus.Entry
}

// New creates a session with an empty transcript. An initial model that the
// catalog does not list for the initial provider is replaced with the
// provider's default.
func New(initial Config, creds Credentials, cat Catalog, chatter Chatter) *Session {
	id := uuid.NewString()
	s := &Session{
		id:          id,
		config:      initial,
		credentials: creds,
		catalog:     cat,
		chatter:     chatter,
		log:         logrus.WithField("session", id),
	}
	if mode, ok := models.ParseMode(string(s.config.Mode)); ok {
		s.config.Mode = mode
	} else {
		s.config.Mode = models.ModeDebug
	}
	s.ApplyCatalog()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Busy() bool { return s.busy }

func (s *Session) Transcript() []models.Message {
	return s.transcript.Messages()
}

// Pending is a request that passed the gate and is ready to send. Its
// request is a snapshot and does not alias session state.
type Pending struct {
	Request backend.ChatRequest
}

// Result is the outcome of Send.
type Result struct {
	Response string
	Err      error
}

// Reply is what Complete appended, plus whether the user should be asked
// for a credential again.
type Reply struct {
	Message           models.Message
	Failed            bool
	PromptCredentials bool
}

// Submit checks the preconditions and, when they hold, appends the user
// message and marks the session busy. On any error the transcript is
// unchanged.
func (s *Session) Submit(input string) (*Pending, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if s.busy {
		return nil, ErrBusy
	}
	provider := s.config.Provider
	if !s.credentials.IsAvailable(provider) {
		s.log.WithField("provider", provider).Info("submission blocked: no API key")
		return nil, ErrCredentialRequired
	}

	s.transcript.Append(models.UserMessage(text))
	s.busy = true

	s.log.WithFields(logrus.Fields{
		"provider": provider,
		"model":    s.config.Model,
		"mode":     s.config.Mode,
		"messages": s.transcript.Len(),
	}).Info("dispatching chat request")

	return &Pending{Request: backend.ChatRequest{
		Provider: provider,
		Model:    s.config.Model,
		Mode:     s.config.Mode,
		APIKey:   s.credentials.Get(provider),
		Messages: s.transcript.Messages(),
	}}, nil
}

// Send performs the network call for p.
func (s *Session) Send(ctx context.Context, p *Pending) Result {
	resp, err := s.chatter.Chat(ctx, p.Request)
	return Result{Response: resp, Err: err}
}

// Complete appends the assistant reply or an inline error message and
// leaves the busy state.
func (s *Session) Complete(r Result) Reply {
	defer func() { s.busy = false }()

	if r.Err == nil {
		msg := models.AssistantMessage(r.Response)
		s.transcript.Append(msg)
		return Reply{Message: msg}
	}

	detail := ErrorDetail(r.Err)
	msg := models.AssistantMessage(ErrorPrefix + detail)
	s.transcript.Append(msg)

	prompt := IsAuthFailure(r.Err)
	s.log.WithError(r.Err).WithField("prompt_credentials", prompt).Warn("chat request failed")
	return Reply{Message: msg, Failed: true, PromptCredentials: prompt}
}

// Dispatch runs a whole cycle synchronously.
func (s *Session) Dispatch(ctx context.Context, input string) (Reply, error) {
	p, err := s.Submit(input)
	if err != nil {
		return Reply{}, err
	}
	return s.Complete(s.Send(ctx, p)), nil
}

// ErrorDetail picks the most specific description of err: the backend's
// error field, then the error text, then a generic placeholder.
func ErrorDetail(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		if text := strings.TrimSpace(err.Error()); text != "" {
			return text
		}
	}
	return UnknownErrText
}

// IsAuthFailure reports whether err means the provider credential was
// rejected: an HTTP 401, or an error text that mentions the API key.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 || mentionsAPIKey(apiErr.Message) {
			return true
		}
	}
	return mentionsAPIKey(err.Error())
}

func mentionsAPIKey(s string) bool {
	return strings.Contains(strings.ToLower(s), "api key")
}
