package session

import (
	"errors"
	"fmt"

	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/sirupsen/logrus"
)

var ErrUnknownMode = errors.New("unknown mode")

// Config is the active {mode, provider, model} selection.
type Config struct {
	Mode     models.Mode
	Provider string
	Model    string
}

func (s *Session) Config() Config {
	return s.config
}

func (s *Session) SetMode(mode models.Mode) error {
	parsed, ok := models.ParseMode(string(mode))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	s.config.Mode = parsed
	return nil
}

// SetProvider switches provider and always resets the model to the
// provider's default, even when the current model would also be valid.
// It reports whether the provider still needs a credential.
func (s *Session) SetProvider(provider string) (needsCredential bool) {
	s.config.Provider = provider
	if def := s.catalog.DefaultModel(provider); def != "" {
		s.config.Model = def
	}
	s.log.WithFields(logrus.Fields{
		"provider": provider,
		"model":    s.config.Model,
	}).Debug("provider changed")
	return !s.credentials.IsAvailable(provider)
}

// SetModel assigns model as is. Callers only offer models from the catalog.
func (s *Session) SetModel(model string) {
	s.config.Model = model
}

// ApplyCatalog restores the model invariant after the catalog changed: a
// model the provider no longer lists is replaced with its default.
func (s *Session) ApplyCatalog() {
	def := s.catalog.DefaultModel(s.config.Provider)
	if def == "" {
		return
	}
	if !s.catalog.Contains(s.config.Provider, s.config.Model) {
		s.config.Model = def
	}
}
