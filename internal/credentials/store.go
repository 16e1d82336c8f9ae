// Package credentials holds the per-provider API keys entered by the user.
//
// Keys are cached in memory and written through to the client database on
// every change, so a value set in one run is visible in the next.
package credentials

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/KpathaK21/CodeWizard/internal/db"
	"github.com/sirupsen/logrus"
)

// Store is not safe for concurrent use; it is owned by the UI loop.
type Store struct {
	db      *sql.DB
	secrets map[string]string
	now     func() time.Time
}

// Open loads every stored credential from conn.
func Open(conn *sql.DB) (*Store, error) {
	secrets, err := db.GetCredentials(conn)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return &Store{db: conn, secrets: secrets, now: time.Now}, nil
}

// Get returns the stored secret for provider, or "" when none was set.
func (s *Store) Get(provider string) string {
	return s.secrets[provider]
}

// Set persists secret for provider and then makes it visible to Get.
func (s *Store) Set(provider, secret string) error {
	if err := db.UpsertCredential(s.db, provider, secret, s.now().Unix()); err != nil {
		return fmt.Errorf("save credential for %s: %w", provider, err)
	}
	s.secrets[provider] = secret
	logrus.WithField("provider", provider).Debug("credential updated")
	return nil
}

func (s *Store) IsAvailable(provider string) bool {
	return strings.TrimSpace(s.secrets[provider]) != ""
}
