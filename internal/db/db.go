package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultPath returns the location of the client database under the user
// config directory, falling back to ~/.config.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "codewizard", "codewizard.db"), nil
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS credentials (
			provider TEXT PRIMARY KEY,
			secret TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

func UpsertCredential(db *sql.DB, provider, secret string, nowUnix int64) error {
	_, err := db.Exec(
		`INSERT INTO credentials(provider, secret, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET secret = excluded.secret, updated_at = excluded.updated_at`,
		provider,
		secret,
		nowUnix,
	)
	return err
}

func GetCredentials(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query("SELECT provider, secret FROM credentials ORDER BY provider ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	creds := map[string]string{}
	for rows.Next() {
		var provider, secret string
		if err := rows.Scan(&provider, &secret); err != nil {
			return nil, err
		}
		creds[provider] = secret
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return creds, nil
}
