// Package config loads CodeWizard settings.
//
// Values come from, in increasing precedence: built-in defaults, a YAML file,
// and CODEWIZARD_* environment variables (a .env file in the working
// directory is loaded into the environment first by the binaries).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendConfig locates the CodeWizard backend.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig is the initial selection of a new session.
type SessionConfig struct {
	Mode     string `yaml:"mode"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// StorageConfig locates the client database holding credentials.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ServerConfig is used by codewizard-server only.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	ModelsFile string `yaml:"models_file"`
	LogOutput  string `yaml:"log_output"`
}

// Config is the top-level configuration struct.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// Dir returns ~/.config/codewizard (or the platform equivalent).
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "codewizard"), nil
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return &Config{
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:8000",
			Timeout: 120 * time.Second,
		},
		Session: SessionConfig{
			Mode:     "debug",
			Provider: "openai",
			Model:    "gpt-4o",
		},
		Storage: StorageConfig{
			Path: filepath.Join(dir, "codewizard.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: filepath.Join(dir, "codewizard.log"),
		},
		Server: ServerConfig{
			Addr:       "0.0.0.0:8000",
			ModelsFile: filepath.Join("config", "models.json"),
			LogOutput:  "stderr",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path and the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config file at %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies CODEWIZARD_* environment variables.
func (c *Config) ApplyEnvOverrides() error {
	strs := map[string]*string{
		"CODEWIZARD_BACKEND_URL": &c.Backend.URL,
		"CODEWIZARD_MODE":        &c.Session.Mode,
		"CODEWIZARD_PROVIDER":    &c.Session.Provider,
		"CODEWIZARD_MODEL":       &c.Session.Model,
		"CODEWIZARD_DB_PATH":     &c.Storage.Path,
		"CODEWIZARD_LOG_LEVEL":   &c.Logging.Level,
		"CODEWIZARD_LOG_FORMAT":  &c.Logging.Format,
		"CODEWIZARD_LOG_OUTPUT":  &c.Logging.Output,
		"CODEWIZARD_SERVER_ADDR": &c.Server.Addr,
		"CODEWIZARD_MODELS_FILE": &c.Server.ModelsFile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("CODEWIZARD_BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CODEWIZARD_BACKEND_TIMEOUT %q: %w", v, err)
		}
		c.Backend.Timeout = d
	}
	return nil
}
