package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KpathaK21/CodeWizard/internal/config"
	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger from cfg. The returned closer
// releases the log file, if one was opened.
func Init(cfg config.LoggingConfig) io.Closer {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}

	var output io.Writer
	var closer io.Closer = nopCloser{}
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	case "", "discard", "none":
		output = io.Discard
	default:
		file, err := openLogFile(cfg.Output)
		if err != nil {
			logrus.Warnf("Failed to open log file '%s', discarding logs instead. Error: %v", cfg.Output, err)
			output = io.Discard
		} else {
			output = file
			closer = file
		}
	}
	logrus.SetOutput(output)

	logrus.Debug("Logger initialized successfully")
	return closer
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
