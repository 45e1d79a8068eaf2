// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/depeter/couchbar/internal/config"
)

// Setup applies the [logs] section. An empty file keeps stderr. The
// returned close function releases the log file, if any.
func Setup(cfg config.LogsConfig) (func() error, error) {
	if cfg.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	if cfg.File == "" {
		logrus.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	return f.Close, nil
}

// For returns a logger entry scoped to a component.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
