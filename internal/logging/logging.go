// Package logging builds the logrus logger shared by the backend, the task
// store and the UI.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"todo/internal/config"
)

// New returns a logger writing to w, configured from cfg.
// --debug wins over log_level; an empty level means warn.
func New(cfg *config.Config, w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	switch cfg.LogFormat {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "ts",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		return nil, fmt.Errorf("%w: log_format: %q", config.ErrInvalidConfig, cfg.LogFormat)
	}

	level := logrus.WarnLevel
	if cfg.LogLevel != "" {
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: log_level: %v", config.ErrInvalidConfig, err)
		}
		level = lvl
	}
	if cfg.Debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	return logger, nil
}

// Discard returns a logger that drops everything. Used when no logger was
// configured, mostly in tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
