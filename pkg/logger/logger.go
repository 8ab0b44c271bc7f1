// Package logger provides structured logging for TeamFlow services.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls logger construction.
type Config struct {
	Level  string
	Format string // "json" or "text"
	Output io.Writer
}

// Logger wraps a logrus entry so call sites can chain fields without
// caring about the backend.
type Logger struct {
	*logrus.Entry
}

// New builds a logger for the named component.
func New(component string, cfg Config) *Logger {
	l := logrus.New()

	if cfg.Output != nil {
		l.SetOutput(cfg.Output)
	} else {
		l.SetOutput(os.Stdout)
	}

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &Logger{Entry: l.WithField("component", component)}
}

// NewDefault builds an info-level text logger for the named component.
func NewDefault(component string) *Logger {
	return New(component, Config{Level: "info"})
}

// Named returns a child logger scoped to a sub-component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{Entry: l.WithField("component", component)}
}
