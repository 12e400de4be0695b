// Package logging constructs the shared logrus logger used by every stage.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logger type passed between packages.
type Logger = *logrus.Logger

// Fields aliases logrus.Fields for structured log entries.
type Fields = logrus.Fields

// New returns a logger writing to stderr with the given level and format.
// Unknown levels fall back to info; any format other than "json" selects
// the text formatter.
func New(level, format string) Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// Discard returns a logger that drops everything. Used in tests and as a
// fallback when callers pass a nil logger.
func Discard() Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
