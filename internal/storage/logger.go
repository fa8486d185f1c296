package storage

import (
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger routes badger's internal messages through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func newBadgerLogger(log zerolog.Logger) *badgerLogger {
	return &badgerLogger{log: log.With().Str("component", "badger").Logger()}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(strings.TrimSuffix(format, "\n"), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSuffix(format, "\n"), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSuffix(format, "\n"), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(strings.TrimSuffix(format, "\n"), args...)
}
