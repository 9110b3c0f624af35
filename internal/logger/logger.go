// Package logger is a small structured-logging facade over zerolog.
// Every entry carries the acting user's ID and a short action tag so the
// log stream can be grepped per user or per operation.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init configures the global logger level and output format.
func Init(level string, pretty bool) {
	lvl := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zerolog.DebugLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	var l zerolog.Logger
	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		l = zerolog.New(os.Stderr)
	}
	log = l.Level(lvl).With().Timestamp().Logger()
}

// Debug logs a debug entry for an action performed by (or on behalf of)
// a user. Pass 0 for system-level actions.
func Debug(userID int64, action, details string) {
	log.Debug().Int64("user_id", userID).Str("action", action).Msg(details)
}

// Info logs an informational entry.
func Info(userID int64, action, details string) {
	log.Info().Int64("user_id", userID).Str("action", action).Msg(details)
}

// Error logs a failed action with its error.
func Error(userID int64, action string, err error) {
	log.Error().Int64("user_id", userID).Str("action", action).Err(err).Msg("")
}
