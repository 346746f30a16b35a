// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pageza/recipe-catalog/backend/config"
)

// Setup configures the global logger. Production logs JSON, every other
// environment logs through the console writer.
func Setup(level string, env config.Environment) {
	SetupWriter(os.Stderr, level, env)
}

// SetupWriter is Setup with an explicit output
func SetupWriter(w io.Writer, level string, env config.Environment) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if env != config.Production {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: env != config.Development}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("env", string(env)).Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
