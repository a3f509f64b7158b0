// Package logging provides named loggers for the library and the CLI.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// GetLogger returns a logger tagged with a package name. All loggers share
// one output and the globally configured level.
func GetLogger(pkgName string) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Str("pkg", pkgName).
		Logger()
}

// --------------------------------------------------------------------------
// Level Configuration
// --------------------------------------------------------------------------

// SetLevel configures the global log level from a string. Accepts debug,
// info, warn and error.
func SetLevel(level string) error {
	parsed, err := parseLogLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

// parseLogLevel converts a string level to a zerolog level.
func parseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warning", "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}
