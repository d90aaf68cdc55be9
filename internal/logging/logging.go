// Package logging configures structured JSON logging to stderr.
//
// Logging is opt-in via the DEADMOD_LOG environment variable, which names the
// minimum level ("debug", "info", "warn", "error"). When the variable is
// unset the logger discards everything below Warn so normal runs stay quiet
// except for explicit warnings.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvVar controls log level and enables JSON output.
const EnvVar = "DEADMOD_LOG"

// Init installs the process-wide slog handler. Call once at startup.
func Init() {
	level, enabled := levelFromEnv()

	var w io.Writer = os.Stderr
	if !enabled {
		// Warnings still surface as plain text; everything else is dropped.
		slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})))
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}

func levelFromEnv() (slog.Level, bool) {
	raw, ok := os.LookupEnv(EnvVar)
	if !ok || raw == "" {
		return slog.LevelWarn, false
	}

	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, true
	}
}
