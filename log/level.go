package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelSilent is above every level a Logger emits, so nothing is written.
const LevelSilent = slog.LevelError + 4

// Format selects the handler a Logger writes with.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat parses "json" or "text", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("log: unknown format %q", s)
	}
}

// LevelFromVerbosity maps the 0-5 command-line verbosity onto a level:
// 0 silent, 1 error, 2 warn, 3 info, 4 and above debug. Negative values are
// silent.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return LevelSilent
	case v == 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// ParseLevel parses a level name. The match is case-insensitive and accepts
// "warning" for warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "silent", "off":
		return LevelSilent, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log: unknown level %q", s)
	}
}
