package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// Severity levels of the CCB log stream. slog only ships four; the gaps
// between them leave room for notice and the three levels above error.
const (
	LevelDebug     = slog.LevelDebug
	LevelInfo      = slog.LevelInfo
	LevelNotice    = slog.Level(2)
	LevelWarning   = slog.LevelWarn
	LevelError     = slog.LevelError
	LevelCritical  = slog.Level(12)
	LevelAlert     = slog.Level(16)
	LevelEmergency = slog.Level(20)
)

var severities = []slog.Level{
	LevelDebug,
	LevelInfo,
	LevelNotice,
	LevelWarning,
	LevelError,
	LevelCritical,
	LevelAlert,
	LevelEmergency,
}

var levelNames = map[slog.Level]string{
	LevelDebug:     "debug",
	LevelInfo:      "info",
	LevelNotice:    "notice",
	LevelWarning:   "warning",
	LevelError:     "error",
	LevelCritical:  "critical",
	LevelAlert:     "alert",
	LevelEmergency: "emergency",
}

// Severity snaps an arbitrary slog level down to the nearest named severity.
// Anything below debug is debug.
func Severity(l slog.Level) slog.Level {
	s := LevelDebug
	for _, lv := range severities {
		if l >= lv {
			s = lv
		}
	}
	return s
}

// LevelName returns the lowercase severity name for l.
func LevelName(l slog.Level) string {
	return levelNames[Severity(l)]
}

// ParseLevel accepts a severity name (case-insensitive, "warn" allowed).
func ParseLevel(s string) (slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warn" {
		name = "warning"
	}
	for lv, n := range levelNames {
		if n == name {
			return lv, nil
		}
	}
	return LevelInfo, fmt.Errorf("logging: unknown level %q", s)
}

// replaceLevel renders the level attribute with the names above.
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(lvl))
		}
	}
	return a
}
