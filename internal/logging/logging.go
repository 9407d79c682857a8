// Package logging builds the leveled slog logger used across ccb-bridge.
//
// Records carry one of eight severities (debug through emergency). With a log
// directory configured each severity lands in its own file; otherwise records
// go to stderr as text. Credential-looking attributes are always redacted.
package logging

import (
	"io"
	"log/slog"
	"os"
)

type Options struct {
	// Dir enables file-per-severity routing when set.
	Dir string
	// Level is the minimum severity name; empty means info.
	Level string
	// Writer receives text output when Dir is empty. Defaults to stderr.
	Writer io.Writer
}

// New returns the configured logger and a closer for any files it opened.
func New(opts Options) (*slog.Logger, func() error, error) {
	min := LevelInfo
	if opts.Level != "" {
		lv, err := ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		min = lv
	}

	if opts.Dir != "" {
		router, err := NewFileRouter(opts.Dir, min)
		if err != nil {
			return nil, nil, err
		}
		return slog.New(WrapHandler(router)), router.Close, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: min, ReplaceAttr: replaceLevel})
	return slog.New(WrapHandler(h)), func() error { return nil }, nil
}

// Resolve returns logger, or slog.Default() when logger is nil.
func Resolve(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
