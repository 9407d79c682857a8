package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileRouter is a slog.Handler that writes each record as JSON to
// <dir>/<severity>.log, one file per named severity.
type FileRouter struct {
	min      slog.Leveler
	handlers map[slog.Level]slog.Handler
	files    []*os.File
}

// NewFileRouter opens (append/create) the eight severity files under dir.
func NewFileRouter(dir string, min slog.Leveler) (*FileRouter, error) {
	if dir == "" {
		return nil, errors.New("logging: empty log dir")
	}
	if min == nil {
		min = LevelDebug
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log dir: %w", err)
	}

	r := &FileRouter{
		min:      min,
		handlers: make(map[slog.Level]slog.Handler, len(severities)),
	}
	opts := &slog.HandlerOptions{Level: LevelDebug, ReplaceAttr: replaceLevel}
	for _, lv := range severities {
		path := filepath.Join(dir, levelNames[lv]+".log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("logging: open %s: %w", path, err)
		}
		r.files = append(r.files, f)
		r.handlers[lv] = slog.NewJSONHandler(f, opts)
	}
	return r, nil
}

func (r *FileRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.min.Level()
}

func (r *FileRouter) Handle(ctx context.Context, rec slog.Record) error {
	return r.handlers[Severity(rec.Level)].Handle(ctx, rec)
}

func (r *FileRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return r.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (r *FileRouter) WithGroup(name string) slog.Handler {
	return r.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

// derived routers share the parent's files; only the root closes them.
func (r *FileRouter) derive(fn func(slog.Handler) slog.Handler) *FileRouter {
	out := &FileRouter{
		min:      r.min,
		handlers: make(map[slog.Level]slog.Handler, len(r.handlers)),
	}
	for lv, h := range r.handlers {
		out.handlers[lv] = fn(h)
	}
	return out
}

// Close closes the files opened by NewFileRouter.
func (r *FileRouter) Close() error {
	var errs []error
	for _, f := range r.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.files = nil
	return errors.Join(errs...)
}
