package slogobs

import (
	"context"
	"log/slog"
)

// Logger implements sibling.Hooks.
type Logger struct {
	log *slog.Logger
}

// New returns hooks logging to l, or to slog.Default() when l is nil.
func New(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{log: l}
}

func (h *Logger) SiblingAdded(count int) {
	h.log.LogAttrs(context.Background(), slog.LevelDebug, "sibling added", slog.Int("siblings", count))
}

func (h *Logger) SiblingRemoved(count int) {
	h.log.LogAttrs(context.Background(), slog.LevelDebug, "sibling removed", slog.Int("siblings", count))
}

func (h *Logger) SiblingLeaked(count int) {
	h.log.LogAttrs(context.Background(), slog.LevelWarn, "sibling leaked", slog.Int("siblings", count))
}

func (h *Logger) Released() {
	h.log.LogAttrs(context.Background(), slog.LevelDebug, "sibling state released")
}
