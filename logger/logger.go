// Package logger provides wrappers around slog.
package logger // import "go.yhsif.com/graytext/logger"

import (
	"context"
	"io"

	"golang.org/x/exp/slog"
)

type logKeyType struct{}

var logKey logKeyType

// For returns the logger attached to ctx, or slog.Default if there's none.
func For(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(logKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// SetContext returns a copy of ctx carrying l.
func SetContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, logKey, l)
}

// New creates a text logger writing to w.
//
// Debug level logs are only emitted when verbose is true.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
