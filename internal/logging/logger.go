// Package logging defines the structured logger used across the data room.
// Call sites depend on the Logger interface; SlogLogger backs it with log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
// Args are key-value pairs:
//
//	log.Info(ctx, "folder created", "id", id, "parent", parent)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given pairs.
	With(args ...any) Logger
}
