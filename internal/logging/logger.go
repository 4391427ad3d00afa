// Package logging is the structured logger every Yatube component writes
// through. The server backs it with log/slog.
package logging

import "context"

// Logger takes a request context first, then a message and key-value pairs:
//
//	logger.Info(ctx, "post created", "post_id", id, "author", username)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that stamps args on every record.
	// Components use it to tag records with "module".
	With(args ...any) Logger
}
