// Package logging holds the small structured-logging interface the server and
// the seed command log through. The concrete implementation wraps log/slog;
// tests pass a logger writing to io.Discard.
package logging

import "context"

// Logger is the context-aware structured logger the rest of the repo depends
// on. Variadic args are key-value pairs, matching slog's convention:
//
//	log.Info(ctx, "listening", "addr", addr)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)

	// Warn reports unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
