// Package logging defines the structured logger the admin service passes
// through its layers. Components receive a Logger and tag themselves with
// With("module", ...); handlers log failures they swallow (degraded views,
// best-effort cleanup) so operators still see them.
package logging

import "context"

// Logger is the context-aware logging surface. The variadic args are
// alternating key-value pairs, as in:
//
//	log.Info(ctx, "http server listening", "addr", addr)
type Logger interface {
	// Info records normal operation events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records unusual but recoverable conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs on
	// every record.
	With(args ...any) Logger
}
