package core

import "context"

// Context keys for run options
type contextKey string

const (
	quietKey contextKey = "quiet"
	runIDKey contextKey = "runID"
)

// withQuiet marks the context so headers and warnings are not printed
func withQuiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey, true)
}

// isQuiet returns whether console output should be suppressed
func isQuiet(ctx context.Context) bool {
	val := ctx.Value(quietKey)
	if val == nil {
		return false // default: print
	}
	quiet, ok := val.(bool)
	return ok && quiet
}

// withRunID stores the history run ID in the context
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// runIDFromContext returns the history run ID, or 0 when none was started
func runIDFromContext(ctx context.Context) int64 {
	id, ok := ctx.Value(runIDKey).(int64)
	if !ok {
		return 0
	}
	return id
}
