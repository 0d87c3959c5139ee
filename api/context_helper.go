package api

import (
	"context"
	"time"

	"github.com/medipulse/medipulse-api/models"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

type contextKey string

const callerContextKey contextKey = "caller"

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

// WithCaller attaches the authenticated caller to the context
func WithCaller(parent context.Context, caller models.Caller) context.Context {
	return context.WithValue(parent, callerContextKey, caller)
}

// CallerFromContext returns the caller attached by the auth middleware. The
// second return is false on routes that skipped the middleware.
func CallerFromContext(ctx context.Context) (models.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(models.Caller)
	return caller, ok
}
