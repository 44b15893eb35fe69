// Package contextkeys provides centralized context key definitions.
//
// All context keys used across the application are defined here. This
// prevents typos, documents dependencies, and makes key usage
// discoverable.
package contextkeys

import (
	"context"

	"github.com/curatorhq/curator/pkg/rbac"
)

// Key is the type for context keys to prevent collisions.
type Key string

const (
	// PrincipalKey contains the authenticated rbac.Principal.
	// Set by: middleware.Auth (pkg/middleware/auth.go)
	// Required by: all protected API endpoints
	PrincipalKey Key = "principal"

	// RequestIDKey contains the request ID string (UUID).
	// Set by: httputil.RequestIDMiddleware
	// Used by: request logging
	RequestIDKey Key = "request_id"
)

// WithPrincipal attaches an authenticated principal to the context.
func WithPrincipal(ctx context.Context, principal rbac.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// GetPrincipal extracts the authenticated principal, reporting whether
// one was present.
func GetPrincipal(ctx context.Context) (rbac.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(rbac.Principal)
	return principal, ok
}

// WithRequestID attaches a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID returns the request ID, or "" when none was set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
