// Package auth carries request-scoped identity through context. The cache
// core does not enforce tenancy; it only needs tenant identifiers for key
// derivation and log correlation.
package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	tenantIDKey  contextKey = "tenant_id"
	requestIDKey contextKey = "request_id"
)

// WithTenantID returns a context carrying the tenant identifier.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetTenantID extracts the tenant identifier from the context.
// Returns uuid.Nil when no tenant is set.
func GetTenantID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(tenantIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// WithRequestID returns a context carrying a correlation identifier for
// logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID extracts the correlation identifier from the context.
// Returns the empty string when none is set.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
