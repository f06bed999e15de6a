package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTenantIDRoundTrip(t *testing.T) {
	tenantID := uuid.New()
	ctx := WithTenantID(context.Background(), tenantID)
	assert.Equal(t, tenantID, GetTenantID(ctx))
}

func TestGetTenantID_Missing(t *testing.T) {
	assert.Equal(t, uuid.Nil, GetTenantID(context.Background()))
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))
}
