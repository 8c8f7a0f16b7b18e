package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"corpdash/internal/domain/auth"
)

func TestPrincipalRoundTrip(t *testing.T) {
	_, ok := GetPrincipal(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), auth.Principal{ID: 4, Role: auth.RoleManager})
	p, ok := GetPrincipal(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(4), p.ID)

	_, ok = GetPrincipal(WithPrincipal(context.Background(), auth.Principal{}))
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Equal(t, "abc", GetRequestID(WithRequestID(context.Background(), "abc")))
}
