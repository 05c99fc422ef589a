package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/homeaway/backend/internal/types"
)

func TestCurrentIdentity(t *testing.T) {
	ctx := context.Background()
	p := NewJWTProvider("test-secret", NewMemoryMetadata())

	token, err := p.IssueToken("user_123", "ada@example.com", "https://img.test/ada.png")
	require.NoError(t, err)

	id, err := p.CurrentIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user_123", id.ID)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "https://img.test/ada.png", id.ImageURL)
	assert.False(t, id.HasProfile)

	require.NoError(t, p.SetPrivateFlag(ctx, "user_123", HasProfileKey, true))

	id, err = p.CurrentIdentity(ctx, token)
	require.NoError(t, err)
	assert.True(t, id.HasProfile)
}

func TestCurrentIdentityRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	p := NewJWTProvider("test-secret", NewMemoryMetadata())

	_, err := p.CurrentIdentity(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = p.CurrentIdentity(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	other := NewJWTProvider("other-secret", NewMemoryMetadata())
	token, err := other.IssueToken("user_123", "ada@example.com", "")
	require.NoError(t, err)
	_, err = p.CurrentIdentity(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCurrentIdentityRejectsExpiredToken(t *testing.T) {
	p := NewJWTProvider("test-secret", NewMemoryMetadata())

	past := time.Now().Add(-2 * time.Hour)
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_123",
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = p.CurrentIdentity(context.Background(), token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestMemoryMetadataCopiesOnRead(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryMetadata()
	require.NoError(t, m.Set(ctx, "a", "k", "v"))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	got["k"] = "changed"

	again, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v", again["k"])
}
