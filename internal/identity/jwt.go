package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/homeaway/backend/internal/types"
)

const issuer = "homeaway"

// JWTProvider verifies HS256 session tokens and keeps private metadata in a
// MetadataStore
type JWTProvider struct {
	secret []byte
	meta   MetadataStore
	ttl    time.Duration
}

var _ Provider = (*JWTProvider)(nil)

// NewJWTProvider creates a provider signing with secret
func NewJWTProvider(secret string, meta MetadataStore) *JWTProvider {
	return &JWTProvider{
		secret: []byte(secret),
		meta:   meta,
		ttl:    24 * time.Hour,
	}
}

// IssueToken signs a session token for a local or seeded identity
func (p *JWTProvider) IssueToken(id, email, imageURL string) (string, error) {
	now := time.Now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		Email:    email,
		ImageURL: imageURL,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// CurrentIdentity resolves the caller behind token
func (p *JWTProvider) CurrentIdentity(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims := &types.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthenticated)
	}

	private, err := p.meta.Get(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to read private metadata: %w", err)
	}
	hasProfile, _ := strconv.ParseBool(private[HasProfileKey])

	return &Identity{
		ID:         claims.Subject,
		Email:      claims.Email,
		ImageURL:   claims.ImageURL,
		HasProfile: hasProfile,
	}, nil
}

// SetPrivateFlag writes a boolean private metadata entry
func (p *JWTProvider) SetPrivateFlag(ctx context.Context, identityID, key string, value bool) error {
	return p.meta.Set(ctx, identityID, key, strconv.FormatBool(value))
}
