// Package identity adapts the external identity provider: session tokens
// name the caller, and a small private metadata store holds the flags this
// application writes back.
package identity

import (
	"context"
	"errors"
)

// HasProfileKey is the private flag set once a profile exists
const HasProfileKey = "hasProfile"

// ErrUnauthenticated means no verified caller identity is present
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the externally authenticated principal making a request
type Identity struct {
	ID         string
	Email      string
	ImageURL   string
	HasProfile bool
}

// Provider is the narrow surface of the identity provider
type Provider interface {
	CurrentIdentity(ctx context.Context, token string) (*Identity, error)
	SetPrivateFlag(ctx context.Context, identityID, key string, value bool) error
}
