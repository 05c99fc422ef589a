package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the claims in an identity session token
type SessionClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	ImageURL string `json:"image_url,omitempty"`
}
