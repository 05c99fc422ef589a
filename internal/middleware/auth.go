package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/homeaway/backend/internal/identity"
)

const (
	// SessionCookie carries the identity provider's session token
	SessionCookie = "__session"

	identityKey = "identity"
)

// ProtectedPrefixes require a signed-in caller
var ProtectedPrefixes = []string{
	"/bookings",
	"/checkout",
	"/favorites",
	"/profile",
	"/rentals",
	"/reviews",
}

// SessionToken reads the token from the session cookie or a Bearer header
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Identity resolves the caller once per request and stores it on the context.
// Anonymous and invalid sessions continue without an identity.
func Identity(provider identity.Provider, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		caller, err := provider.CurrentIdentity(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(identityKey, caller)
		case errors.Is(err, identity.ErrUnauthenticated):
			log.Debug("ignoring invalid session", slog.Any("error", err))
		default:
			log.Error("failed to resolve identity", slog.Any("error", err))
		}
		c.Next()
	}
}

// CurrentIdentity returns the caller resolved by Identity, or nil
func CurrentIdentity(c *gin.Context) *identity.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*identity.Identity)
	return caller
}

// IsProtectedRoute reports whether path falls under a protected prefix
func IsProtectedRoute(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// ProtectRoutes redirects anonymous requests for protected paths to signInPath
func ProtectRoutes(signInPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsProtectedRoute(c.Request.URL.Path) && CurrentIdentity(c) == nil {
			c.Redirect(http.StatusSeeOther, signInPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
