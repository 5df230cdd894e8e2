// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"fmt"
	"strings"

	"github.com/blachmet/cennik/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityMiddleware resolves the acting user recorded on audit rows. It is
// attribution only: there are no roles and no sessions, and a request is
// never rejected for missing or bad credentials.
type IdentityMiddleware struct {
	secretKey []byte
}

// NewIdentityMiddleware creates a new identity middleware
func NewIdentityMiddleware(secretKey string) *IdentityMiddleware {
	return &IdentityMiddleware{
		secretKey: []byte(secretKey),
	}
}

// Identify extracts the acting user from a bearer token when one is present,
// falling back to the X-Acting-User header. Anonymous requests pass through
// untouched.
func (m *IdentityMiddleware) Identify() fiber.Handler {
	return func(c fiber.Ctx) error {
		if actor := m.actorFromToken(c.Get("Authorization")); actor != "" {
			c.Locals("acting_user", actor)
			return c.Next()
		}

		if actor := strings.TrimSpace(c.Get(utils.ActingUserHeader)); actor != "" {
			c.Locals("acting_user", actor)
		}

		return c.Next()
	}
}

// actorFromToken returns the username claim of a valid HMAC-signed bearer
// token, or "" when the header is absent, malformed or unverifiable.
func (m *IdentityMiddleware) actorFromToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || len(m.secretKey) == 0 {
		return ""
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return m.secretKey, nil
	})
	if err != nil || !parsedToken.Valid {
		return ""
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	for _, key := range []string{"preferred_username", "username", "sub"} {
		if actor, ok := claims[key].(string); ok && actor != "" {
			return actor
		}
	}

	return ""
}
