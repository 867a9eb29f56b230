package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/ports"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session_token"

// identityKey is the echo context key the resolved identity is stored under.
const identityKey = "identity"

// Session resolves the caller's token (cookie first, then Authorization
// bearer header) into an Identity and injects it into the request context.
// Anonymous and invalid-token requests pass through without an identity; the
// access rule table decides whether they may proceed.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := RequestToken(c)
			if token != "" {
				if identity, err := sessions.Resolve(c.Request().Context(), token); err == nil {
					c.Set(identityKey, identity)
				}
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity resolved by the Session middleware, or
// nil when the caller is anonymous.
func IdentityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityKey).(*domain.Identity)
	return identity
}

// RequestToken extracts the session token from the request, preferring the
// session cookie over the Authorization header.
func RequestToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
