package middleware // reusable HTTP middleware for session resolution and scope checks

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/maison-order-desk/internal/repository"
)

// Context keys set by ResolveSession and read by RequireScope and the
// handlers. Scope is absent for anonymous requests.
const (
	ContextKeyToken = "session_token"
	ContextKeyScope = "scope"
)

// CookieName is the session cookie issued at login.
const CookieName = "maison_session"

// ResolveSession returns middleware that extracts a session token
// from the Authorization bearer header or the session cookie (bearer
// wins when both are present), resolves it against the auth
// repository and injects the token and scope into the request
// context. An unknown or expired token is not an error here: the
// request simply proceeds as anonymous, and RequireScope decides
// whether that is acceptable for the route.
//
// Resolution slides the session expiry forward by the full TTL, so
// every authenticated call keeps the session alive.
func ResolveSession(auth *repository.AuthRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				if cookie, err := c.Cookie(CookieName); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				return next(c)
			}
			sess, err := auth.Resolve(token)
			if err != nil {
				// expired or unknown: treat as anonymous
				return next(c)
			}
			c.Set(ContextKeyToken, sess.Token)
			c.Set(ContextKeyScope, sess.Scope)
			return next(c)
		}
	}
}

// bearerToken pulls the raw token out of an "Authorization: Bearer"
// header, or returns "" when the header is missing or malformed.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// CurrentToken returns the resolved session token, or "" when the
// request is anonymous.
func CurrentToken(c echo.Context) string {
	if v, ok := c.Get(ContextKeyToken).(string); ok {
		return v
	}
	return ""
}

// CurrentScope returns the resolved scope, or "" when anonymous.
func CurrentScope(c echo.Context) string {
	if v, ok := c.Get(ContextKeyScope).(string); ok {
		return v
	}
	return ""
}
