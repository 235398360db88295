package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/maison-order-desk/internal/model"
)

// RequireScope returns middleware that enforces that the resolved
// session holds one of the allowed scopes. The owner scope always
// passes regardless of the allowed list. Anonymous requests get 401,
// authenticated requests outside the allowed set get 403. It assumes
// ResolveSession ran earlier in the chain.
func RequireScope(allowed ...string) echo.MiddlewareFunc {
	set := make(map[string]bool, len(allowed))
	for _, s := range allowed {
		set[s] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope := CurrentScope(c)
			if scope == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "auth_failed",
					"message": "authentication required",
				})
			}
			if scope != model.ScopeOwner && !set[scope] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":   "auth_forbidden",
					"message": "insufficient scope",
				})
			}
			return next(c)
		}
	}
}
