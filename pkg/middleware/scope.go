package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-insights/pkg/jwt"
)

// RequireScope middleware: only allow tokens granting scope. Requests that were
// not authenticated (auth disabled) pass through.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(jwt.ContextKeyClaims).(*jwt.Claims)
			if !ok {
				return next(c)
			}
			if !claims.HasScope(scope) {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error":   "insufficient_scope",
					"message": "token does not grant " + scope,
				})
			}
			return next(c)
		}
	}
}
