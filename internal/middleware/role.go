package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin aborts with 403 unless the JWT carried a true admin claim.
// It assumes JWTAuth already ran and stored the claim under "admin".
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, ok := c.Get("admin").(bool)
			if !ok || !isAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
