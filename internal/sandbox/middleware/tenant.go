package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paquexpress/client-go/internal/core/domain"
)

// TenantHeader captures the X-Tenant header on tenant-scoped routes and
// rejects reserved slugs, which never identify an empresa.
func TenantHeader(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			slug := c.Request().Header.Get("X-Tenant")
			if slug == "" {
				if required {
					return echo.NewHTTPError(http.StatusBadRequest, "missing X-Tenant header")
				}
				return next(c)
			}
			if domain.SlugReserved(slug) {
				return echo.NewHTTPError(http.StatusBadRequest, "reserved tenant slug")
			}
			c.Set("tenant_slug", slug)
			return next(c)
		}
	}
}
