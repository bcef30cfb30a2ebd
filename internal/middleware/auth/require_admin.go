package auth

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/mercaved/marketplace/internal/authz"
	"github.com/mercaved/marketplace/internal/models"
	"github.com/mercaved/marketplace/internal/tokens"
)

// RequireAdmin authenticates the admin login cookie and enforces a minimum
// role. Role checks run against the re-fetched row, never the token
// snapshot, so a demoted administrator loses access immediately.
func (m *Middleware) RequireAdmin(min models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(tokens.AdminCookieName)
			if err != nil {
				return unauthenticated(c)
			}

			admin, err := m.Resolver.AuthenticateAdmin(c.Request().Context(), ck.Value)
			if err != nil {
				if errors.Is(err, authz.ErrStoreUnavailable) {
					return storeFault(c)
				}
				return unauthenticated(c)
			}

			if err := m.Resolver.AuthorizeRole(admin, min); err != nil {
				return forbidden(c)
			}

			setAdmin(c, admin)
			return next(c)
		}
	}
}
