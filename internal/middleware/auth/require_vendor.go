package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mercaved/marketplace/internal/authz"
	"github.com/mercaved/marketplace/internal/tokens"
)

type Middleware struct {
	Resolver *authz.Resolver
}

// RequireVendor authenticates the vendor session cookie and stores the live
// principal in the request context. Every failure mode except a store fault
// surfaces as the same 401 body.
func (m *Middleware) RequireVendor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ck, err := c.Cookie(tokens.VendorCookieName)
		if err != nil {
			return unauthenticated(c)
		}

		vendor, err := m.Resolver.AuthenticateVendor(c.Request().Context(), ck.Value)
		if err != nil {
			if errors.Is(err, authz.ErrStoreUnavailable) {
				return storeFault(c)
			}
			return unauthenticated(c)
		}

		setVendor(c, vendor)
		return next(c)
	}
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success": false,
		"error":   "No autenticado",
	})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{
		"success": false,
		"error":   "Acceso no autorizado",
	})
}

func storeFault(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"error":   "Error del servidor",
	})
}
