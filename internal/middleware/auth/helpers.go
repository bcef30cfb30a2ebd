package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/mercaved/marketplace/internal/models"
)

const (
	vendorContextKey = "vendorPrincipal"
	adminContextKey  = "adminPrincipal"
)

func setVendor(c echo.Context, v *models.Vendor) {
	c.Set(vendorContextKey, v)
}

func setAdmin(c echo.Context, a *models.Administrator) {
	c.Set(adminContextKey, a)
}

// VendorFrom returns the vendor principal placed by RequireVendor, or nil on
// an unguarded route.
func VendorFrom(c echo.Context) *models.Vendor {
	if v, ok := c.Get(vendorContextKey).(*models.Vendor); ok {
		return v
	}
	return nil
}

func AdminFrom(c echo.Context) *models.Administrator {
	if a, ok := c.Get(adminContextKey).(*models.Administrator); ok {
		return a
	}
	return nil
}
