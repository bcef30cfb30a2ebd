package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/mercaved/marketplace/internal/handlers"
	authmw "github.com/mercaved/marketplace/internal/middleware/auth"
	"github.com/mercaved/marketplace/internal/models"
)

type Deps struct {
	Auth       *authmw.Middleware
	AuthAPI    *handlers.AuthHandler
	Products   *handlers.ProductHandler
	Combos     *handlers.ComboHandler
	Promotions *handlers.PromotionHandler
	Admins     *handlers.AdminHandler
	Vendors    *handlers.VendorAdminHandler
	Couriers   *handlers.CourierAdminHandler
	Profile    *handlers.ProfileHandler
	Search     *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthAPI.RegisterVendor)
	v1.POST("/auth/login", d.AuthAPI.LoginVendor)
	v1.POST("/auth/logout", d.AuthAPI.LogoutVendor)
	v1.POST("/admin/login", d.AuthAPI.LoginAdmin)
	v1.POST("/admin/logout", d.AuthAPI.LogoutAdmin)

	if d.Search != nil {
		v1.GET("/search", d.Search.Search)
	}

	// Vendor dashboard: everything below is ownership scoped.
	dash := v1.Group("/dashboard", d.Auth.RequireVendor)

	dash.GET("/productos", d.Products.ListProducts)
	dash.POST("/productos", d.Products.CreateProduct)
	dash.PUT("/productos/:id", d.Products.UpdateProduct)
	dash.DELETE("/productos/:id", d.Products.DeleteProduct)

	dash.GET("/combos", d.Combos.ListCombos)
	dash.POST("/combos", d.Combos.CreateCombo)
	dash.PUT("/combos/:id", d.Combos.UpdateCombo)
	dash.DELETE("/combos/:id", d.Combos.DeleteCombo)

	dash.GET("/promociones", d.Promotions.ListPromotions)
	dash.POST("/promociones", d.Promotions.CreatePromotion)
	dash.PUT("/promociones/:id", d.Promotions.UpdatePromotion)
	dash.DELETE("/promociones/:id", d.Promotions.DeletePromotion)

	dash.GET("/config", d.Profile.GetVendorProfile)
	dash.PUT("/config", d.Profile.UpdateVendorProfile)

	// Admin dashboard: any role may enter, region scoping happens per
	// handler against the live row.
	adminDash := v1.Group("/admin/dashboard", d.Auth.RequireAdmin(models.RoleObserver))

	adminDash.GET("/auth-status", d.Admins.Status)

	adminDash.GET("/config", d.Profile.GetAdminProfile)
	adminDash.PUT("/config", d.Profile.UpdateAdminProfile)

	adminDash.GET("/usuarios/vendedores", d.Vendors.ListVendors)
	adminDash.GET("/usuarios/vendedores/:id", d.Vendors.GetVendor)
	adminDash.PUT("/usuarios/vendedores/:id", d.Vendors.UpdateVendor)
	adminDash.DELETE("/usuarios/vendedores/:id", d.Vendors.DeleteVendor)

	adminDash.GET("/usuarios/delivery", d.Couriers.ListCouriers)
	adminDash.POST("/usuarios/delivery", d.Couriers.CreateCourier)
	adminDash.GET("/usuarios/delivery/:id", d.Couriers.GetCourier)
	adminDash.PUT("/usuarios/delivery/:id", d.Couriers.UpdateCourier)
	adminDash.DELETE("/usuarios/delivery/:id", d.Couriers.DeleteCourier)

	// Managing the administrator tier itself is top-role only.
	adminMgmt := v1.Group("/admin/dashboard/admins", d.Auth.RequireAdmin(models.RoleSuper))

	adminMgmt.GET("", d.Admins.ListAdmins)
	adminMgmt.POST("", d.Admins.CreateAdmin)
	adminMgmt.PUT("/:id", d.Admins.UpdateAdmin)
	adminMgmt.DELETE("/:id", d.Admins.DeleteAdmin)
}
