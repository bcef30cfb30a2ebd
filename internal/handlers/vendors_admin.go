package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/authz"
	"github.com/mercaved/marketplace/internal/hash"
	authmw "github.com/mercaved/marketplace/internal/middleware/auth"
	"github.com/mercaved/marketplace/internal/models"
)

// VendorAdminHandler is the administrator-facing side of vendor accounts.
// Listing filters by the admin's region; single-vendor mutations re-check
// the region scope on the fetched row, so a regional admin cannot reach
// another region's vendor by guessing its id.
type VendorAdminHandler struct {
	DB       *gorm.DB
	Resolver *authz.Resolver
}

type vendorAdminRequest struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Name     string        `json:"nombre"`
	Address  string        `json:"direccion"`
	Region   models.Region `json:"estado"`
	Phone1   string        `json:"telefono1"`
	Phone2   string        `json:"telefono2"`
	Active   *bool         `json:"activo"`
}

func (h *VendorAdminHandler) ListVendors(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	q := h.DB.WithContext(c.Request().Context()).Model(&models.Vendor{})
	if !admin.Role.CanManageAllRegions() {
		q = q.Where("estado = ?", admin.Region)
	}

	var vendors []models.Vendor
	if err := q.Order("created_at DESC").Find(&vendors).Error; err != nil {
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, vendors)
}

func (h *VendorAdminHandler) GetVendor(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID no proporcionado")
	}

	var vendor models.Vendor
	if err := h.DB.WithContext(c.Request().Context()).First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Vendedor no encontrado")
		}
		return respondServerError(c)
	}
	if err := h.Resolver.AuthorizeRegion(admin, vendor.Region); err != nil {
		return respondError(c, http.StatusForbidden, "Acceso no autorizado")
	}
	return respondData(c, http.StatusOK, vendor)
}

func (h *VendorAdminHandler) UpdateVendor(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID no proporcionado")
	}

	var req vendorAdminRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}

	var vendor models.Vendor
	if err := h.DB.WithContext(c.Request().Context()).First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Vendedor no encontrado")
		}
		return respondServerError(c)
	}
	if err := h.Resolver.AuthorizeRegion(admin, vendor.Region); err != nil {
		return respondError(c, http.StatusForbidden, "Acceso no autorizado")
	}

	if req.Region != "" {
		if req.Region == models.RegionAll || !req.Region.Valid() {
			return respondError(c, http.StatusBadRequest, "Estado inválido")
		}
		// Moving a vendor out of the admin's own scope also requires rights
		// on the destination region.
		if err := h.Resolver.AuthorizeRegion(admin, req.Region); err != nil {
			return respondError(c, http.StatusForbidden, "Acceso no autorizado")
		}
		vendor.Region = req.Region
	}
	if req.Email != "" {
		vendor.Email = req.Email
	}
	if req.Name != "" {
		vendor.Name = req.Name
	}
	if req.Address != "" {
		vendor.Address = req.Address
	}
	if req.Phone1 != "" {
		vendor.Phone1 = req.Phone1
	}
	if req.Phone2 != "" {
		vendor.Phone2 = req.Phone2
	}
	if req.Active != nil {
		vendor.Active = *req.Active
	}
	if strings.TrimSpace(req.Password) != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return respondServerError(c)
		}
		vendor.PasswordHash = pwHash
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(&vendor).Error; err != nil {
		if isDuplicateErr(err) {
			return respondError(c, http.StatusConflict, "El email ya está registrado")
		}
		return respondServerError(c)
	}

	return respondData(c, http.StatusOK, vendor)
}

func (h *VendorAdminHandler) DeleteVendor(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID no proporcionado")
	}

	var vendor models.Vendor
	if err := h.DB.WithContext(c.Request().Context()).First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Vendedor no encontrado")
		}
		return respondServerError(c)
	}
	if err := h.Resolver.AuthorizeRegion(admin, vendor.Region); err != nil {
		return respondError(c, http.StatusForbidden, "Acceso no autorizado")
	}

	if err := h.DB.WithContext(c.Request().Context()).Delete(&vendor).Error; err != nil {
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, echo.Map{})
}
