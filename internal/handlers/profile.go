package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/hash"
	authmw "github.com/mercaved/marketplace/internal/middleware/auth"
	"github.com/mercaved/marketplace/internal/models"
)

// ProfileHandler serves each principal's own account page. Reads return the
// live row the session middleware already fetched.
type ProfileHandler struct {
	DB *gorm.DB
}

func (h *ProfileHandler) GetVendorProfile(c echo.Context) error {
	return respondData(c, http.StatusOK, authmw.VendorFrom(c))
}

type vendorProfileRequest struct {
	Name    string        `json:"nombre"`
	Address string        `json:"direccion"`
	Region  models.Region `json:"estado"`
	Phone1  string        `json:"telefono1"`
	Phone2  string        `json:"telefono2"`
	Images  []string      `json:"imagenes"`
}

// UpdateVendorProfile lets a vendor edit their own public data. The login
// email, the password and the activo flag are not editable here: activation
// belongs to an administrator.
func (h *ProfileHandler) UpdateVendorProfile(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	var req vendorProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}

	if req.Region != "" {
		if req.Region == models.RegionAll || !req.Region.Valid() {
			return respondError(c, http.StatusBadRequest, "Estado inválido")
		}
		vendor.Region = req.Region
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
	if req.Images != nil {
		vendor.Images = req.Images
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(vendor).Error; err != nil {
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, vendor)
}

func (h *ProfileHandler) GetAdminProfile(c echo.Context) error {
	return respondData(c, http.StatusOK, authmw.AdminFrom(c))
}

type adminProfileRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"telefono"`
}

// UpdateAdminProfile edits the acting administrator's own account. Role and
// region stay under the top-tier management endpoints; an administrator
// cannot widen their own scope from here.
func (h *ProfileHandler) UpdateAdminProfile(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	var req adminProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}

	if req.Username != "" {
		admin.Username = req.Username
	}
	if req.Email != "" {
		admin.Email = req.Email
	}
	if req.Phone != "" {
		admin.Phone = req.Phone
	}
	if strings.TrimSpace(req.Password) != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return respondServerError(c)
		}
		admin.PasswordHash = pwHash
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(admin).Error; err != nil {
		if isDuplicateErr(err) {
			return respondError(c, http.StatusConflict, "El email o nombre de usuario ya existe")
		}
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, admin)
}
