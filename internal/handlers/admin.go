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

// AdminHandler manages the administrator tier itself. Every route behind it
// is already gated to RoleSuper by the router; the self-protection check on
// delete runs on top of that.
type AdminHandler struct {
	DB       *gorm.DB
	Resolver *authz.Resolver
}

type adminRequest struct {
	Username string        `json:"username"`
	Password string        `json:"password"`
	Role     models.Role   `json:"rol"`
	Region   models.Region `json:"estado"`
	Email    string        `json:"email"`
	Phone    string        `json:"telefono"`
}

func (r *adminRequest) validate() string {
	if !r.Role.Valid() {
		return "Rol inválido"
	}
	if r.Role.CanManageAllRegions() {
		return ""
	}
	// Below the top tier every administrator is pinned to one region.
	if r.Region == models.RegionAll || !r.Region.Valid() {
		return "Un administrador regional requiere un estado asignado"
	}
	return ""
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// Status reports the acting administrator's live identity, for the frontend
// to scope its navigation.
func (h *AdminHandler) Status(c echo.Context) error {
	admin := authmw.AdminFrom(c)
	return respondData(c, http.StatusOK, echo.Map{
		"id":     admin.ID,
		"rol":    admin.Role,
		"estado": admin.Region,
	})
}

func (h *AdminHandler) ListAdmins(c echo.Context) error {
	var admins []models.Administrator
	if err := h.DB.WithContext(c.Request().Context()).Find(&admins).Error; err != nil {
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, admins)
}

func (h *AdminHandler) CreateAdmin(c echo.Context) error {
	var req adminRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if req.Password == "" {
		return respondError(c, http.StatusBadRequest, "La contraseña es obligatoria")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return respondServerError(c)
	}

	region := req.Region
	if req.Role.CanManageAllRegions() {
		region = models.RegionAll
	}
	admin := models.Administrator{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         req.Role,
		Region:       region,
		Email:        req.Email,
		Phone:        req.Phone,
	}

	if err := h.DB.WithContext(c.Request().Context()).Create(&admin).Error; err != nil {
		if isDuplicateErr(err) {
			return respondError(c, http.StatusConflict, "El email o nombre de usuario ya existe")
		}
		return respondServerError(c)
	}

	return respondData(c, http.StatusCreated, admin)
}

func (h *AdminHandler) UpdateAdmin(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID no proporcionado")
	}

	var req adminRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	var admin models.Administrator
	if err := h.DB.WithContext(c.Request().Context()).First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Administrador no encontrado")
		}
		return respondServerError(c)
	}

	admin.Username = req.Username
	admin.Role = req.Role
	admin.Region = req.Region
	if req.Role.CanManageAllRegions() {
		admin.Region = models.RegionAll
	}
	admin.Email = req.Email
	admin.Phone = req.Phone
	if strings.TrimSpace(req.Password) != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return respondServerError(c)
		}
		admin.PasswordHash = pwHash
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(&admin).Error; err != nil {
		if isDuplicateErr(err) {
			return respondError(c, http.StatusConflict, "El email o nombre de usuario ya existe")
		}
		return respondServerError(c)
	}

	return respondData(c, http.StatusOK, admin)
}

func (h *AdminHandler) DeleteAdmin(c echo.Context) error {
	acting := authmw.AdminFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID no proporcionado")
	}

	if !h.Resolver.CanDeleteAdmin(acting, uint(id)) {
		return respondError(c, http.StatusForbidden, "No puedes eliminar tu propia cuenta")
	}

	res := h.DB.WithContext(c.Request().Context()).Delete(&models.Administrator{}, id)
	if res.Error != nil {
		return respondServerError(c)
	}
	if res.RowsAffected == 0 {
		return respondNotFound(c, "Administrador no encontrado")
	}

	return respondData(c, http.StatusOK, echo.Map{})
}
