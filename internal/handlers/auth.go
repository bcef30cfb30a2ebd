package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/events"
	"github.com/mercaved/marketplace/internal/hash"
	"github.com/mercaved/marketplace/internal/models"
	"github.com/mercaved/marketplace/internal/tokens"
)

type AuthHandler struct {
	DB       *gorm.DB
	Secret   []byte
	Producer events.Publisher
	Now      func() time.Time
}

func (h *AuthHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func (h *AuthHandler) publish(c echo.Context, topic, key string, event map[string]any) {
	publishEvent(c, h.Producer, topic, key, event)
}

// RegisterVendor creates an inactive vendor account. Activation is an
// administrator mutation, never the vendor's own.
func (h *AuthHandler) RegisterVendor(c echo.Context) error {
	var req struct {
		Email         string        `json:"email"`
		Password      string        `json:"password"`
		Name          string        `json:"nombre"`
		Address       string        `json:"direccion"`
		Region        models.Region `json:"estado"`
		Phone1        string        `json:"telefono1"`
		Phone2        string        `json:"telefono2"`
		AcceptedTerms bool          `json:"acepta_terminos"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "Email y contraseña son obligatorios")
	}
	if !req.AcceptedTerms {
		return respondError(c, http.StatusBadRequest, "Debes aceptar los términos y condiciones")
	}
	if req.Region == models.RegionAll || !req.Region.Valid() {
		return respondError(c, http.StatusBadRequest, "Estado inválido")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return respondServerError(c)
	}

	vendor := models.Vendor{
		Email:         req.Email,
		PasswordHash:  pwHash,
		Name:          req.Name,
		Address:       req.Address,
		Region:        req.Region,
		Phone1:        req.Phone1,
		Phone2:        req.Phone2,
		Active:        false,
		AcceptedTerms: true,
	}

	// No existence precheck: two concurrent registrations would both pass
	// it. The unique index decides, and the violation maps to the same 409.
	if err := h.DB.WithContext(c.Request().Context()).Create(&vendor).Error; err != nil {
		if isDuplicateErr(err) {
			return respondError(c, http.StatusConflict, "El email ya está registrado")
		}
		return respondServerError(c)
	}

	h.publish(c, "vendor_events", fmt.Sprint(vendor.ID), map[string]any{
		"type":     "vendor_registered",
		"vendorID": vendor.ID,
		"email":    vendor.Email,
	})

	return respondData(c, http.StatusCreated, vendor)
}

// LoginVendor issues the vendor session cookie. Unknown email, wrong
// password and deactivated account all answer with the same 401.
func (h *AuthHandler) LoginVendor(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "Email y contraseña son obligatorios")
	}

	var vendor models.Vendor
	if err := h.DB.WithContext(c.Request().Context()).Where("email = ?", req.Email).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusUnauthorized, "Credenciales inválidas")
		}
		return respondServerError(c)
	}
	if !hash.CheckPassword(vendor.PasswordHash, req.Password) || !vendor.Active {
		return respondError(c, http.StatusUnauthorized, "Credenciales inválidas")
	}

	now := h.now()
	token, err := tokens.SignVendor(&vendor, h.Secret, now)
	if err != nil {
		return respondServerError(c)
	}
	c.SetCookie(CreateCookie(tokens.VendorCookieName, token, "/", now.Add(tokens.VendorTokenTTL)))

	h.publish(c, "vendor_events", fmt.Sprint(vendor.ID), map[string]any{
		"type":     "vendor_logged_in",
		"vendorID": vendor.ID,
	})

	return respondData(c, http.StatusOK, echo.Map{"nombre": vendor.Name})
}

func (h *AuthHandler) LogoutVendor(c echo.Context) error {
	c.SetCookie(DeleteCookie(tokens.VendorCookieName, "/"))
	return respondData(c, http.StatusOK, echo.Map{"message": "Sesión cerrada"})
}

// LoginAdmin issues the administrator login cookie. The claims snapshot the
// role and region at issuance; authorization re-reads the row on every
// request anyway.
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}

	var admin models.Administrator
	if err := h.DB.WithContext(c.Request().Context()).Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusUnauthorized, "Credenciales inválidas")
		}
		return respondServerError(c)
	}
	if !hash.CheckPassword(admin.PasswordHash, req.Password) {
		return respondError(c, http.StatusUnauthorized, "Credenciales inválidas")
	}

	now := h.now()
	token, err := tokens.SignAdmin(&admin, h.Secret, now)
	if err != nil {
		return respondServerError(c)
	}
	c.SetCookie(CreateCookie(tokens.AdminCookieName, token, "/", now.Add(tokens.AdminTokenTTL)))

	return respondData(c, http.StatusOK, echo.Map{
		"rol":    admin.Role,
		"estado": admin.Region,
	})
}

func (h *AuthHandler) LogoutAdmin(c echo.Context) error {
	c.SetCookie(DeleteCookie(tokens.AdminCookieName, "/"))
	return respondData(c, http.StatusOK, echo.Map{"message": "Sesión cerrada"})
}
