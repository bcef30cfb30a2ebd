package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/authz"
	"github.com/mercaved/marketplace/internal/hash"
	authmw "github.com/mercaved/marketplace/internal/middleware/auth"
	"github.com/mercaved/marketplace/internal/models"
)

// CourierAdminHandler is the administrator-facing side of delivery courier
// accounts, scoped exactly like vendor administration: the list filters by
// the admin's region and single-row operations re-check scope on the
// fetched row. The operational state (estado_operativo) is never writable
// from this surface; it belongs to the courier's own flow.
type CourierAdminHandler struct {
	DB       *gorm.DB
	Resolver *authz.Resolver
}

type courierAdminRequest struct {
	Name       string          `json:"nombre"`
	LastName   string          `json:"apellido"`
	NationalID string          `json:"cedula"`
	Phone      string          `json:"telefono"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Region     models.Region   `json:"estado"`
	Address    string          `json:"direccion"`
	BirthDate  *time.Time      `json:"fecha_nacimiento"`
	Vehicle    *models.Vehicle `json:"vehiculo"`
	Active     *bool           `json:"activo"`
}

func (h *CourierAdminHandler) ListCouriers(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	q := h.DB.WithContext(c.Request().Context()).Model(&models.Courier{})
	if !admin.Role.CanManageAllRegions() {
		q = q.Where("estado = ?", admin.Region)
	}

	var couriers []models.Courier
	if err := q.Order("created_at DESC").Find(&couriers).Error; err != nil {
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, couriers)
}

func (h *CourierAdminHandler) GetCourier(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID no proporcionado")
	}

	var courier models.Courier
	if err := h.DB.WithContext(c.Request().Context()).First(&courier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Repartidor no encontrado")
		}
		return respondServerError(c)
	}
	if err := h.Resolver.AuthorizeRegion(admin, courier.Region); err != nil {
		return respondError(c, http.StatusForbidden, "Acceso no autorizado")
	}
	return respondData(c, http.StatusOK, courier)
}

func (h *CourierAdminHandler) CreateCourier(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	var req courierAdminRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if req.Password == "" {
		return respondError(c, http.StatusBadRequest, "La contraseña es obligatoria")
	}
	if req.Name == "" || req.LastName == "" || req.NationalID == "" || req.Phone == "" || req.Email == "" {
		return respondError(c, http.StatusBadRequest, "Faltan datos del repartidor")
	}
	if req.Region == models.RegionAll || !req.Region.Valid() {
		return respondError(c, http.StatusBadRequest, "Estado inválido")
	}
	if req.BirthDate == nil {
		return respondError(c, http.StatusBadRequest, "La fecha de nacimiento es obligatoria")
	}
	if req.Vehicle == nil {
		return respondError(c, http.StatusBadRequest, "El vehículo es obligatorio")
	}
	if err := req.Vehicle.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Resolver.AuthorizeRegion(admin, req.Region); err != nil {
		return respondError(c, http.StatusForbidden, "Acceso no autorizado")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return respondServerError(c)
	}

	courier := models.Courier{
		Name:         req.Name,
		LastName:     req.LastName,
		NationalID:   req.NationalID,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: pwHash,
		Region:       req.Region,
		Address:      req.Address,
		BirthDate:    *req.BirthDate,
		Vehicle:      *req.Vehicle,
		Status:       models.CourierOffline,
		Rating:       5,
	}
	if req.Active != nil {
		courier.Active = *req.Active
	}

	if err := h.DB.WithContext(c.Request().Context()).Create(&courier).Error; err != nil {
		if isDuplicateErr(err) {
			return respondError(c, http.StatusConflict, "El email o la cédula ya existen")
		}
		return respondServerError(c)
	}

	return respondData(c, http.StatusCreated, courier)
}

func (h *CourierAdminHandler) UpdateCourier(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID no proporcionado")
	}

	var req courierAdminRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}

	var courier models.Courier
	if err := h.DB.WithContext(c.Request().Context()).First(&courier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Repartidor no encontrado")
		}
		return respondServerError(c)
	}
	if err := h.Resolver.AuthorizeRegion(admin, courier.Region); err != nil {
		return respondError(c, http.StatusForbidden, "Acceso no autorizado")
	}

	if req.Region != "" {
		if req.Region == models.RegionAll || !req.Region.Valid() {
			return respondError(c, http.StatusBadRequest, "Estado inválido")
		}
		// Moving a courier out of the admin's own scope also requires rights
		// on the destination region.
		if err := h.Resolver.AuthorizeRegion(admin, req.Region); err != nil {
			return respondError(c, http.StatusForbidden, "Acceso no autorizado")
		}
		courier.Region = req.Region
	}
	if req.Name != "" {
		courier.Name = req.Name
	}
	if req.LastName != "" {
		courier.LastName = req.LastName
	}
	if req.NationalID != "" {
		courier.NationalID = req.NationalID
	}
	if req.Phone != "" {
		courier.Phone = req.Phone
	}
	if req.Email != "" {
		courier.Email = req.Email
	}
	if req.Address != "" {
		courier.Address = req.Address
	}
	if req.BirthDate != nil {
		courier.BirthDate = *req.BirthDate
	}
	if req.Vehicle != nil {
		if err := req.Vehicle.Validate(); err != nil {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		courier.Vehicle = *req.Vehicle
	}
	if req.Active != nil {
		courier.Active = *req.Active
	}
	if strings.TrimSpace(req.Password) != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return respondServerError(c)
		}
		courier.PasswordHash = pwHash
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(&courier).Error; err != nil {
		if isDuplicateErr(err) {
			return respondError(c, http.StatusConflict, "El email o la cédula ya existen")
		}
		return respondServerError(c)
	}

	return respondData(c, http.StatusOK, courier)
}

func (h *CourierAdminHandler) DeleteCourier(c echo.Context) error {
	admin := authmw.AdminFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID no proporcionado")
	}

	var courier models.Courier
	if err := h.DB.WithContext(c.Request().Context()).First(&courier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Repartidor no encontrado")
		}
		return respondServerError(c)
	}
	if err := h.Resolver.AuthorizeRegion(admin, courier.Region); err != nil {
		return respondError(c, http.StatusForbidden, "Acceso no autorizado")
	}

	if err := h.DB.WithContext(c.Request().Context()).Delete(&courier).Error; err != nil {
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, echo.Map{})
}
