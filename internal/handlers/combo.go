package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/events"
	authmw "github.com/mercaved/marketplace/internal/middleware/auth"
	"github.com/mercaved/marketplace/internal/models"
)

type ComboHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

type comboRequest struct {
	Name        string             `json:"nombre"`
	Description string             `json:"descripcion"`
	Price       float64            `json:"precio"`
	Items       []models.ComboItem `json:"productos"`
	Images      []string           `json:"imagenes"`
	Published   *bool              `json:"publicado"`
}

func (r *comboRequest) validate() string {
	if r.Name == "" {
		return "El nombre del combo es requerido"
	}
	if r.Price < 0 {
		return "El precio no puede ser negativo"
	}
	if len(r.Items) == 0 {
		return "El combo debe contener al menos un producto"
	}
	for _, item := range r.Items {
		if item.Quantity < 1 {
			return "La cantidad de cada producto debe ser al menos 1"
		}
	}
	return ""
}

func (h *ComboHandler) ListCombos(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	var combos []models.Combo
	err := h.DB.WithContext(c.Request().Context()).
		Where("id_usuario_vendedor = ?", vendor.ID).
		Order("created_at DESC").
		Find(&combos).Error
	if err != nil {
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, combos)
}

func (h *ComboHandler) CreateCombo(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	var req comboRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}
	combo := models.Combo{
		VendorID:    vendor.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Items:       req.Items,
		Images:      req.Images,
		Published:   published,
	}

	if err := h.DB.WithContext(c.Request().Context()).Create(&combo).Error; err != nil {
		return respondServerError(c)
	}

	publishEvent(c, h.Producer, "combo_events", fmt.Sprint(combo.ID), map[string]any{
		"type":     "combo_created",
		"comboID":  combo.ID,
		"vendorID": vendor.ID,
	})

	return respondData(c, http.StatusCreated, combo)
}

func (h *ComboHandler) UpdateCombo(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID de combo inválido")
	}

	var req comboRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	var combo models.Combo
	err = h.DB.WithContext(c.Request().Context()).
		Where("id = ? AND id_usuario_vendedor = ?", id, vendor.ID).
		First(&combo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Combo no encontrado")
		}
		return respondServerError(c)
	}

	combo.Name = req.Name
	combo.Description = req.Description
	combo.Price = req.Price
	combo.Items = req.Items
	combo.Images = req.Images
	if req.Published != nil {
		combo.Published = *req.Published
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(&combo).Error; err != nil {
		return respondServerError(c)
	}

	publishEvent(c, h.Producer, "combo_events", fmt.Sprint(combo.ID), map[string]any{
		"type":     "combo_updated",
		"comboID":  combo.ID,
		"vendorID": vendor.ID,
	})

	return respondData(c, http.StatusOK, combo)
}

func (h *ComboHandler) DeleteCombo(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID de combo inválido")
	}

	res := h.DB.WithContext(c.Request().Context()).
		Where("id = ? AND id_usuario_vendedor = ?", id, vendor.ID).
		Delete(&models.Combo{})
	if res.Error != nil {
		return respondServerError(c)
	}
	if res.RowsAffected == 0 {
		return respondNotFound(c, "Combo no encontrado")
	}

	publishEvent(c, h.Producer, "combo_events", fmt.Sprint(id), map[string]any{
		"type":     "combo_deleted",
		"comboID":  id,
		"vendorID": vendor.ID,
	})

	return respondData(c, http.StatusOK, echo.Map{})
}
