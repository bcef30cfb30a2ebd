package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/events"
	authmw "github.com/mercaved/marketplace/internal/middleware/auth"
	"github.com/mercaved/marketplace/internal/models"
)

type PromotionHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
	Now      func() time.Time
}

func (h *PromotionHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

type promotionRequest struct {
	Name                 string              `json:"nombre"`
	Kind                 models.DiscountKind `json:"tipo"`
	Value                float64             `json:"valor"`
	ApplicableProducts   []uint              `json:"productos_aplicables"`
	ApplicableCombos     []uint              `json:"combos_aplicables"`
	ApplicableCategories []models.Category   `json:"categorias_aplicables"`
	StartsAt             *time.Time          `json:"fecha_inicio"`
	EndsAt               *time.Time          `json:"fecha_fin"`
	Active               *bool               `json:"activo"`
}

func validCategories(cats []models.Category) bool {
	for _, cat := range cats {
		if !cat.Valid() {
			return false
		}
	}
	return true
}

// ListPromotions returns only the acting vendor's promotions.
func (h *PromotionHandler) ListPromotions(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	var promos []models.Promotion
	err := h.DB.WithContext(c.Request().Context()).
		Where("id_usuario_vendedor = ?", vendor.ID).
		Order("created_at DESC").
		Find(&promos).Error
	if err != nil {
		return respondServerError(c)
	}
	return respondData(c, http.StatusOK, promos)
}

// CreatePromotion stores a new promotion owned by the acting vendor. The
// activo flag is not taken from the caller: it is computed from the window,
// so a future-dated promotion always starts inactive and gets picked up by
// the sweep once its start passes.
func (h *PromotionHandler) CreatePromotion(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	var req promotionRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if !validCategories(req.ApplicableCategories) {
		return respondError(c, http.StatusBadRequest, "Categoría inválida")
	}

	now := h.now()
	startsAt := now
	if req.StartsAt != nil {
		startsAt = *req.StartsAt
	}

	promo := models.Promotion{
		VendorID:             vendor.ID,
		Name:                 req.Name,
		Kind:                 req.Kind,
		Value:                req.Value,
		ApplicableProducts:   req.ApplicableProducts,
		ApplicableCombos:     req.ApplicableCombos,
		ApplicableCategories: req.ApplicableCategories,
		StartsAt:             startsAt,
		EndsAt:               req.EndsAt,
	}
	if err := promo.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	promo.Active = promo.WindowOpen(now)

	if err := h.DB.WithContext(c.Request().Context()).Create(&promo).Error; err != nil {
		return respondServerError(c)
	}

	h.publish(c, map[string]any{
		"type":        "promotion_created",
		"promotionID": promo.ID,
		"vendorID":    vendor.ID,
	})

	return respondData(c, http.StatusCreated, promo)
}

// UpdatePromotion is a direct vendor edit: last-write-wins, bypassing the
// sweep. Ownership misses answer 404 so callers cannot probe other vendors'
// promotion ids.
func (h *PromotionHandler) UpdatePromotion(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID de promoción inválido")
	}

	var req promotionRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if !validCategories(req.ApplicableCategories) {
		return respondError(c, http.StatusBadRequest, "Categoría inválida")
	}

	var promo models.Promotion
	err = h.DB.WithContext(c.Request().Context()).
		Where("id = ? AND id_usuario_vendedor = ?", id, vendor.ID).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Promoción no encontrada")
		}
		return respondServerError(c)
	}

	promo.Name = req.Name
	promo.Kind = req.Kind
	promo.Value = req.Value
	promo.ApplicableProducts = req.ApplicableProducts
	promo.ApplicableCombos = req.ApplicableCombos
	promo.ApplicableCategories = req.ApplicableCategories
	if req.StartsAt != nil {
		promo.StartsAt = *req.StartsAt
	}
	promo.EndsAt = req.EndsAt
	if req.Active != nil {
		promo.Active = *req.Active
	}
	if err := promo.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(&promo).Error; err != nil {
		return respondServerError(c)
	}

	h.publish(c, map[string]any{
		"type":        "promotion_updated",
		"promotionID": promo.ID,
		"vendorID":    vendor.ID,
	})

	return respondData(c, http.StatusOK, promo)
}

func (h *PromotionHandler) DeletePromotion(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID de promoción inválido")
	}

	res := h.DB.WithContext(c.Request().Context()).
		Where("id = ? AND id_usuario_vendedor = ?", id, vendor.ID).
		Delete(&models.Promotion{})
	if res.Error != nil {
		return respondServerError(c)
	}
	if res.RowsAffected == 0 {
		return respondNotFound(c, "Promoción no encontrada")
	}

	h.publish(c, map[string]any{
		"type":        "promotion_deleted",
		"promotionID": id,
		"vendorID":    vendor.ID,
	})

	return respondData(c, http.StatusOK, echo.Map{})
}

func (h *PromotionHandler) publish(c echo.Context, event map[string]any) {
	publishEvent(c, h.Producer, "promotion_events", fmt.Sprint(event["promotionID"]), event)
}
