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
	"github.com/mercaved/marketplace/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer events.Publisher
}

type productRequest struct {
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Category    models.Category `json:"categoria"`
	Price       float64         `json:"precio"`
	Stock       uint            `json:"existencias"`
	Images      []string        `json:"imagenes"`
	Published   *bool           `json:"publicado"`
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.WithContext(c.Request().Context()).
		Model(&models.Product{}).
		Where("id_usuario_vendedor = ?", vendor.ID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return respondServerError(c)
	}

	var items []models.Product
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return respondServerError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if req.Name == "" {
		return respondError(c, http.StatusBadRequest, "El nombre del producto es requerido")
	}
	if !req.Category.Valid() {
		return respondError(c, http.StatusBadRequest, "Categoría inválida")
	}
	if req.Price < 0 {
		return respondError(c, http.StatusBadRequest, "El precio no puede ser negativo")
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}
	product := models.Product{
		VendorID:    vendor.ID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
		Published:   published,
	}

	if err := h.DB.WithContext(c.Request().Context()).Create(&product).Error; err != nil {
		return respondServerError(c)
	}

	publishEvent(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"vendorID":  vendor.ID,
	})

	return respondData(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID de producto inválido")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if !req.Category.Valid() {
		return respondError(c, http.StatusBadRequest, "Categoría inválida")
	}
	if req.Price < 0 {
		return respondError(c, http.StatusBadRequest, "El precio no puede ser negativo")
	}

	var product models.Product
	err = h.DB.WithContext(c.Request().Context()).
		Where("id = ? AND id_usuario_vendedor = ?", id, vendor.ID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondNotFound(c, "Producto no encontrado")
		}
		return respondServerError(c)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.Price = req.Price
	product.Stock = req.Stock
	product.Images = req.Images
	if req.Published != nil {
		product.Published = *req.Published
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(&product).Error; err != nil {
		return respondServerError(c)
	}

	publishEvent(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"vendorID":  vendor.ID,
	})

	return respondData(c, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	vendor := authmw.VendorFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "ID de producto inválido")
	}

	res := h.DB.WithContext(c.Request().Context()).
		Where("id = ? AND id_usuario_vendedor = ?", id, vendor.ID).
		Delete(&models.Product{})
	if res.Error != nil {
		return respondServerError(c)
	}
	if res.RowsAffected == 0 {
		return respondNotFound(c, "Producto no encontrado")
	}

	publishEvent(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
		"vendorID":  vendor.ID,
	})

	return respondData(c, http.StatusOK, echo.Map{})
}
