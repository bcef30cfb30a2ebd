package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercaved/marketplace/internal/models"
)

func seedProduct(t *testing.T, env *testEnv, vendorID uint, name string) models.Product {
	t.Helper()
	product := models.Product{
		VendorID:  vendorID,
		Name:      name,
		Category:  "Ron",
		Price:     12.5,
		Stock:     10,
		Published: true,
	}
	require.NoError(t, env.db.Create(&product).Error)
	return product
}

func TestCreateProduct(t *testing.T) {
	env := newEnv(t)
	vendor := env.seedVendor(true, "Miranda")

	rec, resp := env.request(http.MethodPost, "/api/v1/dashboard/productos", map[string]any{
		"nombre":      "Ron Añejo 8 años",
		"descripcion": "Botella de 0.75L",
		"categoria":   "Ron",
		"precio":      18.9,
		"existencias": 24,
	}, env.vendorCookie(vendor))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, vendor.ID, created.VendorID)
	assert.True(t, created.Published)
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newEnv(t)
	vendor := env.seedVendor(true, "Miranda")
	ck := env.vendorCookie(vendor)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"categoria": "Ron", "precio": 1}},
		{"unknown category", map[string]any{"nombre": "x", "categoria": "Chatarra", "precio": 1}},
		{"negative price", map[string]any{"nombre": "x", "categoria": "Ron", "precio": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.request(http.MethodPost, "/api/v1/dashboard/productos", tt.body, ck)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListProducts_Pagination(t *testing.T) {
	env := newEnv(t)
	vendor := env.seedVendor(true, "Miranda")
	for i := 0; i < 12; i++ {
		seedProduct(t, env, vendor.ID, fmt.Sprintf("producto-%02d", i))
	}

	rec, resp := env.request(http.MethodGet, "/api/v1/dashboard/productos?page=2&size=10", nil,
		env.vendorCookie(vendor))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	assert.Len(t, items, 2)
	assert.Contains(t, rec.Body.String(), `"total":12`)
}

func TestListProducts_ScopedToVendor(t *testing.T) {
	env := newEnv(t)
	mine := env.seedVendor(true, "Miranda")
	other := env.seedVendor(true, "Zulia")
	seedProduct(t, env, mine.ID, "mío")
	seedProduct(t, env, other.ID, "ajeno")

	rec, resp := env.request(http.MethodGet, "/api/v1/dashboard/productos", nil, env.vendorCookie(mine))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "mío", items[0].Name)
}

func TestUpdateProduct_CrossVendorIsNotFound(t *testing.T) {
	env := newEnv(t)
	owner := env.seedVendor(true, "Miranda")
	intruder := env.seedVendor(true, "Zulia")
	product := seedProduct(t, env, owner.ID, "original")

	rec, _ := env.request(http.MethodPut, fmt.Sprintf("/api/v1/dashboard/productos/%d", product.ID),
		map[string]any{"nombre": "robado", "categoria": "Ron", "precio": 1},
		env.vendorCookie(intruder))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var got models.Product
	require.NoError(t, env.db.First(&got, product.ID).Error)
	assert.Equal(t, "original", got.Name)
}

func TestDeleteProduct(t *testing.T) {
	env := newEnv(t)
	vendor := env.seedVendor(true, "Miranda")
	ck := env.vendorCookie(vendor)
	product := seedProduct(t, env, vendor.ID, "para borrar")

	rec, _ := env.request(http.MethodDelete, fmt.Sprintf("/api/v1/dashboard/productos/%d", product.ID), nil, ck)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.request(http.MethodDelete, fmt.Sprintf("/api/v1/dashboard/productos/%d", product.ID), nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCombo_Validation(t *testing.T) {
	env := newEnv(t)
	vendor := env.seedVendor(true, "Miranda")
	ck := env.vendorCookie(vendor)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"precio": 10, "productos": []map[string]any{{"producto": 1, "cantidad": 1}}}},
		{"no items", map[string]any{"nombre": "combo", "precio": 10, "productos": []map[string]any{}}},
		{"zero quantity", map[string]any{"nombre": "combo", "precio": 10, "productos": []map[string]any{{"producto": 1, "cantidad": 0}}}},
		{"negative price", map[string]any{"nombre": "combo", "precio": -1, "productos": []map[string]any{{"producto": 1, "cantidad": 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.request(http.MethodPost, "/api/v1/dashboard/combos", tt.body, ck)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestComboLifecycle(t *testing.T) {
	env := newEnv(t)
	vendor := env.seedVendor(true, "Miranda")
	ck := env.vendorCookie(vendor)
	product := seedProduct(t, env, vendor.ID, "base")

	rec, resp := env.request(http.MethodPost, "/api/v1/dashboard/combos", map[string]any{
		"nombre":    "Combo parrillero",
		"precio":    35.0,
		"productos": []map[string]any{{"producto": product.ID, "cantidad": 2}},
	}, ck)
	require.Equal(t, http.StatusCreated, rec.Code)

	var combo models.Combo
	require.NoError(t, json.Unmarshal(resp.Data, &combo))
	require.Len(t, combo.Items, 1)
	assert.Equal(t, uint(2), combo.Items[0].Quantity)

	rec, _ = env.request(http.MethodPut, fmt.Sprintf("/api/v1/dashboard/combos/%d", combo.ID), map[string]any{
		"nombre":    "Combo parrillero XL",
		"precio":    40.0,
		"productos": []map[string]any{{"producto": product.ID, "cantidad": 3}},
	}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.request(http.MethodDelete, fmt.Sprintf("/api/v1/dashboard/combos/%d", combo.ID), nil, ck)
	assert.Equal(t, http.StatusOK, rec.Code)
}
