package models

import (
	"errors"
	"time"
)

type Administrator struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"       json:"id"`
	Username     string    `gorm:"unique;not null"                json:"username"`
	PasswordHash string    `gorm:"not null"                       json:"-"`
	Role         Role      `gorm:"column:rol;not null;default:1"  json:"rol"`
	Region       Region    `gorm:"column:estado;not null"         json:"estado"`
	Email        string    `gorm:"unique;not null"                json:"email"`
	Phone        string    `gorm:"column:telefono;not null"       json:"telefono"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Vendor struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"              json:"id"`
	Email         string    `gorm:"unique;not null"                       json:"email"`
	PasswordHash  string    `gorm:"not null"                              json:"-"`
	Name          string    `gorm:"column:nombre;not null"                json:"nombre"`
	Address       string    `gorm:"column:direccion;not null"             json:"direccion"`
	Region        Region    `gorm:"column:estado;not null"                json:"estado"`
	Phone1        string    `gorm:"column:telefono1;not null"             json:"telefono1"`
	Phone2        string    `gorm:"column:telefono2"                      json:"telefono2"`
	Active        bool      `gorm:"column:activo;default:false"           json:"activo"`
	AcceptedTerms bool      `gorm:"column:acepta_terminos;default:false"  json:"acepta_terminos"`
	Images        []string  `gorm:"column:imagenes;serializer:json"       json:"imagenes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"                    json:"id"`
	VendorID    uint      `gorm:"column:id_usuario_vendedor;index;not null"   json:"id_usuario_vendedor"`
	Name        string    `gorm:"column:nombre;not null"                      json:"nombre"`
	Description string    `gorm:"column:descripcion"                          json:"descripcion"`
	Category    Category  `gorm:"column:categoria;not null"                   json:"categoria"`
	Price       float64   `gorm:"column:precio;not null"                      json:"precio"`
	Stock       uint      `gorm:"column:existencias"                          json:"existencias"`
	Images      []string  `gorm:"column:imagenes;serializer:json"             json:"imagenes"`
	Published   bool      `gorm:"column:publicado;default:true"               json:"publicado"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ComboItem struct {
	ProductID uint `json:"producto"`
	Quantity  uint `json:"cantidad"`
}

type Combo struct {
	ID          uint        `gorm:"primaryKey;autoIncrement"                    json:"id"`
	VendorID    uint        `gorm:"column:id_usuario_vendedor;index;not null"   json:"id_usuario_vendedor"`
	Name        string      `gorm:"column:nombre;not null"                      json:"nombre"`
	Description string      `gorm:"column:descripcion"                          json:"descripcion"`
	Price       float64     `gorm:"column:precio;not null"                      json:"precio"`
	Items       []ComboItem `gorm:"column:productos;serializer:json"            json:"productos"`
	Images      []string    `gorm:"column:imagenes;serializer:json"             json:"imagenes"`
	Published   bool        `gorm:"column:publicado;default:true"               json:"publicado"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "PORCENTAJE"
	DiscountFixed      DiscountKind = "MONTO_FIJO"
)

type Promotion struct {
	ID                   uint         `gorm:"primaryKey;autoIncrement"                      json:"id"`
	VendorID             uint         `gorm:"column:id_usuario_vendedor;index;not null"     json:"id_usuario_vendedor"`
	Name                 string       `gorm:"column:nombre;not null"                        json:"nombre"`
	Kind                 DiscountKind `gorm:"column:tipo;not null"                          json:"tipo"`
	Value                float64      `gorm:"column:valor;not null"                         json:"valor"`
	ApplicableProducts   []uint       `gorm:"column:productos_aplicables;serializer:json"   json:"productos_aplicables"`
	ApplicableCombos     []uint       `gorm:"column:combos_aplicables;serializer:json"      json:"combos_aplicables"`
	ApplicableCategories []Category   `gorm:"column:categorias_aplicables;serializer:json"  json:"categorias_aplicables"`
	StartsAt             time.Time    `gorm:"column:fecha_inicio;index;not null"            json:"fecha_inicio"`
	EndsAt               *time.Time   `gorm:"column:fecha_fin;index"                        json:"fecha_fin"`
	Active               bool         `gorm:"column:activo"                                 json:"activo"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

var (
	ErrPromotionUntargeted     = errors.New("la promoción debe aplicar a productos, combos o categorías")
	ErrPromotionBadKind        = errors.New("tipo de descuento inválido")
	ErrPromotionNegativeValue  = errors.New("el valor del descuento no puede ser negativo")
	ErrPromotionWindowInverted = errors.New("fecha_fin debe ser igual o posterior a fecha_inicio")
)

// Validate checks the write-time invariants of a promotion. The sweep
// tolerates inverted windows; they are rejected here so they never reach
// the store through the API.
func (p *Promotion) Validate() error {
	if p.Kind != DiscountPercentage && p.Kind != DiscountFixed {
		return ErrPromotionBadKind
	}
	if p.Value < 0 {
		return ErrPromotionNegativeValue
	}
	if len(p.ApplicableProducts) == 0 && len(p.ApplicableCombos) == 0 && len(p.ApplicableCategories) == 0 {
		return ErrPromotionUntargeted
	}
	if p.EndsAt != nil && p.EndsAt.Before(p.StartsAt) {
		return ErrPromotionWindowInverted
	}
	return nil
}

// WindowOpen reports whether now falls inside the promotion window.
func (p *Promotion) WindowOpen(now time.Time) bool {
	if now.Before(p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}
