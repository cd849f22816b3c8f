package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Category ──────────────────────────────────────────────────────────────────

// CategoryRequest entrada para crear o actualizar una categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Brand ─────────────────────────────────────────────────────────────────────

// BrandRequest entrada para crear o actualizar una marca.
type BrandRequest struct {
	CategoryID  string `json:"category_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
}

// BrandResponse salida de una marca.
type BrandResponse struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BrandListResponse lista paginada de marcas.
type BrandListResponse struct {
	Items []BrandResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ── Product ───────────────────────────────────────────────────────────────────

// LocaleNameDTO nombre localizado del producto.
type LocaleNameDTO struct {
	Locale string `json:"locale" validate:"required,min=2,max=10"`
	Name   string `json:"name" validate:"required,max=200"`
}

// ProductRequest entrada para crear o actualizar un producto.
type ProductRequest struct {
	BrandID     string          `json:"brand_id" validate:"required,uuid"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	LocaleNames []LocaleNameDTO `json:"locale_names" validate:"dive"`
	Description string          `json:"description"`
	MediaURLs   []string        `json:"media_urls" validate:"dive,url"`
	Tags        []string        `json:"tags" validate:"dive,min=1,max=50"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	BrandID     string          `json:"brand_id"`
	Name        string          `json:"name"`
	LocaleNames []LocaleNameDTO `json:"locale_names"`
	Description string          `json:"description"`
	MediaURLs   []string        `json:"media_urls"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ── Variant ───────────────────────────────────────────────────────────────────

// VariantOptionDTO opción de una variante (ej. Volumen 50 ml).
type VariantOptionDTO struct {
	Name  string `json:"name" validate:"required,max=50"`
	Value string `json:"value" validate:"required,max=50"`
	Unit  string `json:"unit" validate:"max=20"`
}

// CreateVariantRequest entrada para crear una variante; el SKU se genera en el servidor.
type CreateVariantRequest struct {
	ProductID string             `json:"product_id" validate:"required,uuid"`
	Name      string             `json:"name" validate:"required,min=1,max=200"`
	Barcode   string             `json:"barcode" validate:"max=64"`
	Options   []VariantOptionDTO `json:"options" validate:"dive"`
	MediaURLs []string           `json:"media_urls" validate:"dive,url"`
	Price     decimal.Decimal    `json:"price"`
}

// UpdateVariantRequest entrada para actualizar una variante (campos opcionales; el SKU no cambia).
type UpdateVariantRequest struct {
	Name      *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode   *string            `json:"barcode" validate:"omitempty,max=64"`
	Options   []VariantOptionDTO `json:"options" validate:"omitempty,dive"`
	MediaURLs []string           `json:"media_urls" validate:"omitempty,dive,url"`
	Price     *decimal.Decimal   `json:"price"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID        string             `json:"id"`
	ProductID string             `json:"product_id"`
	Name      string             `json:"name"`
	SKU       string             `json:"sku"`
	Barcode   string             `json:"barcode"`
	Options   []VariantOptionDTO `json:"options"`
	MediaURLs []string           `json:"media_urls"`
	Price     decimal.Decimal    `json:"price"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// VariantListResponse lista paginada de variantes.
type VariantListResponse struct {
	Items []VariantResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
