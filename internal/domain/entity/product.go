package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocaleName nombre del producto en un idioma concreto (ej. "ja", "ko").
type LocaleName struct {
	Locale string `json:"locale"`
	Name   string `json:"name"`
}

// Product representa un producto de una marca; el stock y el precio viven en sus variantes.
type Product struct {
	ID          string
	BrandID     string
	Name        string // único por marca
	LocaleNames []LocaleName
	Description string
	MediaURLs   []string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VariantOption una opción de la variante (ej. name=Volumen value=50 unit=ml).
type VariantOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// Variant configuración comprable de un producto; unidad a la que se asocian inventario y precio.
type Variant struct {
	ID        string
	ProductID string
	Name      string
	SKU       string // generado al crear, único
	Barcode   string
	Options   []VariantOption
	MediaURLs []string
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
