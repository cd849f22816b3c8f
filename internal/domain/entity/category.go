package entity

import "time"

// Category representa una categoría del catálogo (raíz de la jerarquía Category → Brand → Product).
type Category struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Brand representa una marca dentro de una categoría.
type Brand struct {
	ID          string
	CategoryID  string
	Name        string // único
	Description string
	LogoURL     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
