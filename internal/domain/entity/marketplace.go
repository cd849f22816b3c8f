package entity

import "time"

// Estados de publicación de un listing.
const (
	ListingStatusDraft     = "draft"
	ListingStatusPublished = "published"
	ListingStatusError     = "error"
)

// MarketPlace canal de venta externo (ej. Qoo10).
type MarketPlace struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Listing publicación de una variante en un marketplace.
type Listing struct {
	ID                string
	MarketPlaceID     string
	VariantID         string
	MarketplaceItemID string
	Status            string
	LastSyncedAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
