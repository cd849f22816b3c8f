package dto

import "time"

// MarketPlaceRequest entrada para crear o actualizar un marketplace.
type MarketPlaceRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// MarketPlaceResponse salida de un marketplace.
type MarketPlaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MarketPlaceListResponse lista paginada de marketplaces.
type MarketPlaceListResponse struct {
	Items []MarketPlaceResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ListingRequest entrada para crear o actualizar una publicación.
type ListingRequest struct {
	MarketPlaceID     string     `json:"market_place_id" validate:"required,uuid"`
	VariantID         string     `json:"variant_id" validate:"required,uuid"`
	MarketplaceItemID string     `json:"marketplace_item_id" validate:"max=100"`
	Status            string     `json:"status" validate:"omitempty,oneof=draft published error"`
	LastSyncedAt      *time.Time `json:"last_synced_at"`
}

// ListingResponse salida de una publicación.
type ListingResponse struct {
	ID                string     `json:"id"`
	MarketPlaceID     string     `json:"market_place_id"`
	VariantID         string     `json:"variant_id"`
	MarketplaceItemID string     `json:"marketplace_item_id"`
	Status            string     `json:"status"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ListingListResponse lista paginada de publicaciones.
type ListingListResponse struct {
	Items []ListingResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
