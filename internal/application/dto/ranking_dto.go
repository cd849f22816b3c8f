package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RankingItemDTO artículo dentro de un snapshot.
type RankingItemDTO struct {
	ItemID           string           `json:"item_id"`
	Rank             int              `json:"rank"`
	Name             string           `json:"name"`
	Link             string           `json:"link"`
	BrandName        string           `json:"brand_name,omitempty"`
	BrandLink        string           `json:"brand_link,omitempty"`
	Thumbnail        string           `json:"thumbnail,omitempty"`
	ShipInfo         string           `json:"ship_info,omitempty"`
	IsOfficial       bool             `json:"is_official"`
	Sold             *int64           `json:"sold,omitempty"`
	OriginalPrice    *decimal.Decimal `json:"original_price,omitempty"`
	SalePrice        *decimal.Decimal `json:"sale_price,omitempty"`
	DiscountRate     *decimal.Decimal `json:"discount_rate,omitempty"`
	MegaPrice        *decimal.Decimal `json:"mega_price,omitempty"`
	MegaDiscountRate *decimal.Decimal `json:"mega_discount_rate,omitempty"`
	ReviewCount      *int64           `json:"review_count,omitempty"`
}

// SnapshotResponse snapshot de ranking; Items se omite en listados.
type SnapshotResponse struct {
	ID        string           `json:"id"`
	Category  string           `json:"category"`
	TakenAt   time.Time        `json:"taken_at"`
	ItemCount int              `json:"item_count"`
	Items     []RankingItemDTO `json:"items,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SnapshotListRequest filtros de GET /api/rankings.
type SnapshotListRequest struct {
	PageRequest
	Category string `query:"category"`
	Sort     string `query:"sort" validate:"omitempty,oneof=created_at updated_at"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// SnapshotListResponse lista paginada de snapshots.
type SnapshotListResponse struct {
	Items []SnapshotResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
