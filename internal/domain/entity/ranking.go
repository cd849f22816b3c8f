package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RankingItem artículo de marketplace visto en algún ranking (datos estáticos, se actualizan en cada scraping).
type RankingItem struct {
	ID         string
	ItemID     string // id del marketplace, único
	Name       string
	Link       string
	BrandName  string
	BrandLink  string
	Thumbnail  string
	ShipInfo   string
	IsOfficial bool
	UpdatedAt  time.Time
}

// ItemSnapshot posición y precios de un artículo dentro de un snapshot.
type ItemSnapshot struct {
	ID               string
	SnapshotID       string
	Item             RankingItem
	Rank             int
	Sold             *int64
	OriginalPrice    *decimal.Decimal
	SalePrice        *decimal.Decimal
	DiscountRate     *decimal.Decimal
	MegaPrice        *decimal.Decimal
	MegaDiscountRate *decimal.Decimal
	ReviewCount      *int64
}

// RankingSnapshot captura puntual del ranking de una categoría.
type RankingSnapshot struct {
	ID        string
	Category  string
	TakenAt   time.Time
	ItemCount int
	Items     []ItemSnapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}
