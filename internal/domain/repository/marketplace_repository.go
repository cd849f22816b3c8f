package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// MarketPlaceRepository define el puerto de persistencia para MarketPlace.
type MarketPlaceRepository interface {
	Create(ctx context.Context, market *entity.MarketPlace) error
	GetByID(ctx context.Context, id string) (*entity.MarketPlace, error)
	GetByName(ctx context.Context, name string) (*entity.MarketPlace, error)
	Update(ctx context.Context, market *entity.MarketPlace) error
	List(ctx context.Context, limit, offset int) ([]*entity.MarketPlace, int64, error)
	Delete(ctx context.Context, id string) error
}

// ListingFilter filtros opcionales para listar publicaciones.
type ListingFilter struct {
	MarketPlaceID string
	VariantID     string
	Status        string
}

// ListingRepository define el puerto de persistencia para Listing.
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	List(ctx context.Context, f ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
	Delete(ctx context.Context, id string) error
}
