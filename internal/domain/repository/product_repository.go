package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBrandAndName(ctx context.Context, brandID, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, brandID string, limit, offset int) ([]*entity.Product, int64, error)
	CountByBrand(ctx context.Context, brandID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// VariantRepository define el puerto de persistencia para Variant.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.Variant) error
	GetByID(ctx context.Context, id string) (*entity.Variant, error)
	Exists(ctx context.Context, id string) (bool, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	Update(ctx context.Context, variant *entity.Variant) error
	List(ctx context.Context, productID string, limit, offset int) ([]*entity.Variant, int64, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
	Delete(ctx context.Context, id string) error
}
