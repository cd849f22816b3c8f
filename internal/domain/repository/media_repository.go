package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// MediaAssetRepository define el puerto de persistencia para MediaAsset.
type MediaAssetRepository interface {
	Create(ctx context.Context, asset *entity.MediaAsset) error
	GetByID(ctx context.Context, id string) (*entity.MediaAsset, error)
	List(ctx context.Context, limit, offset int) ([]*entity.MediaAsset, int64, error)
	Delete(ctx context.Context, id string) error
}
