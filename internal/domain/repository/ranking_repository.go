package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// SnapshotFilter filtros y orden para listar snapshots de ranking.
type SnapshotFilter struct {
	Category string // vacío = todas
	SortBy   string // created_at | updated_at
	Desc     bool
}

// RankingRepository persiste snapshots de ranking y sus artículos.
type RankingRepository interface {
	// SaveSnapshot inserta el snapshot, hace upsert de los artículos por item_id e inserta sus posiciones.
	SaveSnapshot(ctx context.Context, snapshot *entity.RankingSnapshot) error
	// GetByID devuelve el snapshot con sus posiciones ordenadas por rank.
	GetByID(ctx context.Context, id string) (*entity.RankingSnapshot, error)
	// LatestSince devuelve el snapshot más reciente de la categoría tomado a partir de since.
	LatestSince(ctx context.Context, category string, since time.Time) (*entity.RankingSnapshot, error)
	// List no carga las posiciones (solo cabecera y ItemCount).
	List(ctx context.Context, f SnapshotFilter, limit, offset int) ([]*entity.RankingSnapshot, int64, error)
	Delete(ctx context.Context, id string) error
	// DeleteOlderThan elimina los snapshots de la categoría anteriores a before; devuelve cuántos.
	DeleteOlderThan(ctx context.Context, category string, before time.Time) (int64, error)
}
