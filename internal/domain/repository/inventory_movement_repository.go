package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para el libro de inventario.
// No existe borrado físico: la anulación es lógica (MarkVoided).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// ListByVariant devuelve los movimientos ordenados por created_at ASC, id ASC.
	ListByVariant(ctx context.Context, variantID string, includeVoided bool) ([]*entity.InventoryMovement, error)
	// List devuelve una página de movimientos de todas las variantes (created_at ASC, id ASC) y el total.
	List(ctx context.Context, limit, offset int, includeVoided bool) ([]*entity.InventoryMovement, int64, error)
	// ListLiveCorrections devuelve las correcciones no anuladas cuyo corrects_id es originalID.
	ListLiveCorrections(ctx context.Context, originalID string) ([]*entity.InventoryMovement, error)
	MarkVoided(ctx context.Context, id, voidedBy, reason string, at time.Time) error
	CountByVariant(ctx context.Context, variantID string) (int64, error)
}

// StockBalanceRepository saldo corriente por variante. Usado dentro de transacciones.
type StockBalanceRepository interface {
	// Get devuelve saldo 0 si la variante aún no tiene movimientos.
	Get(ctx context.Context, variantID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea (o crea y bloquea) la fila de saldo de la variante.
	GetForUpdate(ctx context.Context, variantID string) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
}
