package inventory

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del libro: el movimiento y el saldo se escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		balanceRepo repository.StockBalanceRepository,
	) error) error
}

// VariantChecker es el colaborador de catálogo que confirma que una variante existe.
type VariantChecker interface {
	VariantExists(ctx context.Context, variantID string) (bool, error)
}

// LedgerMetrics contadores opcionales del libro (nil = sin métricas).
type LedgerMetrics interface {
	Recorded(changeType string)
	Rejected(reason string)
	Mismatch()
}
