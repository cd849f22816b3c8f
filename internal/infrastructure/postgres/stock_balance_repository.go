package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo saldo corriente por variante sobre PostgreSQL (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Get obtiene el saldo; si la variante no tiene fila devuelve saldo 0.
func (r *StockBalanceRepo) Get(ctx context.Context, variantID string) (*entity.StockBalance, error) {
	query := `
		SELECT variant_id, quantity, movement_count, updated_at
		FROM stock_balances WHERE variant_id = $1`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, variantID).Scan(&b.VariantID, &b.Quantity, &b.MovementCount, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{VariantID: variantID}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate crea la fila si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la transacción.
// Dos movimientos concurrentes de la misma variante quedan serializados aquí.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, variantID string) (*entity.StockBalance, error) {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (variant_id, quantity, movement_count, updated_at)
		VALUES ($1, 0, 0, now())
		ON CONFLICT (variant_id) DO NOTHING`, variantID); err != nil {
		return nil, writeErr("init stock balance", err)
	}
	query := `
		SELECT variant_id, quantity, movement_count, updated_at
		FROM stock_balances WHERE variant_id = $1 FOR UPDATE`
	var b entity.StockBalance
	if err := r.q.QueryRow(ctx, query, variantID).Scan(&b.VariantID, &b.Quantity, &b.MovementCount, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo de la variante.
func (r *StockBalanceRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (variant_id, quantity, movement_count, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, movement_count = EXCLUDED.movement_count, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, b.VariantID, b.Quantity, b.MovementCount); err != nil {
		return writeErr("upsert stock balance", err)
	}
	return nil
}
