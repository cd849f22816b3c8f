package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, variant_id, change_type, quantity, note, corrects_id, voided, voided_at,
	voided_by, void_reason, created_by, created_at, updated_at`

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento. created_at lo asigna la base (clock_timestamp) y se devuelve en la entidad.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, variant_id, change_type, quantity, note, corrects_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.VariantID, m.ChangeType, m.Quantity, m.Note, m.CorrectsID, m.CreatedBy,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return writeErr("create inventory movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id)
}

// GetForUpdate obtiene el movimiento y bloquea la fila.
func (r *InventoryMovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryMovementRepo) getOne(ctx context.Context, query, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByVariant lista los movimientos de la variante en orden de creación.
func (r *InventoryMovementRepo) ListByVariant(ctx context.Context, variantID string, includeVoided bool) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE variant_id = $1`
	if !includeVoided {
		query += ` AND NOT voided`
	}
	query += ` ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, variantID)
}

// List pagina el libro completo en orden de creación.
func (r *InventoryMovementRepo) List(ctx context.Context, limit, offset int, includeVoided bool) ([]*entity.InventoryMovement, int64, error) {
	where := ``
	if !includeVoided {
		where = ` WHERE NOT voided`
	}
	total, err := count(ctx, r.q, `SELECT count(*) FROM inventory_movements`+where)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.list(ctx,
		`SELECT `+movementColumns+` FROM inventory_movements`+where+` ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLiveCorrections devuelve los ajustes vigentes que corrigen originalID.
// Dentro de la tx se bloquean para que una anulación concurrente no los cambie.
func (r *InventoryMovementRepo) ListLiveCorrections(ctx context.Context, originalID string) ([]*entity.InventoryMovement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements
		WHERE corrects_id = $1 AND NOT voided
		ORDER BY created_at ASC, id ASC
		FOR UPDATE`, originalID)
}

func (r *InventoryMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	list := []*entity.InventoryMovement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// MarkVoided anula lógicamente el movimiento; nunca lo borra.
func (r *InventoryMovementRepo) MarkVoided(ctx context.Context, id, voidedBy, reason string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_movements
		SET voided = true, voided_at = $2, voided_by = $3, void_reason = $4, updated_at = $2
		WHERE id = $1 AND NOT voided`,
		id, at, voidedBy, reason,
	)
	if err != nil {
		return fmt.Errorf("void movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("void movement: %s no existe o ya está anulado", id)
	}
	return nil
}

// CountByVariant cuenta los movimientos (incluidos anulados) de la variante.
func (r *InventoryMovementRepo) CountByVariant(ctx context.Context, variantID string) (int64, error) {
	return count(ctx, r.q, `SELECT count(*) FROM inventory_movements WHERE variant_id = $1`, variantID)
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(
		&m.ID, &m.VariantID, &m.ChangeType, &m.Quantity, &m.Note, &m.CorrectsID, &m.Voided, &m.VoidedAt,
		&m.VoidedBy, &m.VoidReason, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
