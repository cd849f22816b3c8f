package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

const variantColumns = `id, product_id, name, sku, barcode, options, media_urls, price, created_at, updated_at`

// VariantRepo implementación de VariantRepository sobre PostgreSQL. price es NUMERIC (shopspring/decimal).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de variantes.
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una nueva variante.
func (r *VariantRepo) Create(ctx context.Context, v *entity.Variant) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO variants (`+variantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID, v.ProductID, v.Name, v.SKU, v.Barcode, variantOptions(v.Options),
		nonNil(v.MediaURLs), v.Price, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert variant", err)
	}
	return nil
}

// GetByID obtiene una variante por ID.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

// Exists indica si la variante existe.
func (r *VariantRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM variants WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("variant exists: %w", err)
	}
	return ok, nil
}

// SKUExists indica si el SKU ya está en uso.
func (r *VariantRepo) SKUExists(ctx context.Context, sku string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM variants WHERE sku = $1)`, sku).Scan(&ok); err != nil {
		return false, fmt.Errorf("sku exists: %w", err)
	}
	return ok, nil
}

// Update actualiza una variante. El SKU no cambia tras la creación.
func (r *VariantRepo) Update(ctx context.Context, v *entity.Variant) error {
	_, err := r.q.Exec(ctx, `
		UPDATE variants SET name = $2, barcode = $3, options = $4, media_urls = $5, price = $6, updated_at = $7
		WHERE id = $1`,
		v.ID, v.Name, v.Barcode, variantOptions(v.Options), nonNil(v.MediaURLs), v.Price, v.UpdatedAt,
	)
	if err != nil {
		return writeErr("update variant", err)
	}
	return nil
}

// List lista variantes, filtrando por producto si se indica.
func (r *VariantRepo) List(ctx context.Context, productID string, limit, offset int) ([]*entity.Variant, int64, error) {
	where, args := "", []any{}
	if productID != "" {
		where, args = " WHERE product_id = $1", append(args, productID)
	}
	total, err := count(ctx, r.q, `SELECT count(*) FROM variants`+where, args...)
	if err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM variants%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, variantColumns, where, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	list := []*entity.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}

// CountByProduct cuenta las variantes de un producto.
func (r *VariantRepo) CountByProduct(ctx context.Context, productID string) (int64, error) {
	return count(ctx, r.q, `SELECT count(*) FROM variants WHERE product_id = $1`, productID)
}

// Delete elimina una variante por ID.
func (r *VariantRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM variants WHERE id = $1`, id); err != nil {
		return writeErr("delete variant", err)
	}
	return nil
}

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	var v entity.Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.Barcode, &v.Options,
		&v.MediaURLs, &v.Price, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func variantOptions(v []entity.VariantOption) []entity.VariantOption {
	if v == nil {
		return []entity.VariantOption{}
	}
	return v
}
