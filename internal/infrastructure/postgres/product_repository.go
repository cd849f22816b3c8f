package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, brand_id, name, locale_names, description, media_urls, tags, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// locale_names se guarda como JSONB; media_urls y tags como TEXT[].
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.BrandID, p.Name, localeNames(p.LocaleNames), p.Description,
		nonNil(p.MediaURLs), nonNil(p.Tags), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByBrandAndName obtiene un producto por marca y nombre.
func (r *ProductRepo) GetByBrandAndName(ctx context.Context, brandID, name string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE brand_id = $1 AND name = $2`, brandID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET brand_id = $2, name = $3, locale_names = $4, description = $5,
			media_urls = $6, tags = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.BrandID, p.Name, localeNames(p.LocaleNames), p.Description,
		nonNil(p.MediaURLs), nonNil(p.Tags), p.UpdatedAt,
	)
	if err != nil {
		return writeErr("update product", err)
	}
	return nil
}

// List lista productos con paginación, filtrando por marca si se indica.
func (r *ProductRepo) List(ctx context.Context, brandID string, limit, offset int) ([]*entity.Product, int64, error) {
	where, args := "", []any{}
	if brandID != "" {
		where, args = " WHERE brand_id = $1", append(args, brandID)
	}
	total, err := count(ctx, r.q, `SELECT count(*) FROM products`+where, args...)
	if err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, productColumns, where, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// CountByBrand cuenta los productos de una marca.
func (r *ProductRepo) CountByBrand(ctx context.Context, brandID string) (int64, error) {
	return count(ctx, r.q, `SELECT count(*) FROM products WHERE brand_id = $1`, brandID)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return writeErr("delete product", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.BrandID, &p.Name, &p.LocaleNames, &p.Description,
		&p.MediaURLs, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func localeNames(v []entity.LocaleName) []entity.LocaleName {
	if v == nil {
		return []entity.LocaleName{}
	}
	return v
}
