package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.BrandRepository    = (*BrandRepo)(nil)
)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`, id)
}

// GetByName obtiene una categoría por nombre exacto.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at, updated_at FROM categories WHERE name = $1`, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, query string, arg string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update actualiza nombre y descripción.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		UPDATE categories SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.UpdatedAt,
	)
	if err != nil {
		return writeErr("update category", err)
	}
	return nil
}

// List lista categorías por nombre con paginación; devuelve también el total.
func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, int64, error) {
	total, err := count(ctx, r.q, `SELECT count(*) FROM categories`)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := []*entity.Category{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}

// Delete elimina una categoría por ID.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return writeErr("delete category", err)
	}
	return nil
}

// BrandRepo implementación de BrandRepository sobre PostgreSQL.
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador de marcas.
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

const brandColumns = `id, category_id, name, description, logo_url, created_at, updated_at`

// Create persiste una nueva marca.
func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO brands (`+brandColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.CategoryID, b.Name, b.Description, b.LogoURL, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert brand", err)
	}
	return nil
}

// GetByID obtiene una marca por ID.
func (r *BrandRepo) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	return r.getOne(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id)
}

// GetByName obtiene una marca por nombre.
func (r *BrandRepo) GetByName(ctx context.Context, name string) (*entity.Brand, error) {
	return r.getOne(ctx, `SELECT `+brandColumns+` FROM brands WHERE name = $1`, name)
}

func (r *BrandRepo) getOne(ctx context.Context, query, arg string) (*entity.Brand, error) {
	b, err := scanBrand(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return b, nil
}

// Update actualiza una marca existente.
func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	_, err := r.q.Exec(ctx, `
		UPDATE brands SET category_id = $2, name = $3, description = $4, logo_url = $5, updated_at = $6
		WHERE id = $1`,
		b.ID, b.CategoryID, b.Name, b.Description, b.LogoURL, b.UpdatedAt,
	)
	if err != nil {
		return writeErr("update brand", err)
	}
	return nil
}

// List lista marcas, filtrando por categoría si se indica.
func (r *BrandRepo) List(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Brand, int64, error) {
	where, args := "", []any{}
	if categoryID != "" {
		where, args = " WHERE category_id = $1", append(args, categoryID)
	}
	total, err := count(ctx, r.q, `SELECT count(*) FROM brands`+where, args...)
	if err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM brands%s ORDER BY name ASC LIMIT $%d OFFSET $%d`, brandColumns, where, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	list := []*entity.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}

// CountByCategory cuenta las marcas de una categoría.
func (r *BrandRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return count(ctx, r.q, `SELECT count(*) FROM brands WHERE category_id = $1`, categoryID)
}

// Delete elimina una marca por ID.
func (r *BrandRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id); err != nil {
		return writeErr("delete brand", err)
	}
	return nil
}

func scanBrand(row pgx.Row) (*entity.Brand, error) {
	var b entity.Brand
	if err := row.Scan(&b.ID, &b.CategoryID, &b.Name, &b.Description, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
