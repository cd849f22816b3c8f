package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var (
	_ repository.MarketPlaceRepository = (*MarketPlaceRepo)(nil)
	_ repository.ListingRepository     = (*ListingRepo)(nil)
)

// MarketPlaceRepo implementación de MarketPlaceRepository sobre PostgreSQL.
type MarketPlaceRepo struct {
	q Querier
}

// NewMarketPlaceRepository construye el adaptador de marketplaces.
func NewMarketPlaceRepository(q Querier) *MarketPlaceRepo {
	return &MarketPlaceRepo{q: q}
}

// Create persiste un marketplace.
func (r *MarketPlaceRepo) Create(ctx context.Context, m *entity.MarketPlace) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO market_places (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.Description, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert market place", err)
	}
	return nil
}

// GetByID obtiene un marketplace por ID.
func (r *MarketPlaceRepo) GetByID(ctx context.Context, id string) (*entity.MarketPlace, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at, updated_at FROM market_places WHERE id = $1`, id)
}

// GetByName obtiene un marketplace por nombre.
func (r *MarketPlaceRepo) GetByName(ctx context.Context, name string) (*entity.MarketPlace, error) {
	return r.getOne(ctx, `SELECT id, name, description, created_at, updated_at FROM market_places WHERE name = $1`, name)
}

func (r *MarketPlaceRepo) getOne(ctx context.Context, query, arg string) (*entity.MarketPlace, error) {
	var m entity.MarketPlace
	err := r.q.QueryRow(ctx, query, arg).Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get market place: %w", err)
	}
	return &m, nil
}

// Update actualiza un marketplace.
func (r *MarketPlaceRepo) Update(ctx context.Context, m *entity.MarketPlace) error {
	_, err := r.q.Exec(ctx, `UPDATE market_places SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		m.ID, m.Name, m.Description, m.UpdatedAt)
	if err != nil {
		return writeErr("update market place", err)
	}
	return nil
}

// List lista marketplaces por nombre.
func (r *MarketPlaceRepo) List(ctx context.Context, limit, offset int) ([]*entity.MarketPlace, int64, error) {
	total, err := count(ctx, r.q, `SELECT count(*) FROM market_places`)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM market_places ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list market places: %w", err)
	}
	defer rows.Close()
	list := []*entity.MarketPlace{}
	for rows.Next() {
		var m entity.MarketPlace
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan market place: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

// Delete elimina un marketplace.
func (r *MarketPlaceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM market_places WHERE id = $1`, id); err != nil {
		return writeErr("delete market place", err)
	}
	return nil
}

// ListingRepo implementación de ListingRepository sobre PostgreSQL.
type ListingRepo struct {
	q Querier
}

// NewListingRepository construye el adaptador de publicaciones.
func NewListingRepository(q Querier) *ListingRepo {
	return &ListingRepo{q: q}
}

const listingColumns = `id, market_place_id, variant_id, marketplace_item_id, status, last_synced_at, created_at, updated_at`

// Create persiste una publicación.
func (r *ListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO listings (`+listingColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.MarketPlaceID, l.VariantID, l.MarketplaceItemID, l.Status, l.LastSyncedAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert listing", err)
	}
	return nil
}

// GetByID obtiene una publicación por ID.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l, err := scanListing(r.q.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// Update actualiza una publicación.
func (r *ListingRepo) Update(ctx context.Context, l *entity.Listing) error {
	_, err := r.q.Exec(ctx, `
		UPDATE listings SET market_place_id = $2, variant_id = $3, marketplace_item_id = $4, status = $5,
			last_synced_at = $6, updated_at = $7
		WHERE id = $1`,
		l.ID, l.MarketPlaceID, l.VariantID, l.MarketplaceItemID, l.Status, l.LastSyncedAt, l.UpdatedAt,
	)
	if err != nil {
		return writeErr("update listing", err)
	}
	return nil
}

// List lista publicaciones con filtros dinámicos.
func (r *ListingRepo) List(ctx context.Context, f repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	var conds []string
	var args []any
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("market_place_id", f.MarketPlaceID)
	add("variant_id", f.VariantID)
	add("status", f.Status)

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	total, err := count(ctx, r.q, `SELECT count(*) FROM listings`+where, args...)
	if err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM listings%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, listingColumns, where, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()
	list := []*entity.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing: %w", err)
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

// Delete elimina una publicación.
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id); err != nil {
		return writeErr("delete listing", err)
	}
	return nil
}

func scanListing(row pgx.Row) (*entity.Listing, error) {
	var l entity.Listing
	err := row.Scan(&l.ID, &l.MarketPlaceID, &l.VariantID, &l.MarketplaceItemID, &l.Status,
		&l.LastSyncedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
