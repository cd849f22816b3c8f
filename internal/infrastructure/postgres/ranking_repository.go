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

var _ repository.RankingRepository = (*RankingRepo)(nil)

// TxQuerier es un Querier capaz de abrir transacciones (pool o tx con savepoints).
type TxQuerier interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RankingRepo persiste snapshots de ranking sobre PostgreSQL.
type RankingRepo struct {
	db TxQuerier
}

// NewRankingRepository construye el adaptador de rankings.
func NewRankingRepository(db TxQuerier) *RankingRepo {
	return &RankingRepo{db: db}
}

// SaveSnapshot guarda el snapshot completo en una sola transacción.
// Los artículos se actualizan por item_id (upsert) y cada posición referencia su artículo.
func (r *RankingRepo) SaveSnapshot(ctx context.Context, s *entity.RankingSnapshot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO ranking_snapshots (id, category, taken_at) VALUES ($1, $2, $3)
			RETURNING created_at, updated_at`,
			s.ID, s.Category, s.TakenAt,
		).Scan(&s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert ranking snapshot: %w", err)
		}

		for i := range s.Items {
			it := &s.Items[i]
			if it.Item.ID == "" {
				it.Item.ID = uuid.New().String()
			}
			err := tx.QueryRow(ctx, `
				INSERT INTO ranking_items (id, item_id, name, link, brand_name, brand_link, thumbnail, ship_info, is_official, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
				ON CONFLICT (item_id) DO UPDATE SET
					name = EXCLUDED.name, link = EXCLUDED.link, brand_name = EXCLUDED.brand_name,
					brand_link = EXCLUDED.brand_link, thumbnail = EXCLUDED.thumbnail,
					ship_info = EXCLUDED.ship_info, is_official = EXCLUDED.is_official, updated_at = now()
				RETURNING id, updated_at`,
				it.Item.ID, it.Item.ItemID, it.Item.Name, it.Item.Link, it.Item.BrandName, it.Item.BrandLink,
				it.Item.Thumbnail, it.Item.ShipInfo, it.Item.IsOfficial,
			).Scan(&it.Item.ID, &it.Item.UpdatedAt)
			if err != nil {
				return fmt.Errorf("upsert ranking item %s: %w", it.Item.ItemID, err)
			}

			if it.ID == "" {
				it.ID = uuid.New().String()
			}
			it.SnapshotID = s.ID
			_, err = tx.Exec(ctx, `
				INSERT INTO ranking_item_snapshots (id, snapshot_id, item_id, rank, sold, original_price, sale_price,
					discount_rate, mega_price, mega_discount_rate, review_count)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				it.ID, s.ID, it.Item.ID, it.Rank, it.Sold, it.OriginalPrice, it.SalePrice,
				it.DiscountRate, it.MegaPrice, it.MegaDiscountRate, it.ReviewCount,
			)
			if err != nil {
				return fmt.Errorf("insert item snapshot: %w", err)
			}
		}
		s.ItemCount = len(s.Items)
		return nil
	})
}

// GetByID devuelve el snapshot con sus posiciones ordenadas por rank.
func (r *RankingRepo) GetByID(ctx context.Context, id string) (*entity.RankingSnapshot, error) {
	s, err := r.header(ctx, `WHERE s.id = $1`, id)
	if err != nil || s == nil {
		return s, err
	}
	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// LatestSince devuelve el snapshot más reciente de la categoría tomado desde since (con posiciones).
func (r *RankingRepo) LatestSince(ctx context.Context, category string, since time.Time) (*entity.RankingSnapshot, error) {
	s, err := r.header(ctx, `WHERE s.category = $1 AND s.taken_at >= $2 ORDER BY s.taken_at DESC LIMIT 1`, category, since)
	if err != nil || s == nil {
		return s, err
	}
	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

const snapshotHeader = `
	SELECT s.id, s.category, s.taken_at, s.created_at, s.updated_at,
		(SELECT count(*) FROM ranking_item_snapshots i WHERE i.snapshot_id = s.id)
	FROM ranking_snapshots s `

func (r *RankingRepo) header(ctx context.Context, tail string, args ...any) (*entity.RankingSnapshot, error) {
	s, err := scanSnapshotHeader(r.db.QueryRow(ctx, snapshotHeader+tail, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ranking snapshot: %w", err)
	}
	return s, nil
}

func (r *RankingRepo) loadItems(ctx context.Context, s *entity.RankingSnapshot) error {
	rows, err := r.db.Query(ctx, `
		SELECT x.id, x.snapshot_id, x.rank, x.sold, x.original_price, x.sale_price, x.discount_rate,
			x.mega_price, x.mega_discount_rate, x.review_count,
			i.id, i.item_id, i.name, i.link, i.brand_name, i.brand_link, i.thumbnail, i.ship_info, i.is_official, i.updated_at
		FROM ranking_item_snapshots x
		JOIN ranking_items i ON i.id = x.item_id
		WHERE x.snapshot_id = $1
		ORDER BY x.rank ASC`, s.ID)
	if err != nil {
		return fmt.Errorf("list item snapshots: %w", err)
	}
	defer rows.Close()
	s.Items = []entity.ItemSnapshot{}
	for rows.Next() {
		var x entity.ItemSnapshot
		if err := rows.Scan(
			&x.ID, &x.SnapshotID, &x.Rank, &x.Sold, &x.OriginalPrice, &x.SalePrice, &x.DiscountRate,
			&x.MegaPrice, &x.MegaDiscountRate, &x.ReviewCount,
			&x.Item.ID, &x.Item.ItemID, &x.Item.Name, &x.Item.Link, &x.Item.BrandName, &x.Item.BrandLink,
			&x.Item.Thumbnail, &x.Item.ShipInfo, &x.Item.IsOfficial, &x.Item.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan item snapshot: %w", err)
		}
		s.Items = append(s.Items, x)
	}
	s.ItemCount = len(s.Items)
	return rows.Err()
}

// List lista cabeceras de snapshots con filtro de categoría y orden.
func (r *RankingRepo) List(ctx context.Context, f repository.SnapshotFilter, limit, offset int) ([]*entity.RankingSnapshot, int64, error) {
	where, args := "", []any{}
	if f.Category != "" {
		where, args = "WHERE s.category = $1 ", append(args, f.Category)
	}
	total, err := count(ctx, r.db, `SELECT count(*) FROM ranking_snapshots s `+where, args...)
	if err != nil {
		return nil, 0, err
	}

	col := "s.created_at"
	if f.SortBy == "updated_at" {
		col = "s.updated_at"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	n := len(args)
	query := fmt.Sprintf(`%s%sORDER BY %s %s, s.id ASC LIMIT $%d OFFSET $%d`, snapshotHeader, where, col, dir, n+1, n+2)
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ranking snapshots: %w", err)
	}
	defer rows.Close()
	list := []*entity.RankingSnapshot{}
	for rows.Next() {
		s, err := scanSnapshotHeader(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ranking snapshot: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Delete elimina el snapshot (sus posiciones caen en cascada).
func (r *RankingRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ranking_snapshots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete ranking snapshot: %w", err)
	}
	return nil
}

// DeleteOlderThan elimina los snapshots de la categoría anteriores a before.
func (r *RankingRepo) DeleteOlderThan(ctx context.Context, category string, before time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM ranking_snapshots WHERE category = $1 AND taken_at < $2`, category, before)
	if err != nil {
		return 0, fmt.Errorf("prune ranking snapshots: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanSnapshotHeader(row pgx.Row) (*entity.RankingSnapshot, error) {
	var s entity.RankingSnapshot
	var n int64
	if err := row.Scan(&s.ID, &s.Category, &s.TakenAt, &s.CreatedAt, &s.UpdatedAt, &n); err != nil {
		return nil, err
	}
	s.ItemCount = int(n)
	return &s, nil
}
