package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.MediaAssetRepository = (*MediaAssetRepo)(nil)

const mediaColumns = `id, type, url, public_id, file_name, mime_type, size, uploaded_by, created_at`

// MediaAssetRepo implementación de MediaAssetRepository sobre PostgreSQL.
type MediaAssetRepo struct {
	q Querier
}

// NewMediaAssetRepository construye el adaptador de archivos multimedia.
func NewMediaAssetRepository(q Querier) *MediaAssetRepo {
	return &MediaAssetRepo{q: q}
}

// Create persiste un archivo subido.
func (r *MediaAssetRepo) Create(ctx context.Context, a *entity.MediaAsset) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO media_assets (`+mediaColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Type, a.URL, a.PublicID, a.FileName, a.MimeType, a.Size, a.UploadedBy, a.CreatedAt,
	)
	if err != nil {
		return writeErr("insert media asset", err)
	}
	return nil
}

// GetByID obtiene un archivo por ID.
func (r *MediaAssetRepo) GetByID(ctx context.Context, id string) (*entity.MediaAsset, error) {
	a, err := scanMedia(r.q.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media_assets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get media asset: %w", err)
	}
	return a, nil
}

// List lista archivos del más reciente al más antiguo.
func (r *MediaAssetRepo) List(ctx context.Context, limit, offset int) ([]*entity.MediaAsset, int64, error) {
	total, err := count(ctx, r.q, `SELECT count(*) FROM media_assets`)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+mediaColumns+` FROM media_assets ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list media assets: %w", err)
	}
	defer rows.Close()
	list := []*entity.MediaAsset{}
	for rows.Next() {
		a, err := scanMedia(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan media asset: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// Delete elimina el registro del archivo.
func (r *MediaAssetRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM media_assets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}
	return nil
}

func scanMedia(row pgx.Row) (*entity.MediaAsset, error) {
	var a entity.MediaAsset
	err := row.Scan(&a.ID, &a.Type, &a.URL, &a.PublicID, &a.FileName, &a.MimeType, &a.Size, &a.UploadedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
