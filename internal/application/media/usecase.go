package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// DefaultMaxBytes tamaño máximo por archivo si no se configura otro.
const DefaultMaxBytes int64 = 20 << 20

// tipos de documento aceptados además de imágenes y videos.
var allowedFileTypes = map[string]bool{
	"application/pdf": true,
	"text/csv":        true,
}

// FileInput archivo recibido para subir. Data se conserva completo para permitir reintentos.
type FileInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ProgressFunc recibe bytes leídos y total durante la subida.
type ProgressFunc func(read, total int64)

// UseCase casos de uso de archivos multimedia.
type UseCase struct {
	repo     repository.MediaAssetRepository
	storage  ObjectStorage
	maxBytes int64
	now      func() time.Time
}

// NewUseCase construye el caso de uso. maxBytes <= 0 usa DefaultMaxBytes.
func NewUseCase(repo repository.MediaAssetRepository, storage ObjectStorage, maxBytes int64) *UseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &UseCase{repo: repo, storage: storage, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes tamaño máximo aceptado por archivo.
func (uc *UseCase) MaxBytes() int64 { return uc.maxBytes }

// Upload valida tipo y tamaño, guarda el archivo en el almacenamiento y registra el asset.
// Si el registro en BD falla se intenta borrar el objeto subido.
func (uc *UseCase) Upload(ctx context.Context, in FileInput, userID string, progress ProgressFunc) (*dto.MediaResponse, error) {
	size := int64(len(in.Data))
	if size == 0 {
		return nil, domain.NewValidationError("file", "está vacío")
	}
	if size > uc.maxBytes {
		return nil, domain.NewValidationError("file", fmt.Sprintf("supera el máximo de %d bytes", uc.maxBytes))
	}
	contentType := detectContentType(in)
	mediaType, ok := mediaTypeOf(contentType)
	if !ok {
		return nil, domain.NewValidationError("file", "tipo de archivo no permitido: "+contentType)
	}

	id := uuid.New().String()
	key := id + strings.ToLower(filepath.Ext(in.FileName))
	var r io.Reader = bytes.NewReader(in.Data)
	if progress != nil {
		r = &countingReader{r: r, total: size, fn: progress}
	}
	obj, err := uc.storage.Put(ctx, key, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", in.FileName, err)
	}

	asset := &entity.MediaAsset{
		ID:         id,
		Type:       mediaType,
		URL:        obj.URL,
		PublicID:   obj.PublicID,
		FileName:   filepath.Base(in.FileName),
		MimeType:   contentType,
		Size:       size,
		UploadedBy: userID,
		CreatedAt:  uc.now(),
	}
	if err := uc.repo.Create(ctx, asset); err != nil {
		_ = uc.storage.Delete(ctx, obj.PublicID, contentType)
		return nil, err
	}
	return toMediaResponse(asset), nil
}

// Delete elimina el archivo del almacenamiento y su registro.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	asset, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if asset == nil {
		return domain.ErrNotFound
	}
	if err := uc.storage.Delete(ctx, asset.PublicID, asset.MimeType); err != nil {
		return fmt.Errorf("delete %s: %w", asset.PublicID, err)
	}
	return uc.repo.Delete(ctx, id)
}

// List lista los archivos subidos, más recientes primero.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.MediaListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MediaResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toMediaResponse(a))
	}
	return &dto.MediaListResponse{Items: items, Page: dto.NewPage(page, total)}, nil
}

func detectContentType(in FileInput) string {
	ct := strings.TrimSpace(strings.ToLower(in.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(in.Data)
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
	}
	return ct
}

func mediaTypeOf(contentType string) (string, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return entity.MediaTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return entity.MediaTypeVideo, true
	case allowedFileTypes[contentType]:
		return entity.MediaTypeFile, true
	}
	return "", false
}

// countingReader informa el avance de lectura al almacenamiento.
type countingReader struct {
	r     io.Reader
	read  int64
	total int64
	fn    ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.read += int64(n)
		c.fn(c.read, c.total)
	}
	return n, err
}

func toMediaResponse(a *entity.MediaAsset) *dto.MediaResponse {
	return &dto.MediaResponse{
		ID:        a.ID,
		Type:      a.Type,
		URL:       a.URL,
		FileName:  a.FileName,
		MimeType:  a.MimeType,
		Size:      a.Size,
		CreatedAt: a.CreatedAt,
	}
}
