package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Catalogo-api/internal/application/media"
)

var _ media.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage guarda archivos en disco; se usa en desarrollo cuando no hay CLOUDINARY_URL.
// Los archivos se sirven estáticamente bajo baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage crea el directorio si no existe.
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: crear %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put escribe el archivo en dir/key.
func (s *LocalStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (media.StoredObject, error) {
	target, err := s.path(key)
	if err != nil {
		return media.StoredObject{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return media.StoredObject{}, fmt.Errorf("local storage: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return media.StoredObject{}, fmt.Errorf("local storage: crear %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(target)
		return media.StoredObject{}, fmt.Errorf("local storage: escribir %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return media.StoredObject{}, fmt.Errorf("local storage: cerrar %s: %w", key, err)
	}
	return media.StoredObject{URL: s.baseURL + "/" + filepath.ToSlash(key), PublicID: key}, nil
}

// Delete borra el archivo; si ya no existe no es error.
func (s *LocalStorage) Delete(_ context.Context, publicID, _ string) error {
	target, err := s.path(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("local storage: eliminar %s: %w", publicID, err)
	}
	return nil
}

func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("local storage: clave vacía")
	}
	return filepath.Join(s.dir, clean), nil
}
