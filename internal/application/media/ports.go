package media

import (
	"context"
	"io"
)

// StoredObject resultado de guardar un archivo en el almacenamiento de objetos.
type StoredObject struct {
	URL      string
	PublicID string
}

// ObjectStorage almacenamiento de archivos (Cloudinary o disco local).
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (StoredObject, error)
	Delete(ctx context.Context, publicID, contentType string) error
}
