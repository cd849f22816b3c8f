package entity

import "time"

// Tipos de archivo multimedia.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeFile  = "file"
)

// MediaAsset archivo subido al almacenamiento de objetos.
type MediaAsset struct {
	ID         string
	Type       string
	URL        string
	PublicID   string // clave en el almacenamiento, necesaria para borrar
	FileName   string
	MimeType   string
	Size       int64
	UploadedBy string
	CreatedAt  time.Time
}
