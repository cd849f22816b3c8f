package dto

import "time"

// MediaResponse salida de un archivo subido.
type MediaResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// MediaListResponse lista paginada de archivos.
type MediaListResponse struct {
	Items []MediaResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// BatchFileResponse estado de un archivo dentro de un lote.
type BatchFileResponse struct {
	Index    int            `json:"index"`
	FileName string         `json:"file_name"`
	Size     int64          `json:"size"`
	Status   string         `json:"status"` // pending, uploading, done, failed
	Progress int            `json:"progress"`
	Error    string         `json:"error,omitempty"`
	Asset    *MediaResponse `json:"asset,omitempty"`
}

// BatchResponse estado de un lote de subidas secuenciales.
type BatchResponse struct {
	ID        string              `json:"id"`
	Done      bool                `json:"done"`
	Files     []BatchFileResponse `json:"files"`
	Committed []string            `json:"committed"` // URLs de los archivos subidos con éxito
	Failed    []int               `json:"failed"`    // índices de los archivos fallidos
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
