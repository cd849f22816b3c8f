package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
)

// Estados de un archivo dentro de un lote.
const (
	FileStatusPending   = "pending"
	FileStatusUploading = "uploading"
	FileStatusDone      = "done"
	FileStatusFailed    = "failed"
)

// MaxBatchFiles cantidad máxima de archivos por lote.
const MaxBatchFiles = 20

type batchFile struct {
	input    FileInput
	status   string
	progress int
	err      string
	asset    *dto.MediaResponse
}

// Batch lote de archivos que se suben uno a uno. Un fallo no bloquea los siguientes;
// los fallidos pueden reintentarse individualmente.
type Batch struct {
	ID        string
	UserID    string
	mu        sync.Mutex
	files     []*batchFile
	running   bool
	createdAt time.Time
	updatedAt time.Time
}

// Snapshot devuelve el estado actual del lote.
func (b *Batch) Snapshot() *dto.BatchResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := &dto.BatchResponse{
		ID:        b.ID,
		Done:      !b.running,
		Files:     make([]dto.BatchFileResponse, 0, len(b.files)),
		Committed: []string{},
		Failed:    []int{},
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}
	for i, f := range b.files {
		out.Files = append(out.Files, dto.BatchFileResponse{
			Index:    i,
			FileName: f.input.FileName,
			Size:     int64(len(f.input.Data)),
			Status:   f.status,
			Progress: f.progress,
			Error:    f.err,
			Asset:    f.asset,
		})
		switch f.status {
		case FileStatusDone:
			out.Committed = append(out.Committed, f.asset.URL)
		case FileStatusFailed:
			out.Failed = append(out.Failed, i)
		}
		if f.status == FileStatusPending || f.status == FileStatusUploading {
			out.Done = false
		}
	}
	return out
}

func (b *Batch) set(i int, fn func(f *batchFile)) {
	b.mu.Lock()
	fn(b.files[i])
	b.updatedAt = time.Now()
	b.mu.Unlock()
}

// BatchService procesa lotes secuenciales sobre UseCase.Upload.
type BatchService struct {
	uc       *UseCase
	registry *Registry
}

// NewBatchService construye el servicio.
func NewBatchService(uc *UseCase, registry *Registry) *BatchService {
	return &BatchService{uc: uc, registry: registry}
}

// Create registra un lote nuevo con todos sus archivos en estado pending.
func (s *BatchService) Create(files []FileInput, userID string) (*Batch, error) {
	if len(files) == 0 {
		return nil, domain.NewValidationError("files", "se requiere al menos un archivo")
	}
	if len(files) > MaxBatchFiles {
		return nil, domain.NewValidationError("files", fmt.Sprintf("máximo %d archivos por lote", MaxBatchFiles))
	}
	now := time.Now()
	b := &Batch{ID: uuid.New().String(), UserID: userID, running: true, createdAt: now, updatedAt: now}
	for _, f := range files {
		b.files = append(b.files, &batchFile{input: f, status: FileStatusPending})
	}
	s.registry.Put(b)
	return b, nil
}

// Process sube los archivos pendientes en orden, uno a la vez.
func (s *BatchService) Process(ctx context.Context, b *Batch) {
	defer func() {
		b.mu.Lock()
		b.running = false
		b.updatedAt = time.Now()
		b.mu.Unlock()
	}()
	for i := range b.files {
		if ctx.Err() != nil {
			b.set(i, func(f *batchFile) {
				if f.status == FileStatusPending {
					f.status, f.err = FileStatusFailed, ctx.Err().Error()
				}
			})
			continue
		}
		s.uploadOne(ctx, b, i)
	}
}

// Start crea el lote y lo procesa en segundo plano; el avance se consulta con Get.
func (s *BatchService) Start(ctx context.Context, files []FileInput, userID string) (*dto.BatchResponse, error) {
	b, err := s.Create(files, userID)
	if err != nil {
		return nil, err
	}
	go s.Process(context.WithoutCancel(ctx), b)
	return b.Snapshot(), nil
}

// Actor quien consulta o reintenta un lote. Solo el creador o un admin acceden.
type Actor struct {
	UserID string
	Admin  bool
}

func (s *BatchService) lookup(id string, actor Actor) (*Batch, error) {
	b, ok := s.registry.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !actor.Admin && b.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: el lote pertenece a otro usuario", domain.ErrForbidden)
	}
	return b, nil
}

// Get devuelve el estado del lote.
func (s *BatchService) Get(id string, actor Actor) (*dto.BatchResponse, error) {
	b, err := s.lookup(id, actor)
	if err != nil {
		return nil, err
	}
	return b.Snapshot(), nil
}

// Retry vuelve a subir un archivo fallido del lote. Solo el archivo index se procesa, y
// nunca mientras el lote sigue subiendo (los archivos van de a uno).
func (s *BatchService) Retry(ctx context.Context, id string, index int, actor Actor) (*dto.BatchResponse, error) {
	b, err := s.lookup(id, actor)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	if index < 0 || index >= len(b.files) {
		b.mu.Unlock()
		return nil, domain.NewValidationError("index", "fuera de rango")
	}
	if b.running {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: el lote aún se está procesando", domain.ErrConflict)
	}
	if b.files[index].status != FileStatusFailed {
		status := b.files[index].status
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: el archivo %d está en estado %s", domain.ErrConflict, index, status)
	}
	b.files[index].status = FileStatusPending
	b.running = true
	b.mu.Unlock()

	s.uploadOne(ctx, b, index)

	b.mu.Lock()
	b.running = false
	b.updatedAt = time.Now()
	b.mu.Unlock()
	s.registry.Touch(b)
	return b.Snapshot(), nil
}

func (s *BatchService) uploadOne(ctx context.Context, b *Batch, i int) {
	b.set(i, func(f *batchFile) { f.status, f.progress, f.err = FileStatusUploading, 0, "" })
	input := b.files[i].input
	asset, err := s.uc.Upload(ctx, input, b.UserID, func(read, total int64) {
		pct := int(read * 100 / total)
		if pct > 99 {
			pct = 99
		}
		b.set(i, func(f *batchFile) { f.progress = pct })
	})
	if err != nil {
		b.set(i, func(f *batchFile) { f.status, f.err = FileStatusFailed, err.Error() })
		return
	}
	b.set(i, func(f *batchFile) { f.status, f.progress, f.asset = FileStatusDone, 100, asset })
}

// Registry guarda los lotes en memoria durante ttl desde su última actividad.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	batches map[string]*registryEntry
	now     func() time.Time
}

type registryEntry struct {
	batch     *Batch
	expiresAt time.Time
}

// NewRegistry construye el registro. ttl <= 0 usa 1 hora.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Registry{ttl: ttl, batches: map[string]*registryEntry{}, now: time.Now}
}

// Put registra el lote.
func (r *Registry) Put(b *Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.batches[b.ID] = &registryEntry{batch: b, expiresAt: r.now().Add(r.ttl)}
}

// Get devuelve el lote si no expiró.
func (r *Registry) Get(id string) (*Batch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	e, ok := r.batches[id]
	if !ok {
		return nil, false
	}
	return e.batch, true
}

// Touch extiende la vida del lote.
func (r *Registry) Touch(b *Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.batches[b.ID]; ok {
		e.expiresAt = r.now().Add(r.ttl)
	}
}

// Len cantidad de lotes vigentes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.batches)
}

func (r *Registry) sweepLocked() {
	now := r.now()
	for id, e := range r.batches {
		if now.After(e.expiresAt) {
			delete(r.batches, id)
		}
	}
}
