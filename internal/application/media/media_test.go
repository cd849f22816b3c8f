package media

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type memAssets struct {
	mu     sync.Mutex
	assets map[string]*entity.MediaAsset
}

var _ repository.MediaAssetRepository = (*memAssets)(nil)

func newMemAssets() *memAssets { return &memAssets{assets: map[string]*entity.MediaAsset{}} }

func (r *memAssets) Create(_ context.Context, a *entity.MediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *memAssets) GetByID(_ context.Context, id string) (*entity.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assets[id], nil
}

func (r *memAssets) List(_ context.Context, limit, offset int) ([]*entity.MediaAsset, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.MediaAsset
	for _, a := range r.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, int64(len(out)), nil
}

func (r *memAssets) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.assets, id)
	return nil
}

// flakyStorage falla las subidas cuyo key pertenece a un archivo marcado, hasta que se limpia la marca.
type flakyStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failFor map[int64]bool // por tamaño, para identificar el archivo sin conocer el key
	order   []int64
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{objects: map[string][]byte{}, failFor: map[int64]bool{}}
}

func (s *flakyStorage) Put(_ context.Context, key string, r io.Reader, size int64, _ string) (StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, size)
	if s.failFor[size] {
		return StoredObject{}, errors.New("connection reset by peer")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return StoredObject{}, err
	}
	s.objects[key] = data
	return StoredObject{URL: "https://cdn.test/" + key, PublicID: key}, nil
}

func (s *flakyStorage) Delete(_ context.Context, publicID, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, publicID)
	return nil
}

// gatedStorage bloquea la subida del archivo de tamaño gateSize hasta que se cierra release.
type gatedStorage struct {
	*flakyStorage
	gateSize int64
	entered  chan struct{}
	release  chan struct{}
}

func (s *gatedStorage) Put(ctx context.Context, key string, r io.Reader, size int64, ct string) (StoredObject, error) {
	if size == s.gateSize {
		close(s.entered)
		<-s.release
	}
	return s.flakyStorage.Put(ctx, key, r, size, ct)
}

var owner = Actor{UserID: "u1"}

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func png(n int) []byte {
	out := make([]byte, n)
	copy(out, pngHeader)
	return out
}

// ── Upload ────────────────────────────────────────────────────────────────────

func TestUpload_ValidaTipoYTamano(t *testing.T) {
	uc := NewUseCase(newMemAssets(), newFlakyStorage(), 100)

	_, err := uc.Upload(context.Background(), FileInput{FileName: "a.png", Data: png(101)}, "u1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(context.Background(), FileInput{FileName: "a.exe", ContentType: "application/x-msdownload", Data: []byte("MZ")}, "u1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(context.Background(), FileInput{FileName: "vacío.png"}, "u1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpload_DetectaTipoYReportaProgreso(t *testing.T) {
	repo := newMemAssets()
	uc := NewUseCase(repo, newFlakyStorage(), 0)

	var last int64
	res, err := uc.Upload(context.Background(), FileInput{FileName: "Foto.PNG", Data: png(64)}, "u1",
		func(read, total int64) { last = read; assert.Equal(t, int64(64), total) })
	require.NoError(t, err)

	assert.Equal(t, entity.MediaTypeImage, res.Type)
	assert.Equal(t, "image/png", res.MimeType)
	assert.Contains(t, res.URL, ".png")
	assert.Equal(t, int64(64), last)
	assert.Len(t, repo.assets, 1)
}

func TestDelete_BorraDelAlmacenamiento(t *testing.T) {
	storage := newFlakyStorage()
	uc := NewUseCase(newMemAssets(), storage, 0)
	res, err := uc.Upload(context.Background(), FileInput{FileName: "a.png", Data: png(16)}, "u1", nil)
	require.NoError(t, err)
	require.Len(t, storage.objects, 1)

	require.NoError(t, uc.Delete(context.Background(), res.ID))
	assert.Empty(t, storage.objects)
	assert.ErrorIs(t, uc.Delete(context.Background(), res.ID), domain.ErrNotFound)
}

// ── Batch ─────────────────────────────────────────────────────────────────────

func TestBatch_SegundoArchivoFallaYSeReintenta(t *testing.T) {
	storage := newFlakyStorage()
	storage.failFor[20] = true
	svc := NewBatchService(NewUseCase(newMemAssets(), storage, 0), NewRegistry(time.Hour))

	files := []FileInput{
		{FileName: "1.png", Data: png(10)},
		{FileName: "2.png", Data: png(20)},
		{FileName: "3.png", Data: png(30)},
	}
	b, err := svc.Create(files, "u1")
	require.NoError(t, err)
	svc.Process(context.Background(), b)

	st, err := svc.Get(b.ID, owner)
	require.NoError(t, err)
	assert.True(t, st.Done)
	assert.Equal(t, []int64{10, 20, 30}, storage.order, "subidas secuenciales en orden")
	assert.Equal(t, FileStatusDone, st.Files[0].Status)
	assert.Equal(t, FileStatusFailed, st.Files[1].Status)
	assert.NotEmpty(t, st.Files[1].Error)
	assert.Equal(t, FileStatusDone, st.Files[2].Status)
	assert.Equal(t, 100, st.Files[2].Progress)
	assert.Equal(t, []int{1}, st.Failed)
	require.Len(t, st.Committed, 2)
	assert.Equal(t, st.Files[0].Asset.URL, st.Committed[0])
	assert.Equal(t, st.Files[2].Asset.URL, st.Committed[1])

	// Reintento individual tras recuperar la red.
	storage.failFor[20] = false
	st, err = svc.Retry(context.Background(), b.ID, 1, owner)
	require.NoError(t, err)
	assert.Empty(t, st.Failed)
	assert.Len(t, st.Committed, 3)
	assert.Equal(t, FileStatusDone, st.Files[1].Status)

	_, err = svc.Retry(context.Background(), b.ID, 1, owner)
	assert.ErrorIs(t, err, domain.ErrConflict, "solo se reintentan fallidos")
}

func TestBatch_Validaciones(t *testing.T) {
	svc := NewBatchService(NewUseCase(newMemAssets(), newFlakyStorage(), 0), NewRegistry(time.Hour))

	_, err := svc.Create(nil, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(make([]FileInput, MaxBatchFiles+1), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Get("missing", owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	b, err := svc.Create([]FileInput{{FileName: "a.png", Data: png(8)}}, "u1")
	require.NoError(t, err)
	_, err = svc.Retry(context.Background(), b.ID, 5, owner)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_ExpiraPorTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Minute)
	r.now = func() time.Time { return now }

	r.Put(&Batch{ID: "b1"})
	_, ok := r.Get("b1")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = r.Get("b1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestBatch_SoloElCreadorOAdminAcceden(t *testing.T) {
	storage := newFlakyStorage()
	storage.failFor[10] = true
	svc := NewBatchService(NewUseCase(newMemAssets(), storage, 0), NewRegistry(time.Hour))
	b, err := svc.Create([]FileInput{{FileName: "1.png", Data: png(10)}}, "u1")
	require.NoError(t, err)
	svc.Process(context.Background(), b)

	other := Actor{UserID: "u2"}
	_, err = svc.Get(b.ID, other)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Retry(context.Background(), b.ID, 0, other)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, []int64{10}, storage.order, "el reintento ajeno no sube nada")

	admin := Actor{UserID: "root", Admin: true}
	st, err := svc.Get(b.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, st.Failed)

	storage.failFor[10] = false
	st, err = svc.Retry(context.Background(), b.ID, 0, admin)
	require.NoError(t, err)
	assert.Empty(t, st.Failed)
	assert.True(t, st.Done)
}

func TestBatch_ReintentoDuranteElProcesoEsConflicto(t *testing.T) {
	storage := &gatedStorage{
		flakyStorage: newFlakyStorage(),
		gateSize:     20,
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	storage.failFor[10] = true
	svc := NewBatchService(NewUseCase(newMemAssets(), storage, 0), NewRegistry(time.Hour))
	b, err := svc.Create([]FileInput{
		{FileName: "1.png", Data: png(10)},
		{FileName: "2.png", Data: png(20)},
	}, "u1")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		svc.Process(context.Background(), b)
		close(done)
	}()
	<-storage.entered // el primero ya falló y el segundo está subiendo

	_, err = svc.Retry(context.Background(), b.ID, 0, owner)
	assert.ErrorIs(t, err, domain.ErrConflict)

	close(storage.release)
	<-done

	storage.mu.Lock()
	storage.failFor[10] = false
	storage.mu.Unlock()
	st, err := svc.Retry(context.Background(), b.ID, 0, owner)
	require.NoError(t, err)
	assert.Empty(t, st.Failed)
	assert.Equal(t, []int64{10, 20, 10}, storage.order, "nunca dos subidas a la vez")
}
