package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/infrastructure/redis"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// memStore implementa redis.IdempotencyStore en memoria.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", redis.ErrNil
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value.(string)
	return nil
}

func (s *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = value.(string)
	return true, nil
}

func (s *memStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *memStore) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func idempotentApp(store redis.IdempotencyStore, calls *int) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.Nop(), nil)})
	app.Post("/movements", Idempotency(store), func(c *fiber.Ctx) error {
		*calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": *calls})
	})
	return app
}

func postMovement(t *testing.T, app *fiber.App, key, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/movements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	buf := new(strings.Builder)
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.String()
}

func TestIdempotency_RepiteLaPrimeraRespuesta(t *testing.T) {
	calls := 0
	app := idempotentApp(newMemStore(), &calls)

	resp, first := postMovement(t, app, "k1", `{"quantity":5}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, second := postMovement(t, app, "k1", `{"quantity":5}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "el handler corre una sola vez")

	_, _ = postMovement(t, app, "", `{"quantity":5}`)
	assert.Equal(t, 2, calls, "sin clave no hay idempotencia")
}

func TestIdempotency_CuerpoDistinto422(t *testing.T) {
	calls := 0
	app := idempotentApp(newMemStore(), &calls)

	_, _ = postMovement(t, app, "k1", `{"quantity":5}`)
	resp, body := postMovement(t, app, "k1", `{"quantity":6}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "IDEMPOTENCY_MISMATCH")
	assert.Equal(t, 1, calls)
}

// staleStore devuelve un fallo de lectura en el primer Get tras arm(), como una petición
// que leyó antes de que la primera guardara su registro.
type staleStore struct {
	*memStore
	missNext bool
}

func (s *staleStore) arm() { s.missNext = true }

func (s *staleStore) Get(ctx context.Context, key string) (string, error) {
	if s.missNext {
		s.missNext = false
		return "", redis.ErrNil
	}
	return s.memStore.Get(ctx, key)
}

func TestIdempotency_RegistroGuardadoAntesDelLockSeRepite(t *testing.T) {
	calls := 0
	store := &staleStore{memStore: newMemStore()}
	app := idempotentApp(store, &calls)

	resp, first := postMovement(t, app, "k1", `{"quantity":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// La segunda no ve el registro en su primera lectura pero obtiene el lock ya liberado.
	store.arm()
	resp, second := postMovement(t, app, "k1", `{"quantity":5}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "el handler no se ejecuta dos veces")

	_, err := store.memStore.Get(context.Background(), "idem:|POST|/movements:k1:lock")
	assert.ErrorIs(t, err, redis.ErrNil, "el lock se libera tras repetir")
}

func TestIdempotency_EnCurso409(t *testing.T) {
	calls := 0
	store := newMemStore()
	app := idempotentApp(store, &calls)

	lock := store.IdempotencyKey("|POST|/movements", "k1") + ":lock"
	_, _ = store.SetNX(context.Background(), lock, "1", time.Minute)

	resp, body := postMovement(t, app, "k1", `{"quantity":5}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "IDEMPOTENCY_IN_PROGRESS")
	assert.Equal(t, 0, calls)
}

func TestIdempotency_ErroresDeServidorNoSeCachean(t *testing.T) {
	calls := 0
	store := newMemStore()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.Nop(), nil)})
	app.Post("/movements", Idempotency(store), func(c *fiber.Ctx) error {
		calls++
		return errors.New("db caída")
	})

	resp, _ := postMovement(t, app, "k1", `{}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp, _ = postMovement(t, app, "k1", `{}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data, "ni registro ni lock quedan guardados")
}

type fixedLimiter struct{ allowed int64 }

func (l *fixedLimiter) FixedWindowAllow(_ context.Context, _ string, limit int64, _ time.Duration) (bool, int64, error) {
	l.allowed++
	return l.allowed <= limit, l.allowed, nil
}

func TestLoginRateLimit_Redis(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.Nop(), nil)})
	app.Post("/login", LoginRateLimit(&fixedLimiter{}, 2), func(c *fiber.Ctx) error { return c.SendStatus(200) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRequestID_PropagaCabecera(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(), RequestLogger(logger.Nop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-Id"))
}
