package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

type memCategories struct {
	mu   sync.Mutex
	byID map[string]*entity.Category
}

func (r *memCategories) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategories) Update(ctx context.Context, c *entity.Category) error {
	return r.Create(ctx, c)
}

func (r *memCategories) List(_ context.Context, _, _ int) ([]*entity.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *memCategories) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

// brandCounter solo responde cuántas marcas tiene una categoría.
type brandCounter struct {
	repository.BrandRepository
	count int64
}

func (b brandCounter) CountByCategory(context.Context, string) (int64, error) { return b.count, nil }

func catalogApp(brands int64) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop(), nil)})
	categories := &memCategories{byID: map[string]*entity.Category{}}
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC: usecase.NewCategoryUseCase(categories, brandCounter{count: brands}),
		JWTSecret:  testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func TestCategories_FlujoCompleto(t *testing.T) {
	app := catalogApp(0)

	resp, _ := call(t, app, http.MethodPost, "/api/categories", "viewer", `{"name":"Beauty"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "viewer no puede crear")

	resp, created := call(t, app, http.MethodPost, "/api/categories", "editor", `{"name":"Beauty"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	resp, body := call(t, app, http.MethodPost, "/api/categories", "editor", `{"name":"Beauty"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "This item already exists.", body["message"])

	resp, body = call(t, app, http.MethodPost, "/api/categories", "editor", `{"description":"sin nombre"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	detail, _ := body["detail"].(map[string]interface{})
	assert.Contains(t, detail, "name")

	resp, body = call(t, app, http.MethodGet, "/api/categories/"+id, "viewer", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Beauty", body["name"])

	resp, _ = call(t, app, http.MethodDelete, "/api/categories/"+id, "editor", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "borrar requiere admin")

	resp, _ = call(t, app, http.MethodDelete, "/api/categories/"+id, "admin", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/categories/"+id, "viewer", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestCategories_BorrarConMarcas409(t *testing.T) {
	app := catalogApp(2)
	resp, created := call(t, app, http.MethodPost, "/api/categories", "admin", `{"name":"Food"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := call(t, app, http.MethodDelete, "/api/categories/"+created["id"].(string), "admin", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestCategories_Listado(t *testing.T) {
	app := catalogApp(0)
	_, _ = call(t, app, http.MethodPost, "/api/categories", "admin", `{"name":"Food"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/categories?limit=500", nil)
	req.Header.Set("Authorization", tokenForRole(t, "viewer"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out dto.CategoryListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 100, out.Page.Limit, "limit se acota a 100")
}

func TestHealth(t *testing.T) {
	app := catalogApp(0)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
