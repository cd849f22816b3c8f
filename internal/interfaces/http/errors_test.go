package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
	"github.com/jhoicas/Catalogo-api/pkg/monitoring"
)

type captureReporter struct {
	mu     sync.Mutex
	events []monitoring.Event
}

func (r *captureReporter) Report(_ context.Context, ev monitoring.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewValidationError("quantity", "debe ser >= 0"), 400, "INVALID_INPUT"},
		{domain.ErrUnauthorized, 401, "UNAUTHORIZED"},
		{domain.ErrForbidden, 403, "FORBIDDEN"},
		{fmt.Errorf("get variant: %w", domain.ErrNotFound), 404, "NOT_FOUND"},
		{domain.ErrEmailAlreadyExists, 409, "DUPLICATE"},
		{domain.ErrConflict, 409, "CONFLICT"},
		{domain.ErrInsufficientStock, 422, "INSUFFICIENT_STOCK"},
		{domain.ErrUnprocessable, 422, "UNPROCESSABLE"},
		{errors.New("boom"), 500, "INTERNAL"},
		{fiber.ErrRequestEntityTooLarge, 413, "HTTP_TOO_LARGE"},
		{withCode("MISSING_TOKEN", domain.ErrUnauthorized), 401, "MISSING_TOKEN"},
	}
	for _, tc := range cases {
		cl := classify(tc.err)
		assert.Equal(t, tc.status, cl.status, tc.err.Error())
		assert.Equal(t, tc.code, cl.code, tc.err.Error())
	}
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Invalid request.", StatusMessage(400))
	assert.Equal(t, "Validation error occurred.", StatusMessage(422))
	assert.Equal(t, "Internal server error. Please try again later.", StatusMessage(503))
	assert.Equal(t, "Invalid request.", StatusMessage(413))
}

func TestErrorHandler_ReportaSolo5xx(t *testing.T) {
	rep := &captureReporter{}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.Nop(), rep)})
	app.Use(RequestID())
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db caída") })
	app.Get("/missing", func(c *fiber.Ctx) error { return domain.ErrNotFound })
	app.Get("/stock", func(c *fiber.Ctx) error {
		return fmt.Errorf("%w: saldo 2, salida 5", domain.ErrInsufficientStock)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "Internal server error. Please try again later.", body.Message)
	assert.Nil(t, body.Detail, "los 5xx no exponen el detalle")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/stock", nil), -1)
	require.NoError(t, err)
	body = dto.ErrorResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 422, resp.StatusCode)
	assert.Contains(t, body.Detail, "saldo 2")

	require.Len(t, rep.events, 1)
	assert.Equal(t, 500, rep.events[0].Status)
	assert.Equal(t, "/boom", rep.events[0].Path)
	assert.NotEmpty(t, rep.events[0].RequestID)
}

func TestValidateStruct_DetallePorCampo(t *testing.T) {
	err := validateStruct(&dto.RecordMovementRequest{ChangeType: "transfer"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var ve *requestValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "es requerido", ve.Fields["variant_id"])
	assert.Equal(t, "debe ser uno de: in out adjust", ve.Fields["change_type"])
	assert.Equal(t, "es requerido", ve.Fields["quantity"])
}
