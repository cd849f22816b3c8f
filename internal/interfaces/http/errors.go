package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
	"github.com/jhoicas/Catalogo-api/pkg/monitoring"
)

// Mensajes fijos por status; el detalle técnico viaja en detail.
var statusMessages = map[int]string{
	fiber.StatusBadRequest:          "Invalid request.",
	fiber.StatusUnauthorized:        "Please log in again.",
	fiber.StatusForbidden:           "You don't have permission.",
	fiber.StatusNotFound:            "Resource not found.",
	fiber.StatusConflict:            "This item already exists.",
	fiber.StatusUnprocessableEntity: "Validation error occurred.",
	fiber.StatusInternalServerError: "Internal server error. Please try again later.",
}

// StatusMessage devuelve el texto de la tabla para status; los no listados caen en 500 o 400.
func StatusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if status >= fiber.StatusInternalServerError {
		return statusMessages[fiber.StatusInternalServerError]
	}
	return statusMessages[fiber.StatusBadRequest]
}

// codedError fija el code de la respuesta sin perder la clasificación del error base.
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(code string, err error) error {
	return &codedError{code: code, err: err}
}

// classification resultado de traducir un error a HTTP.
type classification struct {
	status     int
	code       string
	detail     interface{}
	classified bool
}

// classify traduce errores de dominio, de validación y de Fiber.
func classify(err error) classification {
	var out classification
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		out = classification{status: fiber.StatusBadRequest, code: "INVALID_INPUT", classified: true}
	case errors.Is(err, domain.ErrUnauthorized):
		out = classification{status: fiber.StatusUnauthorized, code: "UNAUTHORIZED", classified: true}
	case errors.Is(err, domain.ErrForbidden):
		out = classification{status: fiber.StatusForbidden, code: "FORBIDDEN", classified: true}
	case errors.Is(err, domain.ErrNotFound):
		out = classification{status: fiber.StatusNotFound, code: "NOT_FOUND", classified: true}
	case errors.Is(err, domain.ErrDuplicate):
		out = classification{status: fiber.StatusConflict, code: "DUPLICATE", classified: true}
	case errors.Is(err, domain.ErrConflict):
		out = classification{status: fiber.StatusConflict, code: "CONFLICT", classified: true}
	case errors.Is(err, domain.ErrInsufficientStock):
		out = classification{status: fiber.StatusUnprocessableEntity, code: "INSUFFICIENT_STOCK", classified: true}
	case errors.Is(err, domain.ErrUnprocessable):
		out = classification{status: fiber.StatusUnprocessableEntity, code: "UNPROCESSABLE", classified: true}
	case errors.As(err, &fe):
		out = classification{status: fe.Code, code: "HTTP_" + httpCodeName(fe.Code), classified: true}
		if fe.Code < fiber.StatusInternalServerError {
			out.detail = fe.Message
		}
		return out
	default:
		return classification{status: fiber.StatusInternalServerError, code: "INTERNAL"}
	}

	var ce *codedError
	if errors.As(err, &ce) {
		out.code = ce.code
	}
	out.detail = errorDetail(err)
	return out
}

func errorDetail(err error) interface{} {
	var ve *requestValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	var de *domain.ValidationError
	if errors.As(err, &de) {
		return fiber.Map{"field": de.Field, "reason": de.Reason}
	}
	return err.Error()
}

func httpCodeName(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case fiber.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	}
	if status >= fiber.StatusInternalServerError {
		return "SERVER_ERROR"
	}
	return "BAD_REQUEST"
}

// ErrorHandler es el fiber.ErrorHandler de la API: responde {code, message, detail} y
// envía al colector los 5xx y los errores sin clasificar.
func ErrorHandler(log *logger.Logger, reporter monitoring.Reporter) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		cl := classify(err)
		if reporter != nil && monitoring.ShouldReport(cl.status, cl.classified) {
			reporter.Report(c.UserContext(), monitoring.Event{
				Status:    cl.status,
				Code:      cl.code,
				Method:    c.Method(),
				Path:      c.Path(),
				RequestID: GetRequestID(c),
				UserID:    GetUserID(c),
				Err:       err,
			})
		} else if cl.status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		}
		return c.Status(cl.status).JSON(dto.ErrorResponse{
			Code:    cl.code,
			Message: StatusMessage(cl.status),
			Detail:  cl.detail,
		})
	}
}
