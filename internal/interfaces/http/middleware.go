package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/redis"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

const (
	// LocalRequestID key de Locals con el id de la petición.
	LocalRequestID   = "request_id"
	headerRequestID  = "X-Request-Id"
	headerIdempotent = "Idempotency-Key"
	headerReplayed   = "Idempotent-Replayed"

	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

// RequestID reutiliza X-Request-Id o genera uno nuevo y lo devuelve en la respuesta.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(headerRequestID, id)
		return c.Next()
	}
}

// GetRequestID id de la petición actual.
func GetRequestID(c *fiber.Ctx) string {
	return localString(c, LocalRequestID)
}

// RequestLogger registra cada petición con zerolog: método, ruta, status y latencia.
// El logger con request_id queda en el UserContext para las capas inferiores.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLog := log.With().Str("request_id", GetRequestID(c)).Logger()
		c.SetUserContext(reqLog.WithContext(c.UserContext()))

		err := c.Next()
		if err != nil {
			// Resolver el status antes de loguear; el ErrorHandler escribe la respuesta.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := reqLog.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = reqLog.Error()
		case status >= fiber.StatusBadRequest:
			ev = reqLog.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return nil
	}
}

// LoginRateLimit limita intentos por IP y minuto. Con Redis usa ventana fija compartida
// entre instancias; sin Redis cae al limiter en memoria de Fiber.
func LoginRateLimit(rl redis.RateLimiter, max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	tooMany := fiber.NewError(fiber.StatusTooManyRequests, "demasiados intentos, espere un minuto")
	if rl == nil {
		return limiter.New(limiter.Config{
			Max:          max,
			Expiration:   time.Minute,
			LimitReached: func(c *fiber.Ctx) error { return tooMany },
		})
	}
	return func(c *fiber.Ctx) error {
		ok, _, err := rl.FixedWindowAllow(c.UserContext(), "login:"+c.IP(), int64(max), time.Minute)
		if err != nil {
			// Redis caído: no bloquear el login.
			logger.FromContext(c.UserContext()).Warn().Err(err).Msg("rate limit no disponible")
			return c.Next()
		}
		if !ok {
			return tooMany
		}
		return c.Next()
	}
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency cachea la primera respuesta de una petición con Idempotency-Key y la repite
// para las siguientes con la misma clave. Una repetición mientras la primera sigue en curso
// recibe 409; reutilizar la clave con otro cuerpo recibe 422. Sin store el middleware no hace nada.
func Idempotency(store redis.IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(headerIdempotent))
		if store == nil || key == "" {
			return c.Next()
		}
		ctx := c.UserContext()
		requestHash := hashBody(c.Body())
		recordKey := store.IdempotencyKey(GetUserID(c)+"|"+c.Method()+"|"+c.Path(), key)

		stored, err := loadRecord(ctx, store, recordKey)
		if err != nil {
			return err
		}
		if stored != nil {
			return replayRecord(c, stored, requestHash)
		}

		lockKey := recordKey + ":lock"
		acquired, err := store.SetNX(ctx, lockKey, "1", idempotencyLockTTL)
		if err != nil {
			return fmt.Errorf("idempotency lock: %w", err)
		}
		if !acquired {
			return withCode("IDEMPOTENCY_IN_PROGRESS",
				fmt.Errorf("%w: petición con la misma Idempotency-Key en curso", domain.ErrConflict))
		}
		defer func() { _ = store.Del(ctx, lockKey) }()

		// La primera petición pudo guardar su registro y soltar el lock entre el Get y el SetNX.
		if stored, err = loadRecord(ctx, store, recordKey); err != nil {
			return err
		}
		if stored != nil {
			return replayRecord(c, stored, requestHash)
		}

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			return nil
		}
		rec := idempotencyRecord{
			Status:      status,
			Body:        base64.StdEncoding.EncodeToString(bytes.Clone(c.Response().Body())),
			ContentType: string(c.Response().Header.ContentType()),
			RequestHash: requestHash,
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil
		}
		if err := store.Set(ctx, recordKey, string(payload), idempotencyTTL); err != nil {
			logger.FromContext(ctx).Error().Err(err).Msg("no se pudo guardar el registro de idempotencia")
		}
		return nil
	}
}

func loadRecord(ctx context.Context, store redis.IdempotencyStore, recordKey string) (*idempotencyRecord, error) {
	stored, err := store.Get(ctx, recordKey)
	if err != nil && !errors.Is(err, redis.ErrNil) {
		return nil, fmt.Errorf("idempotency get: %w", err)
	}
	if stored == "" {
		return nil, nil
	}
	var rec idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &rec); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &rec, nil
}

func replayRecord(c *fiber.Ctx, rec *idempotencyRecord, requestHash string) error {
	if rec.RequestHash != requestHash {
		return withCode("IDEMPOTENCY_MISMATCH",
			fmt.Errorf("%w: Idempotency-Key reutilizada con otro cuerpo", domain.ErrUnprocessable))
	}
	body, _ := base64.StdEncoding.DecodeString(rec.Body)
	if rec.ContentType != "" {
		c.Set(fiber.HeaderContentType, rec.ContentType)
	}
	c.Set(headerReplayed, "true")
	return c.Status(rec.Status).Send(body)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}
