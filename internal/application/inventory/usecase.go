package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/inventory"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// AuditWarning acompaña toda anulación: el movimiento sigue en el libro pero deja de contar.
const AuditWarning = "movement voided: the entry is kept for audit but no longer counts toward stock; this cannot be undone"

// LedgerUseCase casos de uso del libro de inventario por variante.
// Las escrituras pasan por TxRunner con la fila de saldo bloqueada (SELECT FOR UPDATE);
// las lecturas usan los repositorios del pool.
type LedgerUseCase struct {
	txRunner      TxRunner
	movRepo       repository.InventoryMovementRepository
	balanceRepo   repository.StockBalanceRepository
	variants      VariantChecker
	metrics       LedgerMetrics
	allowNegative bool
	now           func() time.Time
}

// Option configura LedgerUseCase.
type Option func(*LedgerUseCase)

// WithAllowNegativeStock permite saldos negativos (por defecto se rechazan con ErrInsufficientStock).
func WithAllowNegativeStock(allow bool) Option {
	return func(uc *LedgerUseCase) { uc.allowNegative = allow }
}

// WithMetrics registra contadores de movimientos, rechazos y descuadres.
func WithMetrics(m LedgerMetrics) Option {
	return func(uc *LedgerUseCase) { uc.metrics = m }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *LedgerUseCase) { uc.now = now }
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	movRepo repository.InventoryMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	variants VariantChecker,
	opts ...Option,
) *LedgerUseCase {
	uc := &LedgerUseCase{
		txRunner:    txRunner,
		movRepo:     movRepo,
		balanceRepo: balanceRepo,
		variants:    variants,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RecordMovement valida y registra un movimiento. En una sola transacción bloquea el saldo,
// aplica el delta, inserta el movimiento y actualiza el saldo; si algo falla no queda nada escrito.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, variantID, changeType string, quantity int64, note, userID string) (*dto.MovementResponse, error) {
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		uc.reject("validation")
		return nil, domain.NewValidationError("variant_id", "es obligatorio")
	}
	if err := inventory.ValidateMovement(changeType, quantity); err != nil {
		uc.reject("validation")
		return nil, err
	}
	if err := uc.ensureVariant(ctx, variantID); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		VariantID:  variantID,
		ChangeType: changeType,
		Quantity:   quantity,
		Note:       strings.TrimSpace(note),
		CreatedBy:  userID,
	}
	stock, err := uc.appendInTx(ctx, mov)
	if err != nil {
		return nil, err
	}
	uc.recorded(changeType)
	out := toMovementResponse(mov)
	out.StockAfter = &stock
	return &out, nil
}

// CurrentStock devuelve el saldo corriente (lectura O(1)). Sin movimientos el saldo es 0.
// Una variante inexistente devuelve ErrNotFound.
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, variantID string) (*dto.StockResponse, error) {
	exists, err := uc.variants.VariantExists(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
	}
	b, err := uc.balanceRepo.Get(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		VariantID:     variantID,
		Quantity:      b.Quantity,
		MovementCount: b.MovementCount,
		UpdatedAt:     b.UpdatedAt,
	}, nil
}

// ListMovements devuelve los movimientos de la variante en orden created_at ASC, id ASC.
// Dos llamadas sin escrituras intermedias devuelven el mismo resultado.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, variantID string, includeVoided bool) (*dto.MovementListResponse, error) {
	exists, err := uc.variants.VariantExists(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
	}
	list, err := uc.movRepo.ListByVariant(ctx, variantID, includeVoided)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{VariantID: variantID, Items: items}, nil
}

// GetMovement obtiene un movimiento por ID (incluye anulados).
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	out := toMovementResponse(m)
	return &out, nil
}

// ListAllMovements pagina el libro completo (todas las variantes) en orden created_at ASC, id ASC.
func (uc *LedgerUseCase) ListAllMovements(ctx context.Context, page dto.PageRequest, includeVoided bool) (*dto.MovementPageResponse, error) {
	page.DefaultPage()
	list, total, err := uc.movRepo.List(ctx, page.Limit, page.Offset, includeVoided)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementPageResponse{Items: items, Page: dto.NewPage(page, total)}, nil
}

// DeleteMovement anula el movimiento (soft-void): la fila queda en el libro marcada como anulada
// y su efecto se revierte del saldo en la misma transacción. Anular dos veces es ErrConflict.
// Las correcciones vigentes del movimiento se anulan con él, así el saldo revierte el efecto neto.
func (uc *LedgerUseCase) DeleteMovement(ctx context.Context, movementID, reason, userID string) (*dto.VoidMovementResponse, error) {
	reason = strings.TrimSpace(reason)
	var (
		voided   *entity.InventoryMovement
		cascaded []string
		stock    int64
	)
	err := uc.txRunner.Run(ctx, func(movRepo repository.InventoryMovementRepository, balanceRepo repository.StockBalanceRepository) error {
		m, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Voided {
			return fmt.Errorf("%w: el movimiento ya está anulado", domain.ErrConflict)
		}
		corrections, err := movRepo.ListLiveCorrections(ctx, m.ID)
		if err != nil {
			return err
		}
		effect, err := inventory.Effect(m, corrections)
		if err != nil {
			return err
		}
		balance, err := balanceRepo.GetForUpdate(ctx, m.VariantID)
		if err != nil {
			return err
		}
		if effect == math.MinInt64 {
			return domain.NewValidationError("quantity", "el efecto del movimiento no se puede revertir")
		}
		next, err := inventory.Apply(balance.Quantity, -effect, uc.allowNegative)
		if err != nil {
			return err
		}

		at := uc.now().UTC()
		if err := movRepo.MarkVoided(ctx, m.ID, userID, reason, at); err != nil {
			return err
		}
		cascaded = make([]string, 0, len(corrections))
		for _, c := range corrections {
			if err := movRepo.MarkVoided(ctx, c.ID, userID, fmt.Sprintf("anulado con %s", m.ID), at); err != nil {
				return err
			}
			cascaded = append(cascaded, c.ID)
		}
		balance.Quantity = next
		balance.MovementCount -= int64(1 + len(corrections))
		if balance.MovementCount < 0 {
			balance.MovementCount = 0
		}
		if err := balanceRepo.Upsert(ctx, balance); err != nil {
			return err
		}
		m.Voided = true
		m.VoidedAt = &at
		m.VoidedBy = userID
		m.VoidReason = reason
		voided, stock = m, next
		return nil
	})
	if err != nil {
		uc.rejectErr(err)
		return nil, err
	}
	uc.recorded("void")
	return &dto.VoidMovementResponse{
		Movement:          toMovementResponse(voided),
		VoidedCorrections: cascaded,
		Stock:             stock,
		AuditWarning:      AuditWarning,
	}, nil
}

// CorrectMovement registra un ajuste compensatorio que lleva el efecto vigente del movimiento original
// (incluidas sus correcciones anteriores) al de la cantidad corregida. El original no se modifica;
// el ajuste lo referencia con corrects_id. Todo ocurre con el original y el saldo bloqueados.
func (uc *LedgerUseCase) CorrectMovement(ctx context.Context, movementID string, quantity int64, note, userID string) (*dto.MovementResponse, error) {
	var (
		mov   *entity.InventoryMovement
		stock int64
	)
	err := uc.txRunner.Run(ctx, func(movRepo repository.InventoryMovementRepository, balanceRepo repository.StockBalanceRepository) error {
		original, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrNotFound
		}
		if original.Voided {
			return fmt.Errorf("%w: no se puede corregir un movimiento anulado", domain.ErrConflict)
		}
		if original.CorrectsID != nil {
			return fmt.Errorf("%w: corrija el movimiento original %s", domain.ErrConflict, *original.CorrectsID)
		}
		if err := inventory.ValidateMovement(original.ChangeType, quantity); err != nil {
			return err
		}
		corrections, err := movRepo.ListLiveCorrections(ctx, original.ID)
		if err != nil {
			return err
		}
		diff, err := inventory.Compensation(original, corrections, quantity)
		if err != nil {
			return err
		}
		if diff == 0 {
			return domain.NewValidationError("quantity", "coincide con la cantidad vigente; no hay nada que corregir")
		}

		balance, err := balanceRepo.GetForUpdate(ctx, original.VariantID)
		if err != nil {
			return err
		}
		next, err := inventory.Apply(balance.Quantity, diff, uc.allowNegative)
		if err != nil {
			return err
		}

		if note = strings.TrimSpace(note); note == "" {
			note = fmt.Sprintf("corrección de %s: %d → %d", original.ChangeType, original.Quantity, quantity)
		}
		correctsID := original.ID
		mov = &entity.InventoryMovement{
			VariantID:  original.VariantID,
			ChangeType: entity.ChangeTypeAdjust,
			Quantity:   diff,
			Note:       note,
			CorrectsID: &correctsID,
			CreatedBy:  userID,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		balance.Quantity = next
		balance.MovementCount++
		if err := balanceRepo.Upsert(ctx, balance); err != nil {
			return err
		}
		stock = next
		return nil
	})
	if err != nil {
		uc.rejectErr(err)
		return nil, err
	}
	uc.recorded(entity.ChangeTypeAdjust)
	out := toMovementResponse(mov)
	out.StockAfter = &stock
	return &out, nil
}

// Reconcile recalcula el stock desde cero (Fold) y lo compara con el saldo corriente.
// Con repair=true y descuadre, reescribe el saldo con el valor recalculado.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, variantID string, repair bool) (*dto.ReconcileResponse, error) {
	exists, err := uc.variants.VariantExists(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
	}

	out := &dto.ReconcileResponse{VariantID: variantID}
	err = uc.txRunner.Run(ctx, func(movRepo repository.InventoryMovementRepository, balanceRepo repository.StockBalanceRepository) error {
		balance, err := balanceRepo.GetForUpdate(ctx, variantID)
		if err != nil {
			return err
		}
		movs, err := movRepo.ListByVariant(ctx, variantID, false)
		if err != nil {
			return err
		}
		out.Balance = balance.Quantity
		out.Folded = inventory.Fold(movs)
		out.Consistent = out.Balance == out.Folded && balance.MovementCount == int64(len(movs))
		if out.Consistent || !repair {
			return nil
		}
		balance.Quantity = out.Folded
		balance.MovementCount = int64(len(movs))
		if err := balanceRepo.Upsert(ctx, balance); err != nil {
			return err
		}
		out.Repaired = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistent && uc.metrics != nil {
		uc.metrics.Mismatch()
	}
	return out, nil
}

// appendInTx bloquea el saldo, aplica el delta de mov, inserta mov y actualiza el saldo.
// Devuelve el saldo resultante.
func (uc *LedgerUseCase) appendInTx(ctx context.Context, mov *entity.InventoryMovement) (int64, error) {
	var stock int64
	err := uc.txRunner.Run(ctx, func(movRepo repository.InventoryMovementRepository, balanceRepo repository.StockBalanceRepository) error {
		balance, err := balanceRepo.GetForUpdate(ctx, mov.VariantID)
		if err != nil {
			return err
		}
		next, err := inventory.Apply(balance.Quantity, inventory.Delta(mov.ChangeType, mov.Quantity), uc.allowNegative)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		balance.Quantity = next
		balance.MovementCount++
		if err := balanceRepo.Upsert(ctx, balance); err != nil {
			return err
		}
		stock = next
		return nil
	})
	if err != nil {
		uc.rejectErr(err)
		return 0, err
	}
	return stock, nil
}

func (uc *LedgerUseCase) ensureVariant(ctx context.Context, variantID string) error {
	exists, err := uc.variants.VariantExists(ctx, variantID)
	if err != nil {
		return err
	}
	if !exists {
		uc.reject("unknown_variant")
		return domain.NewValidationError("variant_id", "no corresponde a una variante existente")
	}
	return nil
}

func (uc *LedgerUseCase) recorded(changeType string) {
	if uc.metrics != nil {
		uc.metrics.Recorded(changeType)
	}
}

func (uc *LedgerUseCase) reject(reason string) {
	if uc.metrics != nil {
		uc.metrics.Rejected(reason)
	}
}

func (uc *LedgerUseCase) rejectErr(err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		uc.reject("validation")
	case errors.Is(err, domain.ErrInsufficientStock):
		uc.reject("insufficient_stock")
	case errors.Is(err, domain.ErrConflict):
		uc.reject("conflict")
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		VariantID:  m.VariantID,
		ChangeType: m.ChangeType,
		Quantity:   m.Quantity,
		Note:       m.Note,
		CorrectsID: m.CorrectsID,
		Voided:     m.Voided,
		VoidedAt:   m.VoidedAt,
		VoidedBy:   m.VoidedBy,
		VoidReason: m.VoidReason,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
