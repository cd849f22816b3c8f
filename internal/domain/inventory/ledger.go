package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// MaxQuantity cota de |cantidad| por movimiento. Mantiene saldos y compensaciones lejos del
// límite de int64.
const MaxQuantity int64 = 1_000_000_000_000

// ValidChangeType indica si el tipo de movimiento es in, out o adjust.
func ValidChangeType(changeType string) bool {
	switch changeType {
	case entity.ChangeTypeIn, entity.ChangeTypeOut, entity.ChangeTypeAdjust:
		return true
	}
	return false
}

// ValidateMovement aplica las reglas de forma de un movimiento (servicio de dominio).
// in/out exigen cantidad >= 0; adjust admite signo pero no 0.
func ValidateMovement(changeType string, quantity int64) error {
	if !ValidChangeType(changeType) {
		return domain.NewValidationError("change_type", "debe ser in, out o adjust")
	}
	if quantity > MaxQuantity || quantity < -MaxQuantity {
		return domain.NewValidationError("quantity", fmt.Sprintf("excede el máximo de %d unidades", MaxQuantity))
	}
	switch changeType {
	case entity.ChangeTypeIn, entity.ChangeTypeOut:
		if quantity < 0 {
			return domain.NewValidationError("quantity", "no puede ser negativa para in/out")
		}
	case entity.ChangeTypeAdjust:
		if quantity == 0 {
			return domain.NewValidationError("quantity", "un ajuste no puede ser 0")
		}
	}
	return nil
}

// Delta devuelve el efecto con signo del movimiento sobre el stock.
func Delta(changeType string, quantity int64) int64 {
	switch changeType {
	case entity.ChangeTypeIn:
		return quantity
	case entity.ChangeTypeOut:
		return -quantity
	case entity.ChangeTypeAdjust:
		return quantity
	}
	return 0
}

// Fold recalcula el stock desde cero: sum(in) - sum(out) + sum(adjust) sobre los movimientos no anulados.
// Sin movimientos devuelve 0.
func Fold(movements []*entity.InventoryMovement) int64 {
	var total int64
	for _, m := range movements {
		if m == nil || m.Voided {
			continue
		}
		total += Delta(m.ChangeType, m.Quantity)
	}
	return total
}

// Apply aplica un delta al saldo corriente. Con allowNegative=false un resultado < 0
// devuelve ErrInsufficientStock y el saldo original. Un resultado fuera de int64 es
// ValidationError, con o sin saldo negativo permitido.
func Apply(balance, delta int64, allowNegative bool) (int64, error) {
	next, ok := addChecked(balance, delta)
	if !ok {
		return balance, domain.NewValidationError("quantity", fmt.Sprintf("el saldo %d desborda con el movimiento %d", balance, delta))
	}
	if next < 0 && !allowNegative {
		return balance, fmt.Errorf("%w: saldo %d, movimiento %d", domain.ErrInsufficientStock, balance, delta)
	}
	return next, nil
}

// Effect efecto neto vigente de original: su delta más el de sus correcciones no anuladas.
func Effect(original *entity.InventoryMovement, corrections []*entity.InventoryMovement) (int64, error) {
	total := Delta(original.ChangeType, original.Quantity)
	for _, c := range corrections {
		if c == nil || c.Voided {
			continue
		}
		var ok bool
		if total, ok = addChecked(total, Delta(c.ChangeType, c.Quantity)); !ok {
			return 0, domain.NewValidationError("quantity", "el efecto acumulado de las correcciones desborda")
		}
	}
	return total, nil
}

// Compensation devuelve la cantidad del ajuste que lleva el efecto vigente de original (su delta
// más el de las correcciones ya aplicadas) al de un movimiento del mismo tipo con cantidad corrected.
// 0 significa que no hay nada que corregir.
func Compensation(original *entity.InventoryMovement, corrections []*entity.InventoryMovement, corrected int64) (int64, error) {
	current, err := Effect(original, corrections)
	if err != nil {
		return 0, err
	}
	diff, ok := addChecked(Delta(original.ChangeType, corrected), negate(current))
	if !ok || current == math.MinInt64 {
		return 0, domain.NewValidationError("quantity", "la compensación desborda")
	}
	return diff, nil
}

func addChecked(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return a, false
	}
	return sum, true
}

func negate(v int64) int64 {
	if v == math.MinInt64 {
		return math.MaxInt64
	}
	return -v
}
