package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	ChangeTypeIn     = "in"     // entrada de stock
	ChangeTypeOut    = "out"    // salida de stock
	ChangeTypeAdjust = "adjust" // corrección con signo
)

// InventoryMovement es una entrada inmutable del libro de inventario de una variante.
// Las correcciones se registran como un nuevo ajuste con CorrectsID; la anulación es lógica (Voided).
type InventoryMovement struct {
	ID         string
	VariantID  string
	ChangeType string
	Quantity   int64 // >= 0 para in/out; con signo para adjust
	Note       string
	CorrectsID *string
	Voided     bool
	VoidedAt   *time.Time
	VoidedBy   string
	VoidReason string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StockBalance saldo corriente de una variante, actualizado en la misma transacción que cada movimiento.
type StockBalance struct {
	VariantID     string
	Quantity      int64
	MovementCount int64
	UpdatedAt     time.Time
}
