package dto

import "time"

// RecordMovementRequest body para POST /api/inventory/movements.
// Quantity es puntero para distinguir "no enviado" de 0.
type RecordMovementRequest struct {
	VariantID  string `json:"variant_id" validate:"required"`
	ChangeType string `json:"change_type" validate:"required,oneof=in out adjust"`
	Quantity   *int64 `json:"quantity" validate:"required,min=-1000000000000,max=1000000000000"`
	Note       string `json:"note" validate:"max=500"`
}

// VoidMovementRequest body opcional para DELETE /api/inventory/movements/:id.
type VoidMovementRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CorrectMovementRequest body para POST /api/inventory/movements/:id/corrections.
// Quantity es la cantidad que debió registrarse en el movimiento original.
type CorrectMovementRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,min=-1000000000000,max=1000000000000"`
	Note     string `json:"note" validate:"max=500"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID         string     `json:"id"`
	VariantID  string     `json:"variant_id"`
	ChangeType string     `json:"change_type"`
	Quantity   int64      `json:"quantity"`
	Note       string     `json:"note,omitempty"`
	CorrectsID *string    `json:"corrects_id,omitempty"`
	Voided     bool       `json:"voided"`
	VoidedAt   *time.Time `json:"voided_at,omitempty"`
	VoidedBy   string     `json:"voided_by,omitempty"`
	VoidReason string     `json:"void_reason,omitempty"`
	CreatedBy  string     `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	// StockAfter saldo de la variante tras aplicar el movimiento (solo en respuestas de escritura).
	StockAfter *int64 `json:"stock_after,omitempty"`
}

// MovementListResponse movimientos de una variante en orden de creación.
type MovementListResponse struct {
	VariantID string             `json:"variant_id"`
	Items     []MovementResponse `json:"items"`
}

// MovementPageResponse página del libro completo (sin filtro de variante).
type MovementPageResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// VoidMovementResponse resultado de anular un movimiento.
// VoidedCorrections lista las correcciones vigentes anuladas junto con el original.
type VoidMovementResponse struct {
	Movement          MovementResponse `json:"movement"`
	VoidedCorrections []string         `json:"voided_corrections,omitempty"`
	Stock             int64            `json:"stock"`
	AuditWarning      string           `json:"audit_warning"`
}

// StockResponse saldo corriente de una variante.
type StockResponse struct {
	VariantID     string    `json:"variant_id"`
	Quantity      int64     `json:"quantity"`
	MovementCount int64     `json:"movement_count"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// ReconcileResponse comparación entre el saldo corriente y el recálculo completo.
type ReconcileResponse struct {
	VariantID  string `json:"variant_id"`
	Balance    int64  `json:"balance"`
	Folded     int64  `json:"folded"`
	Consistent bool   `json:"consistent"`
	Repaired   bool   `json:"repaired"`
}
