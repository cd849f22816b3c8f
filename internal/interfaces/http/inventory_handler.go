package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
)

// InventoryHandler maneja el libro de movimientos de inventario.
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  in/out con cantidad >= 0, adjust con cantidad con signo distinta de cero.
// @Description  Acepta Idempotency-Key para repetir la respuesta original.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                     false  "Clave de idempotencia"
// @Param        body             body    dto.RecordMovementRequest  true   "variant_id, change_type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RecordMovement(c.UserContext(), in.VariantID, in.ChangeType, *in.Quantity, in.Note, GetUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Con variant_id devuelve el libro de esa variante; sin él pagina el libro completo.
// @Description  Orden de registro (más antiguo primero).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id      query  string  false  "ID de la variante"
// @Param        include_voided  query  bool    false  "Incluir anulados"
// @Param        limit           query  int     false  "Tamaño de página (sin variant_id)"
// @Param        offset          query  int     false  "Desplazamiento (sin variant_id)"
// @Success      200  {object}  dto.MovementListResponse
// @Success      200  {object}  dto.MovementPageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	includeVoided := c.QueryBool("include_voided", false)
	variantID := c.Query("variant_id")
	if variantID == "" {
		out, err := h.uc.ListAllMovements(c.UserContext(), pageFromQuery(c), includeVoided)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
	out, err := h.uc.ListMovements(c.UserContext(), variantID, includeVoided)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetMovement(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// VoidMovement godoc
// @Summary      Anular movimiento (admin)
// @Description  Marca el movimiento como anulado y revierte su efecto en el saldo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID del movimiento"
// @Param        body  body  dto.VoidMovementRequest  false  "Motivo"
// @Success      200   {object}  dto.VoidMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) VoidMovement(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.VoidMovementRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return err
		}
	} else {
		in.Reason = c.Query("reason")
	}
	out, err := h.uc.DeleteMovement(c.UserContext(), id, in.Reason, GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CorrectMovement godoc
// @Summary      Corregir movimiento
// @Description  Registra un ajuste compensatorio para que el efecto neto sea la cantidad corregida.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del movimiento"
// @Param        body  body  dto.CorrectMovementRequest  true  "Cantidad corregida"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/corrections [post]
func (h *InventoryHandler) CorrectMovement(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.CorrectMovementRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CorrectMovement(c.UserContext(), id, *in.Quantity, in.Note, GetUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CurrentStock godoc
// @Summary      Stock actual de una variante
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variantId  path  string  true  "ID de la variante"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{variantId} [get]
func (h *InventoryHandler) CurrentStock(c *fiber.Ctx) error {
	variantID, err := pathID(c, "variantId")
	if err != nil {
		return err
	}
	out, err := h.uc.CurrentStock(c.UserContext(), variantID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar saldo con movimientos
// @Description  Compara el saldo guardado con la suma de movimientos activos. Solo lectura.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variantId  path   string  true   "ID de la variante"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/inventory/stock/{variantId}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	return h.reconcile(c, false)
}

// RepairStock godoc
// @Summary      Reparar saldo descuadrado
// @Description  Concilia y, si hay descuadre, reescribe el saldo con la suma de movimientos activos. Solo admin.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variantId  path   string  true   "ID de la variante"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{variantId}/reconcile [post]
func (h *InventoryHandler) RepairStock(c *fiber.Ctx) error {
	return h.reconcile(c, true)
}

func (h *InventoryHandler) reconcile(c *fiber.Ctx, repair bool) error {
	variantID, err := pathID(c, "variantId")
	if err != nil {
		return err
	}
	out, err := h.uc.Reconcile(c.UserContext(), variantID, repair)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
