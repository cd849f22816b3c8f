package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/ranking"
)

// RankingHandler expone los snapshots de ranking del marketplace.
type RankingHandler struct {
	uc *ranking.UseCase
}

// NewRankingHandler construye el handler.
func NewRankingHandler(uc *ranking.UseCase) *RankingHandler {
	return &RankingHandler{uc: uc}
}

// List godoc
// @Summary      Listar snapshots de ranking
// @Tags         rankings
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Categoría"
// @Param        sort      query  string  false  "created_at | updated_at"
// @Param        order     query  string  false  "asc | desc"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SnapshotListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/rankings [get]
func (h *RankingHandler) List(c *fiber.Ctx) error {
	in := dto.SnapshotListRequest{
		PageRequest: pageFromQuery(c),
		Category:    c.Query("category"),
		Sort:        c.Query("sort"),
		Order:       c.Query("order"),
	}
	if err := validateStruct(&in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Today godoc
// @Summary      Ranking del día
// @Description  Devuelve el snapshot de hoy (UTC) de la categoría; si no existe, lo captura.
// @Tags         rankings
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "Categoría"
// @Success      200  {object}  dto.SnapshotResponse
// @Router       /api/rankings/today/{category} [get]
func (h *RankingHandler) Today(c *fiber.Ctx) error {
	out, err := h.uc.Today(c.UserContext(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Scrape godoc
// @Summary      Capturar ranking ahora
// @Tags         rankings
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "Categoría"
// @Success      201  {object}  dto.SnapshotResponse
// @Router       /api/rankings/scrape/{category} [post]
func (h *RankingHandler) Scrape(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(c.UserContext(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener snapshot
// @Tags         rankings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del snapshot"
// @Success      200  {object}  dto.SnapshotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rankings/{id} [get]
func (h *RankingHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Descargar reporte PDF del snapshot
// @Tags         rankings
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del snapshot"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rankings/{id}/report [get]
func (h *RankingHandler) Report(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	pdf, filename, err := h.uc.Report(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(pdf)
}

// Delete godoc
// @Summary      Eliminar snapshot (admin)
// @Tags         rankings
// @Security     Bearer
// @Param        id   path  string  true  "ID del snapshot"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rankings/{id} [delete]
func (h *RankingHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
