package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// MarketplaceHandler maneja marketplaces y publicaciones de variantes.
type MarketplaceHandler struct {
	markets  *usecase.MarketPlaceUseCase
	listings *usecase.ListingUseCase
}

// NewMarketplaceHandler construye el handler.
func NewMarketplaceHandler(markets *usecase.MarketPlaceUseCase, listings *usecase.ListingUseCase) *MarketplaceHandler {
	return &MarketplaceHandler{markets: markets, listings: listings}
}

// CreateMarket godoc
// @Summary      Crear marketplace
// @Tags         markets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MarketPlaceRequest  true  "Datos del marketplace"
// @Success      201   {object}  dto.MarketPlaceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/markets [post]
func (h *MarketplaceHandler) CreateMarket(c *fiber.Ctx) error {
	var in dto.MarketPlaceRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.markets.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMarket godoc
// @Summary      Obtener marketplace
// @Tags         markets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del marketplace"
// @Success      200  {object}  dto.MarketPlaceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/markets/{id} [get]
func (h *MarketplaceHandler) GetMarket(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.markets.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateMarket godoc
// @Summary      Actualizar marketplace
// @Tags         markets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del marketplace"
// @Param        body  body  dto.MarketPlaceRequest  true  "Datos del marketplace"
// @Success      200   {object}  dto.MarketPlaceResponse
// @Router       /api/markets/{id} [put]
func (h *MarketplaceHandler) UpdateMarket(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.MarketPlaceRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.markets.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListMarkets godoc
// @Summary      Listar marketplaces
// @Tags         markets
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.MarketPlaceListResponse
// @Router       /api/markets [get]
func (h *MarketplaceHandler) ListMarkets(c *fiber.Ctx) error {
	out, err := h.markets.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteMarket godoc
// @Summary      Eliminar marketplace (admin)
// @Tags         markets
// @Security     Bearer
// @Param        id   path  string  true  "ID del marketplace"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/markets/{id} [delete]
func (h *MarketplaceHandler) DeleteMarket(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.markets.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateListing godoc
// @Summary      Publicar variante en un marketplace
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ListingRequest  true  "Datos de la publicación"
// @Success      201   {object}  dto.ListingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/listings [post]
func (h *MarketplaceHandler) CreateListing(c *fiber.Ctx) error {
	var in dto.ListingRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.listings.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetListing godoc
// @Summary      Obtener publicación
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la publicación"
// @Success      200  {object}  dto.ListingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [get]
func (h *MarketplaceHandler) GetListing(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.listings.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateListing godoc
// @Summary      Actualizar publicación
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la publicación"
// @Param        body  body  dto.ListingRequest  true  "Datos de la publicación"
// @Success      200   {object}  dto.ListingResponse
// @Router       /api/listings/{id} [put]
func (h *MarketplaceHandler) UpdateListing(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.ListingRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.listings.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListListings godoc
// @Summary      Listar publicaciones
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        market_place_id  query  string  false  "Filtrar por marketplace"
// @Param        variant_id       query  string  false  "Filtrar por variante"
// @Param        status           query  string  false  "draft | published | error"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ListingListResponse
// @Router       /api/listings [get]
func (h *MarketplaceHandler) ListListings(c *fiber.Ctx) error {
	f := repository.ListingFilter{
		MarketPlaceID: c.Query("market_place_id"),
		VariantID:     c.Query("variant_id"),
		Status:        c.Query("status"),
	}
	out, err := h.listings.List(c.UserContext(), f, pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteListing godoc
// @Summary      Eliminar publicación
// @Tags         listings
// @Security     Bearer
// @Param        id   path  string  true  "ID de la publicación"
// @Success      204
// @Router       /api/listings/{id} [delete]
func (h *MarketplaceHandler) DeleteListing(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.listings.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
