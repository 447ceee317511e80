package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiceCenter-api/internal/application/dto"
	"github.com/jhoicas/ServiceCenter-api/internal/application/pricing"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
)

// PricingHandler consultas de listas de precios y cotizaciones.
type PricingHandler struct {
	resolver *pricing.Resolver
	now      func() time.Time
}

// NewPricingHandler construye el handler.
func NewPricingHandler(resolver *pricing.Resolver, now func() time.Time) *PricingHandler {
	if now == nil {
		now = time.Now
	}
	return &PricingHandler{resolver: resolver, now: now}
}

func (h *PricingHandler) query(c *fiber.Ctx) (dto.PriceQuery, time.Time, error) {
	var q dto.PriceQuery
	if err := bindQuery(c, &q); err != nil {
		return q, time.Time{}, err
	}
	asOf, err := dto.ParseAsOf(q.AsOf, h.now())
	if err != nil {
		return q, time.Time{}, domain.Invalid("as_of inválido: %s", q.AsOf)
	}
	return q, asOf, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ActiveBook godoc
// @Summary      Lista de precios vigente
// @Description  Prefiere la lista de la sucursal sobre la global; entre varias, la de inicio más reciente.
// @Tags         pricing
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal"
// @Param        as_of      query  string  false  "YYYY-MM-DD o RFC3339; por defecto ahora"
// @Success      200  {object}  dto.PriceBookResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/active-book [get]
func (h *PricingHandler) ActiveBook(c *fiber.Ctx) error {
	q, asOf, err := h.query(c)
	if err != nil {
		return writeError(c, err)
	}
	book, err := h.resolver.ResolveActivePriceBook(c.UserContext(), optional(q.BranchID), asOf)
	if err != nil {
		return writeError(c, err)
	}
	if book == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay lista de precios vigente"})
	}
	return c.JSON(dto.FromPriceBook(book))
}

// ProductPrice GET /api/pricing/products/:id/price
func (h *PricingHandler) ProductPrice(c *fiber.Ctx) error {
	q, asOf, err := h.query(c)
	if err != nil {
		return writeError(c, err)
	}
	price, err := h.resolver.ResolveUnitPrice(c.UserContext(), pricing.UnitPriceQuery{
		ProductID:   c.Params("id"),
		BranchID:    optional(q.BranchID),
		PriceBookID: optional(q.PriceBookID),
		AsOf:        asOf,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PriceResponse{ProductID: c.Params("id"), UnitPrice: price})
}

// ServicePrice GET /api/pricing/services/:id/price
func (h *PricingHandler) ServicePrice(c *fiber.Ctx) error {
	q, asOf, err := h.query(c)
	if err != nil {
		return writeError(c, err)
	}
	price, err := h.resolver.ResolveServicePrice(c.UserContext(), pricing.ServicePriceQuery{
		ServiceID:   c.Params("id"),
		BranchID:    optional(q.BranchID),
		PriceBookID: optional(q.PriceBookID),
		AsOf:        asOf,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PriceResponse{ServiceID: c.Params("id"), UnitPrice: price})
}

// BookingTotal godoc
// @Summary      Cotizar productos y servicios
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BookingTotalRequest  true  "ítems"
// @Success      200   {object}  dto.BookingTotalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pricing/booking-total [post]
func (h *PricingHandler) BookingTotal(c *fiber.Ctx) error {
	var in dto.BookingTotalRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	total, err := h.resolver.CalculateBookingTotalPrice(c.UserContext(), in.ToRequest(h.now()))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromBookingTotal(total))
}
