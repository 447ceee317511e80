package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiceCenter-api/internal/application/dto"
	"github.com/jhoicas/ServiceCenter-api/internal/application/orders"
)

// SalesOrderHandler ciclo de vida de órdenes de venta y sus devoluciones.
type SalesOrderHandler struct {
	uc  *orders.SalesOrderUseCase
	pdf *orders.SalesReturnPDFUseCase
}

// NewSalesOrderHandler construye el handler.
func NewSalesOrderHandler(uc *orders.SalesOrderUseCase, pdf *orders.SalesReturnPDFUseCase) *SalesOrderHandler {
	return &SalesOrderHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear orden de venta
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "sucursal, cliente y líneas"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	d, err := h.uc.Create(c.UserContext(), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSalesOrder(d.Order, d.Lines))
}

// GetByID GET /api/sales-orders/:id
func (h *SalesOrderHandler) GetByID(c *fiber.Ctx) error {
	d, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSalesOrder(d.Order, d.Lines))
}

// Confirm godoc
// @Summary      Confirmar orden (resuelve precios y reserva stock)
// @Tags         sales-orders
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      409  {object}  dto.ErrorResponse  "estado inválido o stock insuficiente"
// @Router       /api/sales-orders/{id}/confirm [post]
func (h *SalesOrderHandler) Confirm(c *fiber.Ctx) error {
	d, err := h.uc.Confirm(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSalesOrder(d.Order, d.Lines))
}

// Fulfill godoc
// @Summary      Despachar orden (consume FIFO y libera la reserva)
// @Tags         sales-orders
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/fulfill [post]
func (h *SalesOrderHandler) Fulfill(c *fiber.Ctx) error {
	d, err := h.uc.Fulfill(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSalesOrder(d.Order, d.Lines))
}

// CreateReturn godoc
// @Summary      Registrar devolución
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.CreateReturnRequest  true  "líneas devueltas"
// @Success      201   {object}  dto.SalesReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/returns [post]
func (h *SalesOrderHandler) CreateReturn(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	d, err := h.uc.CreateReturn(c.UserContext(), c.Params("id"), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSalesReturn(d))
}

// ReturnPDF godoc
// @Summary      Descargar nota de devolución
// @Tags         sales-orders
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-returns/{id}/pdf [get]
func (h *SalesOrderHandler) ReturnPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdf.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
