package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiceCenter-api/internal/application/dto"
	"github.com/jhoicas/ServiceCenter-api/internal/application/orders"
)

// PurchaseOrderHandler ciclo de vida de órdenes de compra.
type PurchaseOrderHandler struct {
	uc *orders.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *orders.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "sucursal, proveedor y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	d, err := h.uc.Create(c.UserContext(), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchaseOrder(d.Order, d.Lines))
}

// GetByID orden con sus líneas.
// GET /api/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	d, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(d.Order, d.Lines))
}

// Submit godoc
// @Summary      Enviar orden al proveedor (DRAFT -> PENDING_DELIVERY)
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *fiber.Ctx) error {
	o, err := h.uc.Submit(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(o, nil))
}

// Receive godoc
// @Summary      Recibir líneas de la orden
// @Description  Cada línea seleccionada se recibe completa y crea un lote. Sin line_ids se reciben todas las pendientes.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true   "ID de la orden"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  false  "line_ids"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseOrderRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	d, err := h.uc.Receive(c.UserContext(), c.Params("id"), orders.ReceiveInput{LineIDs: in.LineIDs})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(d.Order, d.Lines))
}
