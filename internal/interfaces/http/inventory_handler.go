package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiceCenter-api/internal/application/dto"
	"github.com/jhoicas/ServiceCenter-api/internal/application/inventory"
)

// InventoryHandler consulta de stock por lotes y ajustes manuales.
type InventoryHandler struct {
	uc *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Summary godoc
// @Summary      Stock de un producto en una sucursal
// @Description  Totales proyectados desde el libro, conteo por estado de lote y detalle FIFO de lotes.
// @Tags         inventory
// @Produce      json
// @Param        branch_id   query  string  true  "Sucursal"
// @Param        product_id  query  string  true  "Producto"
// @Success      200  {object}  dto.StockSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	var q dto.StockSummaryQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	s, err := h.uc.Summary(c.UserContext(), q.BranchID, q.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromStockSummary(s))
}

// Adjust godoc
// @Summary      Ajuste manual de un lote
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "cantidad con signo"
// @Success      201   {object}  entity.StockTransaction
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	tx, err := h.uc.Adjust(c.UserContext(), inventory.AdjustInput{
		BranchID:  in.BranchID,
		ProductID: in.ProductID,
		LotID:     in.LotID,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}
