package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	dominv "github.com/jhoicas/ServiceCenter-api/internal/domain/inventory"
)

// StockSummaryQuery query de GET /api/inventory/summary.
type StockSummaryQuery struct {
	BranchID  string `query:"branch_id" validate:"required"`
	ProductID string `query:"product_id" validate:"required"`
}

// LotDTO lote con sus cantidades proyectadas.
type LotDTO struct {
	ID         string               `json:"id"`
	LotCode    string               `json:"lot_code"`
	SupplierID *string              `json:"supplier_id,omitempty"`
	ReceivedAt time.Time            `json:"received_at"`
	ExpiryDate *time.Time           `json:"expiry_date,omitempty"`
	UnitCost   decimal.Decimal      `json:"unit_cost"`
	Status     entity.LotStatus     `json:"status"`
	Quantities entity.LotQuantities `json:"quantities"`
}

// StockSummaryResponse resumen de un producto en una sucursal.
type StockSummaryResponse struct {
	BranchID     string                   `json:"branch_id"`
	ProductID    string                   `json:"product_id"`
	Totals       entity.LotQuantities     `json:"totals"`
	Unassigned   entity.LotQuantities     `json:"unassigned"`
	StatusCounts map[entity.LotStatus]int `json:"status_counts"`
	Lots         []LotDTO                 `json:"lots"`
}

// FromStockSummary mapea la proyección de dominio.
func FromStockSummary(s *dominv.StockSummary) StockSummaryResponse {
	out := StockSummaryResponse{
		BranchID:     s.BranchID,
		ProductID:    s.ProductID,
		Totals:       s.Totals,
		Unassigned:   s.Unassigned,
		StatusCounts: s.StatusCounts,
		Lots:         make([]LotDTO, 0, len(s.Lots)),
	}
	for _, p := range s.Lots {
		out.Lots = append(out.Lots, LotDTO{
			ID:         p.Lot.ID,
			LotCode:    p.Lot.LotCode,
			SupplierID: p.Lot.SupplierID,
			ReceivedAt: p.Lot.ReceivedAt,
			ExpiryDate: p.Lot.ExpiryDate,
			UnitCost:   p.Lot.UnitCost,
			Status:     p.Status,
			Quantities: p.Quantities,
		})
	}
	return out
}

// AdjustStockRequest body de POST /api/inventory/adjustments. Quantity con signo (negativo = merma).
type AdjustStockRequest struct {
	BranchID  string `json:"branch_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	LotID     string `json:"lot_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required"`
	Reason    string `json:"reason" validate:"max=255"`
}
