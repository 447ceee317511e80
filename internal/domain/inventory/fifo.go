package inventory

import (
	"time"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// PlanStep consumo planificado sobre un lote.
type PlanStep struct {
	Lot      *entity.InventoryLot
	Quantity int64
}

// PlanFIFO calcula, sin efectos, cuánto tomar de cada lote (más antiguo primero) para cubrir quantity.
// Cada paso se recorta a la disponibilidad del lote; los lotes vencidos se omiten.
// Si la disponibilidad total no alcanza devuelve *domain.InsufficientStockError y ningún paso.
func PlanFIFO(branchID, productID string, lots []LotProjection, quantity int64, now time.Time) ([]PlanStep, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("cantidad debe ser positiva (recibido %d)", quantity)
	}
	var (
		steps     []PlanStep
		remaining = quantity
		available int64
	)
	for _, p := range lots {
		if p.Lot.ExpiryDate != nil && p.Lot.ExpiryDate.Before(now) {
			continue
		}
		if p.Quantities.Available <= 0 {
			continue
		}
		available += p.Quantities.Available
		if remaining == 0 {
			continue
		}
		take := min(p.Quantities.Available, remaining)
		steps = append(steps, PlanStep{Lot: p.Lot, Quantity: take})
		remaining -= take
	}
	if remaining > 0 {
		return nil, &domain.InsufficientStockError{
			BranchID:  branchID,
			ProductID: productID,
			Requested: quantity,
			Available: available,
		}
	}
	return steps, nil
}
