package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// RatchetPeakPrice aplica el trinquete del precio pico de compra.
// Sin estadísticas crea unas sembradas con unitCost (created=true); solo sube si unitCost es estrictamente mayor.
// Devuelve changed=false cuando no hay nada que persistir.
func RatchetPeakPrice(stats *entity.ProductCostStats, productID string, unitCost decimal.Decimal, now time.Time) (out *entity.ProductCostStats, created, changed bool) {
	if stats == nil {
		return &entity.ProductCostStats{ProductID: productID, PeakPurchasePrice: unitCost, UpdatedAt: now}, true, true
	}
	if !unitCost.GreaterThan(stats.PeakPurchasePrice) {
		return stats, false, false
	}
	next := *stats
	next.PeakPurchasePrice = unitCost
	next.UpdatedAt = now
	return &next, false, true
}
