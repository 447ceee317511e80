package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ProductPrice aplica la política del ítem a un producto. peak puede ser nil si no hay estadísticas.
func ProductPrice(item *entity.PriceBookItem, peak *entity.ProductCostStats) (decimal.Decimal, error) {
	switch item.PolicyType {
	case entity.PolicyFixed:
		if item.FixedPrice == nil {
			return decimal.Zero, fmt.Errorf("%w: ítem %s FIXED sin precio fijo", domain.ErrInvalidState, item.ID)
		}
		return *item.FixedPrice, nil
	case entity.PolicyMarkupOnPeak:
		if item.MarkupPercent == nil {
			return decimal.Zero, fmt.Errorf("%w: ítem %s MARKUP_ON_PEAK sin porcentaje", domain.ErrInvalidState, item.ID)
		}
		if peak == nil {
			return decimal.Zero, fmt.Errorf("%w: producto sin precio pico de compra para ítem %s", domain.ErrInvalidState, item.ID)
		}
		factor := decimal.NewFromInt(1).Add(item.MarkupPercent.Div(hundred))
		return peak.PeakPurchasePrice.Mul(factor).Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnsupportedPolicy, item.PolicyType)
	}
}

// ServicePrice aplica la política del ítem a un servicio. MARKUP_ON_PEAK nunca aplica a servicios.
func ServicePrice(item *entity.PriceBookItem) (decimal.Decimal, error) {
	switch item.PolicyType {
	case entity.PolicyFixed:
		if item.FixedPrice == nil {
			return decimal.Zero, fmt.Errorf("%w: ítem %s FIXED sin precio fijo", domain.ErrInvalidState, item.ID)
		}
		return *item.FixedPrice, nil
	case entity.PolicyMarkupOnPeak:
		return decimal.Zero, fmt.Errorf("%w: MARKUP_ON_PEAK no aplica a servicios (ítem %s)", domain.ErrUnsupportedPolicy, item.ID)
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnsupportedPolicy, item.PolicyType)
	}
}
