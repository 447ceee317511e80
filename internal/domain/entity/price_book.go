package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
)

// PricingPolicy política de precio de un ítem de lista (enumeración cerrada).
type PricingPolicy string

const (
	PolicyFixed        PricingPolicy = "FIXED"
	PolicyMarkupOnPeak PricingPolicy = "MARKUP_ON_PEAK"
)

// PriceBook lista de precios con vigencia [ValidFrom, ValidTo) y alcance opcional por sucursal.
type PriceBook struct {
	ID        string
	Code      string
	BranchID  *string    // nil = lista global
	ValidFrom time.Time
	ValidTo   *time.Time // nil = sin fecha de cierre
	CreatedAt time.Time
}

// IsGlobal indica si la lista aplica a todas las sucursales.
func (b *PriceBook) IsGlobal() bool {
	return b.BranchID == nil || *b.BranchID == ""
}

// Contains indica si asOf cae dentro de la vigencia [ValidFrom, ValidTo).
func (b *PriceBook) Contains(asOf time.Time) bool {
	if asOf.Before(b.ValidFrom) {
		return false
	}
	return b.ValidTo == nil || asOf.Before(*b.ValidTo)
}

// PriceBookItem precio de un producto o de un servicio dentro de una lista.
// Exactamente uno de ProductID / ServiceID debe estar informado.
type PriceBookItem struct {
	ID            string
	PriceBookID   string
	ProductID     *string
	ServiceID     *string
	PolicyType    PricingPolicy
	FixedPrice    *decimal.Decimal
	MarkupPercent *decimal.Decimal // solo MARKUP_ON_PEAK: % sobre el precio pico de compra
}

// IsService indica si el ítem es de un servicio.
func (i *PriceBookItem) IsService() bool {
	return i.ServiceID != nil && *i.ServiceID != ""
}

// Validate verifica la consistencia del ítem antes de persistirlo.
func (i *PriceBookItem) Validate() error {
	hasProduct := i.ProductID != nil && *i.ProductID != ""
	hasService := i.IsService()
	if hasProduct == hasService {
		return domain.Invalid("ítem %s: debe tener exactamente uno de product_id o service_id", i.ID)
	}
	switch i.PolicyType {
	case PolicyFixed:
		if i.FixedPrice == nil {
			return domain.Invalid("ítem %s: política FIXED sin precio fijo", i.ID)
		}
	case PolicyMarkupOnPeak:
		if hasService {
			return domain.Invalid("ítem %s: MARKUP_ON_PEAK no aplica a servicios", i.ID)
		}
		if i.MarkupPercent == nil {
			return domain.Invalid("ítem %s: MARKUP_ON_PEAK sin porcentaje", i.ID)
		}
	default:
		return domain.Invalid("ítem %s: política desconocida %q", i.ID, i.PolicyType)
	}
	return nil
}

// ProductCostStats estadísticas de costo de compra; PeakPurchasePrice nunca disminuye.
type ProductCostStats struct {
	ProductID         string
	PeakPurchasePrice decimal.Decimal
	UpdatedAt         time.Time
}
