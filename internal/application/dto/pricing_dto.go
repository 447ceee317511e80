package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/application/pricing"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// PriceQuery query de las consultas de precio; as_of vacío = ahora.
type PriceQuery struct {
	BranchID    string `query:"branch_id"`
	PriceBookID string `query:"price_book_id"`
	AsOf        string `query:"as_of"`
}

// PriceBookResponse lista de precios vigente.
type PriceBookResponse struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	BranchID  *string    `json:"branch_id,omitempty"`
	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
}

// FromPriceBook mapea la lista.
func FromPriceBook(b *entity.PriceBook) PriceBookResponse {
	return PriceBookResponse{ID: b.ID, Code: b.Code, BranchID: b.BranchID, ValidFrom: b.ValidFrom, ValidTo: b.ValidTo}
}

// PriceResponse precio resuelto.
type PriceResponse struct {
	ProductID string          `json:"product_id,omitempty"`
	ServiceID string          `json:"service_id,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// BookingItemRequest ítem a cotizar: exactamente uno de product_id / service_id.
type BookingItemRequest struct {
	ProductID string           `json:"product_id" validate:"required_without=ServiceID,excluded_with=ServiceID"`
	ServiceID string           `json:"service_id" validate:"required_without=ProductID"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// BookingTotalRequest body de POST /api/pricing/booking-total.
type BookingTotalRequest struct {
	BranchID    string               `json:"branch_id,omitempty"`
	PriceBookID string               `json:"price_book_id,omitempty"`
	AsOf        *time.Time           `json:"as_of,omitempty"`
	Items       []BookingItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ToRequest convierte al request del resolver.
func (r BookingTotalRequest) ToRequest(now time.Time) pricing.BookingPriceRequest {
	req := pricing.BookingPriceRequest{
		BranchID:    optional(r.BranchID),
		PriceBookID: optional(r.PriceBookID),
		AsOf:        now,
	}
	if r.AsOf != nil {
		req.AsOf = *r.AsOf
	}
	for _, it := range r.Items {
		req.Items = append(req.Items, pricing.BookingItem{
			ProductID: it.ProductID,
			ServiceID: it.ServiceID,
			Quantity:  it.Quantity,
			UnitPrice: decimalPtr(it.UnitPrice),
		})
	}
	return req
}

// BookingLineDTO línea cotizada.
type BookingLineDTO struct {
	ProductID string          `json:"product_id,omitempty"`
	ServiceID string          `json:"service_id,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// BookingTotalResponse cotización completa.
type BookingTotalResponse struct {
	Lines []BookingLineDTO `json:"lines"`
	Total decimal.Decimal  `json:"total"`
}

// FromBookingTotal mapea la cotización.
func FromBookingTotal(t *pricing.BookingTotal) BookingTotalResponse {
	out := BookingTotalResponse{Total: t.Total, Lines: make([]BookingLineDTO, 0, len(t.Lines))}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, BookingLineDTO(l))
	}
	return out
}
