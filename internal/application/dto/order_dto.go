package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/application/orders"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// ── Órdenes de compra ─────────────────────────────────────────────────────────

// PurchaseLineRequest línea de una orden de compra nueva.
type PurchaseLineRequest struct {
	ProductID  string          `json:"product_id" validate:"required"`
	Quantity   int64           `json:"quantity" validate:"gt=0"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// CreatePurchaseOrderRequest body de POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	Code       string                `json:"code,omitempty"`
	BranchID   string                `json:"branch_id" validate:"required"`
	SupplierID string                `json:"supplier_id" validate:"required"`
	Lines      []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ToInput convierte al input del caso de uso.
func (r CreatePurchaseOrderRequest) ToInput() orders.CreatePurchaseOrderInput {
	in := orders.CreatePurchaseOrderInput{Code: r.Code, BranchID: r.BranchID, SupplierID: r.SupplierID}
	for _, l := range r.Lines {
		in.Lines = append(in.Lines, orders.PurchaseLineInput{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			ExpiryDate: l.ExpiryDate,
		})
	}
	return in
}

// ReceivePurchaseOrderRequest body de POST /api/purchase-orders/:id/receive; sin line_ids = todas.
type ReceivePurchaseOrderRequest struct {
	LineIDs []string `json:"line_ids,omitempty" validate:"dive,required"`
}

// PurchaseOrderLineDTO línea de compra.
type PurchaseOrderLineDTO struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	QuantityOrdered  int64           `json:"quantity_ordered"`
	QuantityReceived int64           `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
}

// PurchaseOrderResponse orden de compra con líneas.
type PurchaseOrderResponse struct {
	ID         string                     `json:"id"`
	Code       string                     `json:"code"`
	BranchID   string                     `json:"branch_id"`
	SupplierID string                     `json:"supplier_id"`
	Status     entity.PurchaseOrderStatus `json:"status"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
	Lines      []PurchaseOrderLineDTO     `json:"lines,omitempty"`
}

// FromPurchaseOrder mapea la orden; lines puede ser nil.
func FromPurchaseOrder(o *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) PurchaseOrderResponse {
	out := PurchaseOrderResponse{
		ID: o.ID, Code: o.Code, BranchID: o.BranchID, SupplierID: o.SupplierID,
		Status: o.Status, CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, PurchaseOrderLineDTO{
			ID: l.ID, ProductID: l.ProductID, QuantityOrdered: l.QuantityOrdered,
			QuantityReceived: l.QuantityReceived, UnitCost: l.UnitCost, ExpiryDate: l.ExpiryDate,
		})
	}
	return out
}

// ── Órdenes de venta ──────────────────────────────────────────────────────────

// SalesLineRequest línea de venta; sin unit_price se resuelve al confirmar.
type SalesLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSalesOrderRequest body de POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	Code        string             `json:"code,omitempty"`
	BranchID    string             `json:"branch_id" validate:"required"`
	CustomerID  string             `json:"customer_id" validate:"required"`
	PriceBookID string             `json:"price_book_id,omitempty"`
	OrderDate   *time.Time         `json:"order_date,omitempty"`
	Lines       []SalesLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ToInput convierte al input del caso de uso.
func (r CreateSalesOrderRequest) ToInput() orders.CreateSalesOrderInput {
	in := orders.CreateSalesOrderInput{
		Code:        r.Code,
		BranchID:    r.BranchID,
		CustomerID:  r.CustomerID,
		PriceBookID: optional(r.PriceBookID),
	}
	if r.OrderDate != nil {
		in.OrderDate = *r.OrderDate
	}
	for _, l := range r.Lines {
		in.Lines = append(in.Lines, orders.SalesLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: decimalPtr(l.UnitPrice),
		})
	}
	return in
}

// SalesOrderLineDTO línea de venta.
type SalesOrderLineDTO struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// SalesOrderResponse orden de venta con líneas.
type SalesOrderResponse struct {
	ID          string                  `json:"id"`
	Code        string                  `json:"code"`
	BranchID    string                  `json:"branch_id"`
	CustomerID  string                  `json:"customer_id"`
	PriceBookID *string                 `json:"price_book_id,omitempty"`
	Status      entity.SalesOrderStatus `json:"status"`
	OrderDate   time.Time               `json:"order_date"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Lines       []SalesOrderLineDTO     `json:"lines,omitempty"`
}

// FromSalesOrder mapea la orden; lines puede ser nil.
func FromSalesOrder(o *entity.SalesOrder, lines []*entity.SalesOrderLine) SalesOrderResponse {
	out := SalesOrderResponse{
		ID: o.ID, Code: o.Code, BranchID: o.BranchID, CustomerID: o.CustomerID, PriceBookID: o.PriceBookID,
		Status: o.Status, OrderDate: o.OrderDate, CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, SalesOrderLineDTO{
			ID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice,
		})
	}
	return out
}

// ── Devoluciones ──────────────────────────────────────────────────────────────

// ReturnLineRequest producto devuelto; lot_id y unit_cost opcionales.
type ReturnLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	LotID     string           `json:"lot_id,omitempty"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreateReturnRequest body de POST /api/sales-orders/:id/returns.
type CreateReturnRequest struct {
	Reason string              `json:"reason" validate:"max=255"`
	Lines  []ReturnLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ToInput convierte al input del caso de uso.
func (r CreateReturnRequest) ToInput() orders.ReturnInput {
	in := orders.ReturnInput{Reason: r.Reason}
	for _, l := range r.Lines {
		in.Lines = append(in.Lines, orders.ReturnLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			LotID:     optional(l.LotID),
			UnitCost:  decimalPtr(l.UnitCost),
		})
	}
	return in
}

// SalesReturnLineDTO línea de devolución.
type SalesReturnLineDTO struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	LotID     *string          `json:"lot_id,omitempty"`
	Quantity  int64            `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// SalesReturnResponse devolución creada y estado final de la orden.
type SalesReturnResponse struct {
	ID           string                  `json:"id"`
	SalesOrderID string                  `json:"sales_order_id"`
	BranchID     string                  `json:"branch_id"`
	Reason       string                  `json:"reason,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	OrderStatus  entity.SalesOrderStatus `json:"order_status"`
	Lines        []SalesReturnLineDTO    `json:"lines"`
}

// FromSalesReturn mapea la devolución.
func FromSalesReturn(d *orders.SalesReturnDetail) SalesReturnResponse {
	out := SalesReturnResponse{
		ID:           d.Return.ID,
		SalesOrderID: d.Return.SalesOrderID,
		BranchID:     d.Return.BranchID,
		Reason:       d.Return.Reason,
		CreatedAt:    d.Return.CreatedAt,
		OrderStatus:  d.Order.Status,
		Lines:        make([]SalesReturnLineDTO, 0, len(d.Lines)),
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, SalesReturnLineDTO{
			ID: l.ID, ProductID: l.ProductID, LotID: l.LotID, Quantity: l.Quantity, UnitCost: l.UnitCost,
		})
	}
	return out
}
