package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estados de la orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderPendingDelivery   PurchaseOrderStatus = "PENDING_DELIVERY"
	PurchaseOrderPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderReceived          PurchaseOrderStatus = "RECEIVED"
)

// PurchaseOrder cabecera de una orden de compra a proveedor.
type PurchaseOrder struct {
	ID         string
	Code       string
	BranchID   string
	SupplierID string
	Status     PurchaseOrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseOrderLine línea de la orden; QuantityReceived solo crece hasta QuantityOrdered.
type PurchaseOrderLine struct {
	ID               string
	OrderID          string
	ProductID        string
	QuantityOrdered  int64
	QuantityReceived int64
	UnitCost         decimal.Decimal
	ExpiryDate       *time.Time
}

// Remaining cantidad pendiente de recibir.
func (l *PurchaseOrderLine) Remaining() int64 {
	return l.QuantityOrdered - l.QuantityReceived
}

// IsComplete indica si la línea fue recibida completa.
func (l *PurchaseOrderLine) IsComplete() bool {
	return l.QuantityReceived >= l.QuantityOrdered
}
