package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderStatus estados de la orden de venta.
type SalesOrderStatus string

const (
	SalesOrderDraft     SalesOrderStatus = "DRAFT"
	SalesOrderConfirmed SalesOrderStatus = "CONFIRMED"
	SalesOrderFulfilled SalesOrderStatus = "FULFILLED"
	SalesOrderReturned  SalesOrderStatus = "RETURNED"
)

// SalesOrder cabecera de una orden de venta en una sucursal.
type SalesOrder struct {
	ID          string
	Code        string
	BranchID    string
	CustomerID  string
	PriceBookID *string // lista explícita; nil = resolver por sucursal y fecha
	Status      SalesOrderStatus
	OrderDate   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SalesOrderLine línea de venta; UnitPrice queda nil hasta que se resuelve al confirmar.
type SalesOrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	UnitPrice *decimal.Decimal
}

// SalesReturn devolución de una orden de venta. Es dueña de sus líneas y solo referencia la orden.
type SalesReturn struct {
	ID           string
	SalesOrderID string
	BranchID     string
	Reason       string
	CreatedAt    time.Time
}

// SalesReturnLine producto y cantidad devueltos.
type SalesReturnLine struct {
	ID        string
	ReturnID  string
	ProductID string
	LotID     *string
	Quantity  int64
	UnitCost  *decimal.Decimal
}
