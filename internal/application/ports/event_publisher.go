package ports

import (
	"context"
	"time"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// Tipos de evento publicados después de cada commit.
const (
	EventPurchaseOrderSubmitted = "purchase_order.submitted"
	EventPurchaseOrderReceived  = "purchase_order.received"
	EventSalesOrderConfirmed    = "sales_order.confirmed"
	EventSalesOrderFulfilled    = "sales_order.fulfilled"
	EventSalesOrderReturned     = "sales_order.returned"
	EventStockAdjusted          = "stock.adjusted"
)

// InventoryEvent cambio ya confirmado: estado de la orden y filas del libro agregadas.
type InventoryEvent struct {
	Type         string                     `json:"type"`
	RefType      string                     `json:"ref_type"`
	RefID        string                     `json:"ref_id"`
	BranchID     string                     `json:"branch_id"`
	Status       string                     `json:"status,omitempty"`
	Transactions []*entity.StockTransaction `json:"transactions,omitempty"`
	OccurredAt   time.Time                  `json:"occurred_at"`
}

// EventPublisher puerto de salida para eventos de inventario (Kafka o solo log).
// La publicación es best-effort: un error nunca revierte la operación ya confirmada.
type EventPublisher interface {
	Publish(ctx context.Context, evt InventoryEvent) error
}
