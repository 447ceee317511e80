package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotStatus estado derivado de un lote (no se persiste).
type LotStatus string

const (
	LotStatusActive       LotStatus = "ACTIVE"
	LotStatusExpiringSoon LotStatus = "EXPIRING_SOON"
	LotStatusExpired      LotStatus = "EXPIRED"
	LotStatusDepleted     LotStatus = "DEPLETED"
)

// InventoryLot lote de stock recibido en conjunto (trazabilidad de vencimiento y orden FIFO).
// Se crea al recibir una orden de compra y nunca se elimina.
type InventoryLot struct {
	ID         string
	LotCode    string
	ProductID  string
	BranchID   string
	SupplierID *string
	ReceivedAt time.Time
	ExpiryDate *time.Time
	UnitCost   decimal.Decimal
	CreatedAt  time.Time
}

// LotQuantities cantidades derivadas del plegado de las transacciones de un lote.
type LotQuantities struct {
	Received   int64 `json:"qty_received"`
	Sold       int64 `json:"qty_sold"`
	Reserved   int64 `json:"qty_reserved"`
	Returned   int64 `json:"qty_returned"`
	Adjustment int64 `json:"qty_adjustment"`
	Current    int64 `json:"qty_current"`
	Available  int64 `json:"qty_available"`
}

// Add suma otra proyección campo a campo.
func (q LotQuantities) Add(o LotQuantities) LotQuantities {
	return LotQuantities{
		Received:   q.Received + o.Received,
		Sold:       q.Sold + o.Sold,
		Reserved:   q.Reserved + o.Reserved,
		Returned:   q.Returned + o.Returned,
		Adjustment: q.Adjustment + o.Adjustment,
		Current:    q.Current + o.Current,
		Available:  q.Available + o.Available,
	}
}

// LotAllocation consumo (o reserva) aplicado sobre un lote por una operación del asignador.
type LotAllocation struct {
	LotID         string
	LotCode       string
	Quantity      int64 // magnitud consumida del lote
	UnitCost      decimal.Decimal
	TransactionID string
}
