package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTransactionType tipo de movimiento del libro de stock.
type StockTransactionType string

// Tipos de transacción del libro (ledger).
const (
	TxPurchaseReceipt StockTransactionType = "PURCHASE_RECEIPT" // entrada por recepción de compra
	TxSale            StockTransactionType = "SALE"             // salida, se guarda negativa
	TxReservation     StockTransactionType = "RESERVATION"      // reserva, se guarda negativa
	TxRelease         StockTransactionType = "RELEASE"          // liberación de reserva, positiva
	TxReturn          StockTransactionType = "RETURN"           // devolución al stock
	TxAdjustment      StockTransactionType = "ADJUSTMENT"       // ajuste con signo natural
)

// IsValid indica si el tipo pertenece a la enumeración cerrada.
func (t StockTransactionType) IsValid() bool {
	switch t {
	case TxPurchaseReceipt, TxSale, TxReservation, TxRelease, TxReturn, TxAdjustment:
		return true
	}
	return false
}

// Tipos de referencia que originan transacciones.
const (
	RefPurchaseOrder = "PURCHASE_ORDER"
	RefSalesOrder    = "SALES_ORDER"
	RefSalesReturn   = "SALES_RETURN"
	RefManual        = "MANUAL"
)

// StockTransaction fila inmutable del libro de stock. Nunca se actualiza ni se borra:
// todas las cantidades del inventario se derivan de estas filas.
type StockTransaction struct {
	ID        string               `json:"id"`
	BranchID  string               `json:"branch_id"`
	ProductID string               `json:"product_id"`
	LotID     *string              `json:"lot_id,omitempty"` // nil para movimientos sin lote
	Type      StockTransactionType `json:"type"`
	Quantity  int64                `json:"quantity"` // SALE y RESERVATION negativos; el resto con su signo natural
	UnitCost  *decimal.Decimal     `json:"unit_cost,omitempty"`
	RefType   string               `json:"ref_type"`
	RefID     string               `json:"ref_id"`
	CreatedAt time.Time            `json:"created_at"`
}

// HasLot indica si la transacción pertenece a un lote concreto.
func (t *StockTransaction) HasLot() bool {
	return t.LotID != nil && *t.LotID != ""
}
