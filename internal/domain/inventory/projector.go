package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// ExpiringSoonWindow ventana antes del vencimiento en la que un lote pasa a EXPIRING_SOON.
const ExpiringSoonWindow = 30 * 24 * time.Hour

// ProjectLot pliega las transacciones (en orden ascendente) y deriva las cantidades del lote.
// Función pura: no persiste nada y puede llamarse en cada lectura.
func ProjectLot(txs []*entity.StockTransaction) entity.LotQuantities {
	var q entity.LotQuantities
	for _, t := range txs {
		switch t.Type {
		case entity.TxPurchaseReceipt:
			q.Received += t.Quantity
		case entity.TxSale:
			q.Sold += abs(t.Quantity)
		case entity.TxReservation:
			q.Reserved += abs(t.Quantity)
		case entity.TxRelease:
			q.Reserved -= t.Quantity
		case entity.TxReturn:
			q.Returned += t.Quantity
		case entity.TxAdjustment:
			q.Adjustment += t.Quantity
		}
	}
	q.Current = q.Received + q.Returned + q.Adjustment - q.Sold
	q.Available = q.Current - q.Reserved
	return q
}

// LotStatusAt deriva el estado del lote. Prioridad: EXPIRED, DEPLETED, EXPIRING_SOON, ACTIVE.
func LotStatusAt(lot *entity.InventoryLot, q entity.LotQuantities, now time.Time) entity.LotStatus {
	if lot.ExpiryDate != nil && lot.ExpiryDate.Before(now) {
		return entity.LotStatusExpired
	}
	if q.Current <= 0 {
		return entity.LotStatusDepleted
	}
	if lot.ExpiryDate != nil && !lot.ExpiryDate.After(now.Add(ExpiringSoonWindow)) {
		return entity.LotStatusExpiringSoon
	}
	return entity.LotStatusActive
}

// LotProjection lote con sus cantidades y estado derivados.
type LotProjection struct {
	Lot        *entity.InventoryLot
	Quantities entity.LotQuantities
	Status     entity.LotStatus
}

// StockSummary agregado de un producto en una sucursal.
type StockSummary struct {
	BranchID     string
	ProductID    string
	Totals       entity.LotQuantities
	Unassigned   entity.LotQuantities // movimientos sin lote; no entran en Totals porque no son asignables
	StatusCounts map[entity.LotStatus]int
	Lots         []LotProjection
}

// GroupByLot separa las transacciones por lote; las filas sin lote quedan aparte.
func GroupByLot(txs []*entity.StockTransaction) (byLot map[string][]*entity.StockTransaction, unassigned []*entity.StockTransaction) {
	byLot = make(map[string][]*entity.StockTransaction)
	for _, t := range txs {
		if !t.HasLot() {
			unassigned = append(unassigned, t)
			continue
		}
		byLot[*t.LotID] = append(byLot[*t.LotID], t)
	}
	return byLot, unassigned
}

// ProjectLots proyecta cada lote con su grupo de transacciones. Conserva el orden de lots.
func ProjectLots(lots []*entity.InventoryLot, byLot map[string][]*entity.StockTransaction, now time.Time) []LotProjection {
	out := make([]LotProjection, 0, len(lots))
	for _, lot := range lots {
		q := ProjectLot(byLot[lot.ID])
		out = append(out, LotProjection{Lot: lot, Quantities: q, Status: LotStatusAt(lot, q, now)})
	}
	return out
}

// Summarize suma las cantidades de todos los lotes y cuenta lotes por estado.
// Las filas sin lote se informan solo en Unassigned: FIFO no puede asignarlas.
func Summarize(branchID, productID string, lots []LotProjection, unassigned []*entity.StockTransaction) StockSummary {
	s := StockSummary{
		BranchID:     branchID,
		ProductID:    productID,
		StatusCounts: make(map[entity.LotStatus]int),
		Lots:         lots,
	}
	for _, p := range lots {
		s.Totals = s.Totals.Add(p.Quantities)
		s.StatusCounts[p.Status]++
	}
	s.Unassigned = ProjectLot(unassigned)
	return s
}

// SortFIFO ordena los lotes por fecha de recepción; sort estable conserva el orden de creación en empates.
func SortFIFO(lots []*entity.InventoryLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].ReceivedAt.Before(lots[j].ReceivedAt)
	})
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
