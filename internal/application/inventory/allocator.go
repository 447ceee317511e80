package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	dominv "github.com/jhoicas/ServiceCenter-api/internal/domain/inventory"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

// Allocator asigna stock por lotes (FIFO) y escribe en el libro.
// Debe construirse con repositorios atados a la transacción que tiene tomada la clave
// StockLockKey(branch, product): planifica con lecturas de esa misma transacción y solo
// escribe cuando el plan completo es válido.
type Allocator struct {
	ledger *Ledger
	lots   repository.InventoryLotRepository
	now    func() time.Time
}

// NewAllocator construye el asignador sobre los repositorios de la transacción.
func NewAllocator(r ports.Repos, now func() time.Time) *Allocator {
	if now == nil {
		now = time.Now
	}
	return &Allocator{ledger: NewLedger(r.Transactions, now), lots: r.Lots, now: now}
}

// Ledger expone el libro atado a la misma transacción.
func (a *Allocator) Ledger() *Ledger { return a.ledger }

// Request pedido de asignación para un producto en una sucursal, identificado por su referencia.
type Request struct {
	BranchID  string
	ProductID string
	Quantity  int64
	RefType   string
	RefID     string
}

func (r Request) validate() error {
	if r.BranchID == "" || r.ProductID == "" {
		return domain.Invalid("branch_id y product_id requeridos")
	}
	if r.Quantity <= 0 {
		return domain.Invalid("cantidad debe ser positiva (recibido %d)", r.Quantity)
	}
	if r.RefType == "" || r.RefID == "" {
		return domain.Invalid("referencia requerida")
	}
	return nil
}

// lotState proyecciones FIFO del producto más las reservas vigentes por lote de cada referencia.
type lotState struct {
	projections []dominv.LotProjection
	txs         []*entity.StockTransaction
}

func (a *Allocator) load(ctx context.Context, branchID, productID string) (*lotState, error) {
	lots, err := a.lots.ListByBranchProduct(ctx, branchID, productID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	dominv.SortFIFO(lots)
	txs, err := a.ledger.TransactionsForBranchProduct(ctx, branchID, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	byLot, _ := dominv.GroupByLot(txs)
	return &lotState{projections: dominv.ProjectLots(lots, byLot, a.now()), txs: txs}, nil
}

// outstanding reservas vigentes de la referencia por lote: RESERVATION suma |q|, RELEASE resta q.
func (s *lotState) outstanding(refType, refID string) map[string]int64 {
	out := make(map[string]int64)
	for _, t := range s.txs {
		if !t.HasLot() || t.RefType != refType || t.RefID != refID {
			continue
		}
		switch t.Type {
		case entity.TxReservation:
			out[*t.LotID] += -t.Quantity
		case entity.TxRelease:
			out[*t.LotID] -= t.Quantity
		}
	}
	return out
}

// planRelease reparte quantity sobre las reservas vigentes en orden FIFO de lotes.
func (s *lotState) planRelease(held map[string]int64, quantity int64) []dominv.PlanStep {
	var steps []dominv.PlanStep
	for _, p := range s.projections {
		if quantity == 0 {
			break
		}
		h := held[p.Lot.ID]
		if h <= 0 {
			continue
		}
		take := min(h, quantity)
		steps = append(steps, dominv.PlanStep{Lot: p.Lot, Quantity: take})
		quantity -= take
	}
	return steps
}

// Outstanding total reservado y aún no liberado por la referencia sobre el producto.
func (a *Allocator) Outstanding(ctx context.Context, branchID, productID, refType, refID string) (int64, error) {
	st, err := a.load(ctx, branchID, productID)
	if err != nil {
		return 0, err
	}
	return sumPositive(st.outstanding(refType, refID)), nil
}

// Reserve reserva FIFO la cantidad pedida (filas RESERVATION negativas, una por lote).
func (a *Allocator) Reserve(ctx context.Context, req Request) ([]entity.LotAllocation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	st, err := a.load(ctx, req.BranchID, req.ProductID)
	if err != nil {
		return nil, err
	}
	steps, err := dominv.PlanFIFO(req.BranchID, req.ProductID, st.projections, req.Quantity, a.now())
	if err != nil {
		return nil, err
	}
	return a.commit(ctx, req, entity.TxReservation, steps)
}

// Release libera reservas vigentes de la referencia (filas RELEASE positivas).
// Liberar más de lo reservado es un error de entrada.
func (a *Allocator) Release(ctx context.Context, req Request) ([]entity.LotAllocation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	st, err := a.load(ctx, req.BranchID, req.ProductID)
	if err != nil {
		return nil, err
	}
	held := st.outstanding(req.RefType, req.RefID)
	total := sumPositive(held)
	if total < req.Quantity {
		return nil, domain.Invalid("liberar %d excede lo reservado (%d) por %s %s", req.Quantity, total, req.RefType, req.RefID)
	}
	return a.commit(ctx, req, entity.TxRelease, st.planRelease(held, req.Quantity))
}

// Fulfill consume stock FIFO. Primero libera las reservas vigentes de la misma referencia
// (hasta la cantidad pedida) y luego planifica la venta sobre la disponibilidad resultante.
// Si no alcanza no escribe nada.
func (a *Allocator) Fulfill(ctx context.Context, req Request) ([]entity.LotAllocation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	st, err := a.load(ctx, req.BranchID, req.ProductID)
	if err != nil {
		return nil, err
	}
	releases := st.planRelease(st.outstanding(req.RefType, req.RefID), req.Quantity)
	now := a.now()
	for _, r := range releases {
		if exp := r.Lot.ExpiryDate; exp != nil && exp.Before(now) {
			return nil, fmt.Errorf("%w: el lote %s reservado por %s %s venció el %s",
				domain.ErrConflict, r.Lot.LotCode, req.RefType, req.RefID, exp.Format(time.DateOnly))
		}
	}

	// disponibilidad virtual: lo que quedaría libre después de las liberaciones
	freed := make(map[string]int64, len(releases))
	for _, r := range releases {
		freed[r.Lot.ID] += r.Quantity
	}
	virtual := make([]dominv.LotProjection, len(st.projections))
	for i, p := range st.projections {
		p.Quantities.Available += freed[p.Lot.ID]
		virtual[i] = p
	}
	sales, err := dominv.PlanFIFO(req.BranchID, req.ProductID, virtual, req.Quantity, now)
	if err != nil {
		return nil, err
	}

	if _, err := a.commit(ctx, req, entity.TxRelease, releases); err != nil {
		return nil, err
	}
	return a.commit(ctx, req, entity.TxSale, sales)
}

// commit escribe una fila por paso del plan. SALE y RESERVATION se guardan negativas.
func (a *Allocator) commit(ctx context.Context, req Request, typ entity.StockTransactionType, steps []dominv.PlanStep) ([]entity.LotAllocation, error) {
	out := make([]entity.LotAllocation, 0, len(steps))
	for _, s := range steps {
		qty := s.Quantity
		if typ == entity.TxSale || typ == entity.TxReservation {
			qty = -qty
		}
		lotID := s.Lot.ID
		cost := s.Lot.UnitCost
		tx, err := a.ledger.Append(ctx, AppendInput{
			BranchID:  req.BranchID,
			ProductID: req.ProductID,
			LotID:     &lotID,
			Type:      typ,
			Quantity:  qty,
			UnitCost:  &cost,
			RefType:   req.RefType,
			RefID:     req.RefID,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, entity.LotAllocation{
			LotID:         lotID,
			LotCode:       s.Lot.LotCode,
			Quantity:      s.Quantity,
			UnitCost:      cost,
			TransactionID: tx.ID,
		})
	}
	return out, nil
}

// ReturnRequest devolución de unidades al stock.
// Con LotID la fila va a ese lote. Sin LotID y con SaleRefID vuelve a los lotes que consumió esa
// venta, del más reciente al más antiguo. Sin ninguno de los dos la fila queda sin asignar.
type ReturnRequest struct {
	BranchID    string
	ProductID   string
	LotID       *string
	Quantity    int64
	UnitCost    *decimal.Decimal
	RefType     string
	RefID       string
	SaleRefType string
	SaleRefID   string
}

// ReturnToStock agrega filas RETURN positivas, una por lote afectado.
func (a *Allocator) ReturnToStock(ctx context.Context, req ReturnRequest) ([]*entity.StockTransaction, error) {
	base := Request{BranchID: req.BranchID, ProductID: req.ProductID, Quantity: req.Quantity, RefType: req.RefType, RefID: req.RefID}
	if err := base.validate(); err != nil {
		return nil, err
	}

	if req.LotID != nil && *req.LotID != "" {
		lot, err := a.lotFor(ctx, *req.LotID, req.BranchID, req.ProductID)
		if err != nil {
			return nil, err
		}
		tx, err := a.appendReturn(ctx, req, lot, req.Quantity)
		if err != nil {
			return nil, err
		}
		return []*entity.StockTransaction{tx}, nil
	}

	if req.SaleRefID == "" {
		tx, err := a.appendReturn(ctx, req, nil, req.Quantity)
		if err != nil {
			return nil, err
		}
		return []*entity.StockTransaction{tx}, nil
	}

	st, err := a.load(ctx, req.BranchID, req.ProductID)
	if err != nil {
		return nil, err
	}
	steps, left := st.planSoldBack(req.SaleRefType, req.SaleRefID, req.RefType, req.RefID, req.Quantity)
	if left > 0 {
		return nil, domain.Invalid("devolver %d excede lo vendido por %s %s (pendiente %d)",
			req.Quantity, req.SaleRefType, req.SaleRefID, left)
	}
	out := make([]*entity.StockTransaction, 0, len(steps))
	for _, step := range steps {
		tx, err := a.appendReturn(ctx, req, step.Lot, step.Quantity)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (a *Allocator) appendReturn(ctx context.Context, req ReturnRequest, lot *entity.InventoryLot, qty int64) (*entity.StockTransaction, error) {
	in := AppendInput{
		BranchID:  req.BranchID,
		ProductID: req.ProductID,
		Type:      entity.TxReturn,
		Quantity:  qty,
		UnitCost:  req.UnitCost,
		RefType:   req.RefType,
		RefID:     req.RefID,
	}
	if lot != nil {
		lotID := lot.ID
		in.LotID = &lotID
		if in.UnitCost == nil {
			c := lot.UnitCost
			in.UnitCost = &c
		}
	}
	return a.ledger.Append(ctx, in)
}

// planSoldBack reparte quantity sobre los lotes que consumió la venta (SALE más reciente primero),
// descontando lo que la misma devolución ya repuso en cada lote. Devuelve lo que no se pudo ubicar.
func (s *lotState) planSoldBack(saleType, saleID, retType, retID string, quantity int64) ([]dominv.PlanStep, int64) {
	left := make(map[string]int64)
	seen := make(map[string]bool)
	var order []string
	for i := len(s.txs) - 1; i >= 0; i-- {
		t := s.txs[i]
		if !t.HasLot() {
			continue
		}
		id := *t.LotID
		switch {
		case t.Type == entity.TxSale && t.RefType == saleType && t.RefID == saleID:
			left[id] += -t.Quantity
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		case t.Type == entity.TxReturn && t.RefType == retType && t.RefID == retID:
			left[id] -= t.Quantity
		}
	}

	lots := make(map[string]*entity.InventoryLot, len(s.projections))
	for _, p := range s.projections {
		lots[p.Lot.ID] = p.Lot
	}
	var steps []dominv.PlanStep
	for _, id := range order {
		if quantity == 0 {
			break
		}
		lot, ok := lots[id]
		if !ok || left[id] <= 0 {
			continue
		}
		take := min(left[id], quantity)
		steps = append(steps, dominv.PlanStep{Lot: lot, Quantity: take})
		quantity -= take
	}
	return steps, quantity
}

// ReceiptRequest ingreso de stock. Sin LotID crea un lote nuevo; con LotID suma al lote existente.
type ReceiptRequest struct {
	BranchID   string
	ProductID  string
	LotID      string
	LotCode    string
	SupplierID *string
	ExpiryDate *time.Time
	UnitCost   decimal.Decimal
	Quantity   int64
	RefType    string
	RefID      string
}

// AddStock agrega una fila PURCHASE_RECEIPT y devuelve el lote afectado.
func (a *Allocator) AddStock(ctx context.Context, req ReceiptRequest) (*entity.InventoryLot, *entity.LotAllocation, error) {
	base := Request{BranchID: req.BranchID, ProductID: req.ProductID, Quantity: req.Quantity, RefType: req.RefType, RefID: req.RefID}
	if err := base.validate(); err != nil {
		return nil, nil, err
	}
	if req.UnitCost.IsNegative() {
		return nil, nil, domain.Invalid("costo unitario negativo")
	}

	var lot *entity.InventoryLot
	if req.LotID != "" {
		existing, err := a.lotFor(ctx, req.LotID, req.BranchID, req.ProductID)
		if err != nil {
			return nil, nil, err
		}
		lot = existing
	} else {
		now := a.now()
		lot = &entity.InventoryLot{
			ID:         uuid.New().String(),
			LotCode:    req.LotCode,
			ProductID:  req.ProductID,
			BranchID:   req.BranchID,
			SupplierID: req.SupplierID,
			ReceivedAt: now,
			ExpiryDate: req.ExpiryDate,
			UnitCost:   req.UnitCost,
			CreatedAt:  now,
		}
		if lot.LotCode == "" {
			lot.LotCode = generateLotCode(now)
		}
		if err := a.lots.Create(ctx, lot); err != nil {
			return nil, nil, fmt.Errorf("create lot: %w", err)
		}
	}

	lotID := lot.ID
	cost := req.UnitCost
	tx, err := a.ledger.Append(ctx, AppendInput{
		BranchID:  req.BranchID,
		ProductID: req.ProductID,
		LotID:     &lotID,
		Type:      entity.TxPurchaseReceipt,
		Quantity:  req.Quantity,
		UnitCost:  &cost,
		RefType:   req.RefType,
		RefID:     req.RefID,
	})
	if err != nil {
		return nil, nil, err
	}
	return lot, &entity.LotAllocation{
		LotID:         lot.ID,
		LotCode:       lot.LotCode,
		Quantity:      req.Quantity,
		UnitCost:      cost,
		TransactionID: tx.ID,
	}, nil
}

// AdjustRequest ajuste con signo sobre un lote.
type AdjustRequest struct {
	LotID    string
	Quantity int64
	RefType  string
	RefID    string
}

// Adjust agrega una fila ADJUSTMENT. Un ajuste negativo no puede superar la disponibilidad del lote.
func (a *Allocator) Adjust(ctx context.Context, req AdjustRequest) (*entity.StockTransaction, error) {
	if req.LotID == "" {
		return nil, domain.Invalid("lot_id requerido")
	}
	if req.Quantity == 0 {
		return nil, domain.Invalid("cantidad no puede ser cero")
	}
	lot, err := a.lots.GetByID(ctx, req.LotID)
	if err != nil {
		return nil, fmt.Errorf("get lot: %w", err)
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, req.LotID)
	}
	if req.Quantity < 0 {
		txs, err := a.ledger.TransactionsForLot(ctx, lot.ID)
		if err != nil {
			return nil, fmt.Errorf("list lot transactions: %w", err)
		}
		q := dominv.ProjectLot(txs)
		if -req.Quantity > q.Available {
			return nil, &domain.InsufficientStockError{
				BranchID:  lot.BranchID,
				ProductID: lot.ProductID,
				Requested: -req.Quantity,
				Available: q.Available,
			}
		}
	}
	lotID := lot.ID
	cost := lot.UnitCost
	return a.ledger.Append(ctx, AppendInput{
		BranchID:  lot.BranchID,
		ProductID: lot.ProductID,
		LotID:     &lotID,
		Type:      entity.TxAdjustment,
		Quantity:  req.Quantity,
		UnitCost:  &cost,
		RefType:   req.RefType,
		RefID:     req.RefID,
	})
}

// lotFor obtiene el lote y verifica que pertenezca a la sucursal y al producto.
func (a *Allocator) lotFor(ctx context.Context, lotID, branchID, productID string) (*entity.InventoryLot, error) {
	lot, err := a.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("get lot: %w", err)
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, lotID)
	}
	if lot.BranchID != branchID || lot.ProductID != productID {
		return nil, domain.Invalid("lote %s no pertenece a producto %s en sucursal %s", lotID, productID, branchID)
	}
	return lot, nil
}

func sumPositive(m map[string]int64) int64 {
	var total int64
	for _, v := range m {
		if v > 0 {
			total += v
		}
	}
	return total
}

func generateLotCode(now time.Time) string {
	return "LOT-" + now.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
