package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/application/inventory"
	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/application/pricing"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

// SalesOrderUseCase ciclo DRAFT -> CONFIRMED -> FULFILLED; CONFIRMED|FULFILLED -> RETURNED.
type SalesOrderUseCase struct {
	txRunner  ports.TxRunner
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewSalesOrderUseCase construye el caso de uso.
func NewSalesOrderUseCase(txRunner ports.TxRunner, publisher ports.EventPublisher, log *logger.Logger, now func() time.Time) *SalesOrderUseCase {
	if now == nil {
		now = time.Now
	}
	return &SalesOrderUseCase{txRunner: txRunner, publisher: publisher, log: log, now: now}
}

// SalesOrderDetail orden de venta con sus líneas.
type SalesOrderDetail struct {
	Order *entity.SalesOrder
	Lines []*entity.SalesOrderLine
}

func (d *SalesOrderDetail) productIDs() []string {
	out := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		out = append(out, l.ProductID)
	}
	return out
}

// SalesLineInput línea de una orden de venta nueva. UnitPrice nil = se resuelve al confirmar.
type SalesLineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice *decimal.Decimal
}

// CreateSalesOrderInput datos de una orden de venta nueva.
type CreateSalesOrderInput struct {
	Code        string
	BranchID    string
	CustomerID  string
	PriceBookID *string
	OrderDate   time.Time // cero = ahora
	Lines       []SalesLineInput
}

// Create registra la orden en DRAFT.
func (uc *SalesOrderUseCase) Create(ctx context.Context, in CreateSalesOrderInput) (*SalesOrderDetail, error) {
	if in.BranchID == "" || in.CustomerID == "" {
		return nil, domain.Invalid("branch_id y customer_id requeridos")
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("la orden debe tener al menos una línea")
	}
	for i, l := range in.Lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return nil, domain.Invalid("línea %d: product_id y cantidad positiva requeridos", i)
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return nil, domain.Invalid("línea %d: precio unitario negativo", i)
		}
	}

	now := uc.now()
	order := &entity.SalesOrder{
		ID:          uuid.New().String(),
		Code:        in.Code,
		BranchID:    in.BranchID,
		CustomerID:  in.CustomerID,
		PriceBookID: in.PriceBookID,
		Status:      entity.SalesOrderDraft,
		OrderDate:   in.OrderDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if order.Code == "" {
		order.Code = generateCode("SO", now)
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	detail := &SalesOrderDetail{Order: order}
	err := uc.txRunner.Run(ctx, nil, func(r ports.Repos) error {
		if err := r.SalesOrders.Create(ctx, order); err != nil {
			return err
		}
		for _, l := range in.Lines {
			line := &entity.SalesOrderLine{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}
			if err := r.SalesOrders.CreateLine(ctx, line); err != nil {
				return err
			}
			detail.Lines = append(detail.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Get devuelve la orden con sus líneas.
func (uc *SalesOrderUseCase) Get(ctx context.Context, orderID string) (*SalesOrderDetail, error) {
	var detail *SalesOrderDetail
	err := uc.txRunner.Run(ctx, nil, func(r ports.Repos) error {
		d, err := loadSalesOrder(ctx, r, orderID)
		detail = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Confirm DRAFT -> CONFIRMED: resuelve y guarda el precio de las líneas que no lo tienen
// y reserva el stock de cada línea.
func (uc *SalesOrderUseCase) Confirm(ctx context.Context, orderID string) (*SalesOrderDetail, error) {
	return uc.transition(ctx, orderID, ports.EventSalesOrderConfirmed, func(r ports.Repos, d *SalesOrderDetail, alloc *inventory.Allocator) error {
		o := d.Order
		if o.Status != entity.SalesOrderDraft {
			return statusConflict(o, entity.SalesOrderDraft)
		}
		resolver := pricing.NewResolver(r.PriceBooks, r.CostStats, uc.log)
		branchID := o.BranchID
		for _, line := range d.Lines {
			if line.UnitPrice == nil {
				price, err := resolver.ResolveUnitPrice(ctx, pricing.UnitPriceQuery{
					ProductID:   line.ProductID,
					BranchID:    &branchID,
					PriceBookID: o.PriceBookID,
					AsOf:        o.OrderDate,
				})
				if err != nil {
					return fmt.Errorf("precio de línea %s: %w", line.ID, err)
				}
				line.UnitPrice = &price
				if err := r.SalesOrders.UpdateLine(ctx, line); err != nil {
					return err
				}
			}
			if _, err := alloc.Reserve(ctx, uc.request(o, line.ProductID, line.Quantity)); err != nil {
				return err
			}
		}
		o.Status = entity.SalesOrderConfirmed
		return nil
	})
}

// Fulfill CONFIRMED -> FULFILLED: consume FIFO la cantidad de cada línea liberando su reserva.
func (uc *SalesOrderUseCase) Fulfill(ctx context.Context, orderID string) (*SalesOrderDetail, error) {
	return uc.transition(ctx, orderID, ports.EventSalesOrderFulfilled, func(_ ports.Repos, d *SalesOrderDetail, alloc *inventory.Allocator) error {
		o := d.Order
		if o.Status != entity.SalesOrderConfirmed {
			return statusConflict(o, entity.SalesOrderConfirmed)
		}
		for _, line := range d.Lines {
			if _, err := alloc.Fulfill(ctx, uc.request(o, line.ProductID, line.Quantity)); err != nil {
				return err
			}
		}
		o.Status = entity.SalesOrderFulfilled
		return nil
	})
}

// transition carga la orden bajo las claves de stock de sus productos, aplica fn y persiste el estado.
func (uc *SalesOrderUseCase) transition(
	ctx context.Context,
	orderID, eventType string,
	fn func(r ports.Repos, d *SalesOrderDetail, alloc *inventory.Allocator) error,
) (*SalesOrderDetail, error) {
	pre, err := uc.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var (
		detail *SalesOrderDetail
		txs    []*entity.StockTransaction
	)
	err = uc.txRunner.Run(ctx, stockKeys(pre.Order.BranchID, pre.productIDs(), false), func(r ports.Repos) error {
		d, err := loadSalesOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		alloc := inventory.NewAllocator(r, uc.now)
		if err := fn(r, d, alloc); err != nil {
			return err
		}
		d.Order.UpdatedAt = uc.now()
		if err := r.SalesOrders.Update(ctx, d.Order); err != nil {
			return err
		}
		detail = d
		txs = alloc.Ledger().Appended()
		return nil
	})
	if err != nil {
		return nil, err
	}

	olog := uc.log.With("order_id", orderID)
	olog.Info().
		Str("status", string(detail.Order.Status)).
		Int("transactions", len(txs)).
		Msg("orden de venta actualizada")
	publish(ctx, uc.publisher, olog, ports.InventoryEvent{
		Type:         eventType,
		RefType:      entity.RefSalesOrder,
		RefID:        detail.Order.ID,
		BranchID:     detail.Order.BranchID,
		Status:       string(detail.Order.Status),
		Transactions: txs,
		OccurredAt:   uc.now(),
	})
	return detail, nil
}

// ReturnLineInput producto y cantidad devueltos; LotID y UnitCost opcionales.
type ReturnLineInput struct {
	ProductID string
	Quantity  int64
	LotID     *string
	UnitCost  *decimal.Decimal
}

// ReturnInput devolución de una orden de venta.
type ReturnInput struct {
	Reason string
	Lines  []ReturnLineInput
}

// SalesReturnDetail devolución con sus líneas.
type SalesReturnDetail struct {
	Return *entity.SalesReturn
	Lines  []*entity.SalesReturnLine
	Order  *entity.SalesOrder
}

// CreateReturn CONFIRMED|FULFILLED -> RETURNED. Valida todas las líneas antes de mutar nada;
// la orden pasa a RETURNED antes de crear la devolución. Si la orden estaba FULFILLED cada línea
// agrega un RETURN al libro; si estaba CONFIRMED la mercancía nunca salió y se liberan sus reservas.
func (uc *SalesOrderUseCase) CreateReturn(ctx context.Context, orderID string, in ReturnInput) (*SalesReturnDetail, error) {
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("la devolución debe tener al menos una línea")
	}
	pre, err := uc.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var out *SalesReturnDetail
	var txs []*entity.StockTransaction
	err = uc.txRunner.Run(ctx, stockKeys(pre.Order.BranchID, pre.productIDs(), false), func(r ports.Repos) error {
		d, err := loadSalesOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		o := d.Order
		if o.Status != entity.SalesOrderConfirmed && o.Status != entity.SalesOrderFulfilled {
			return fmt.Errorf("%w: orden de venta %s en estado %s no admite devolución", domain.ErrConflict, o.ID, o.Status)
		}
		if err := validateReturnLines(d, in.Lines); err != nil {
			return err
		}
		wasFulfilled := o.Status == entity.SalesOrderFulfilled

		now := uc.now()
		o.Status = entity.SalesOrderReturned
		o.UpdatedAt = now
		if err := r.SalesOrders.Update(ctx, o); err != nil {
			return err
		}

		ret := &entity.SalesReturn{
			ID:           uuid.New().String(),
			SalesOrderID: o.ID,
			BranchID:     o.BranchID,
			Reason:       in.Reason,
			CreatedAt:    now,
		}
		if err := r.SalesReturns.Create(ctx, ret); err != nil {
			return err
		}
		out = &SalesReturnDetail{Return: ret, Order: o}

		alloc := inventory.NewAllocator(r, uc.now)
		for _, l := range in.Lines {
			line := &entity.SalesReturnLine{
				ID:        uuid.New().String(),
				ReturnID:  ret.ID,
				ProductID: l.ProductID,
				LotID:     l.LotID,
				Quantity:  l.Quantity,
				UnitCost:  l.UnitCost,
			}
			if wasFulfilled {
				// sin lote explícito las unidades vuelven a los lotes que consumió esta orden
				rows, err := alloc.ReturnToStock(ctx, inventory.ReturnRequest{
					BranchID:    o.BranchID,
					ProductID:   l.ProductID,
					LotID:       l.LotID,
					Quantity:    l.Quantity,
					UnitCost:    l.UnitCost,
					RefType:     entity.RefSalesReturn,
					RefID:       ret.ID,
					SaleRefType: entity.RefSalesOrder,
					SaleRefID:   o.ID,
				})
				if err != nil {
					return err
				}
				if len(rows) == 1 {
					line.LotID = rows[0].LotID
				}
				line.UnitCost = returnedUnitCost(rows)
			} else if _, err := alloc.Release(ctx, uc.request(o, l.ProductID, l.Quantity)); err != nil {
				return err
			}
			if err := r.SalesReturns.CreateLine(ctx, line); err != nil {
				return err
			}
			out.Lines = append(out.Lines, line)
		}

		// RETURNED es terminal: ninguna reserva de la orden puede seguir vigente
		if !wasFulfilled {
			for _, p := range uniqueProducts(d.Lines) {
				held, err := alloc.Outstanding(ctx, o.BranchID, p, entity.RefSalesOrder, o.ID)
				if err != nil {
					return err
				}
				if held == 0 {
					continue
				}
				if _, err := alloc.Release(ctx, uc.request(o, p, held)); err != nil {
					return err
				}
			}
		}
		txs = alloc.Ledger().Appended()
		return nil
	})
	if err != nil {
		return nil, err
	}

	olog := uc.log.With("order_id", orderID)
	olog.Info().
		Str("return_id", out.Return.ID).
		Int("lines", len(out.Lines)).
		Msg("devolución registrada")
	publish(ctx, uc.publisher, olog, ports.InventoryEvent{
		Type:         ports.EventSalesOrderReturned,
		RefType:      entity.RefSalesReturn,
		RefID:        out.Return.ID,
		BranchID:     out.Order.BranchID,
		Status:       string(out.Order.Status),
		Transactions: txs,
		OccurredAt:   uc.now(),
	})
	return out, nil
}

func (uc *SalesOrderUseCase) request(o *entity.SalesOrder, productID string, qty int64) inventory.Request {
	return inventory.Request{
		BranchID:  o.BranchID,
		ProductID: productID,
		Quantity:  qty,
		RefType:   entity.RefSalesOrder,
		RefID:     o.ID,
	}
}

// returnedUnitCost costo unitario promedio ponderado de las filas RETURN; nil si alguna no tiene costo.
func returnedUnitCost(rows []*entity.StockTransaction) *decimal.Decimal {
	if len(rows) == 1 {
		return rows[0].UnitCost
	}
	total, qty := decimal.Zero, int64(0)
	for _, r := range rows {
		if r.UnitCost == nil {
			return nil
		}
		total = total.Add(r.UnitCost.Mul(decimal.NewFromInt(r.Quantity)))
		qty += r.Quantity
	}
	if qty == 0 {
		return nil
	}
	avg := total.Div(decimal.NewFromInt(qty)).Round(4)
	return &avg
}

// validateReturnLines cada producto debe estar en la orden y la suma devuelta no puede superar lo pedido.
func validateReturnLines(d *SalesOrderDetail, lines []ReturnLineInput) error {
	ordered := make(map[string]int64)
	for _, l := range d.Lines {
		ordered[l.ProductID] += l.Quantity
	}
	returned := make(map[string]int64)
	for i, l := range lines {
		limit, ok := ordered[l.ProductID]
		if !ok {
			return domain.Invalid("línea %d: el producto %s no está en la orden", i, l.ProductID)
		}
		if l.Quantity <= 0 {
			return domain.Invalid("línea %d: cantidad debe ser positiva", i)
		}
		returned[l.ProductID] += l.Quantity
		if returned[l.ProductID] > limit {
			return domain.Invalid("línea %d: se devuelven %d de %s pero la orden tiene %d", i, returned[l.ProductID], l.ProductID, limit)
		}
	}
	return nil
}

func uniqueProducts(lines []*entity.SalesOrderLine) []string {
	seen := make(map[string]bool, len(lines))
	var out []string
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			out = append(out, l.ProductID)
		}
	}
	return out
}

func statusConflict(o *entity.SalesOrder, want entity.SalesOrderStatus) error {
	return fmt.Errorf("%w: orden de venta %s en estado %s, se esperaba %s", domain.ErrConflict, o.ID, o.Status, want)
}

func loadSalesOrder(ctx context.Context, r ports.Repos, orderID string) (*SalesOrderDetail, error) {
	o, err := r.SalesOrders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden de venta %s", domain.ErrNotFound, orderID)
	}
	lines, err := r.SalesOrders.ListLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &SalesOrderDetail{Order: o, Lines: lines}, nil
}
