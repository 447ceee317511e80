package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/application/inventory"
	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	dominv "github.com/jhoicas/ServiceCenter-api/internal/domain/inventory"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

// PurchaseOrderUseCase ciclo DRAFT -> PENDING_DELIVERY -> PARTIALLY_RECEIVED | RECEIVED.
type PurchaseOrderUseCase struct {
	txRunner  ports.TxRunner
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(txRunner ports.TxRunner, publisher ports.EventPublisher, log *logger.Logger, now func() time.Time) *PurchaseOrderUseCase {
	if now == nil {
		now = time.Now
	}
	return &PurchaseOrderUseCase{txRunner: txRunner, publisher: publisher, log: log, now: now}
}

// PurchaseOrderDetail orden con sus líneas.
type PurchaseOrderDetail struct {
	Order *entity.PurchaseOrder
	Lines []*entity.PurchaseOrderLine
}

// PurchaseLineInput línea de una orden de compra nueva.
type PurchaseLineInput struct {
	ProductID  string
	Quantity   int64
	UnitCost   decimal.Decimal
	ExpiryDate *time.Time
}

// CreatePurchaseOrderInput datos de una orden de compra nueva.
type CreatePurchaseOrderInput struct {
	Code       string
	BranchID   string
	SupplierID string
	Lines      []PurchaseLineInput
}

// Create registra la orden en DRAFT con sus líneas.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in CreatePurchaseOrderInput) (*PurchaseOrderDetail, error) {
	if in.BranchID == "" || in.SupplierID == "" {
		return nil, domain.Invalid("branch_id y supplier_id requeridos")
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("la orden debe tener al menos una línea")
	}
	for i, l := range in.Lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return nil, domain.Invalid("línea %d: product_id y cantidad positiva requeridos", i)
		}
		if l.UnitCost.IsNegative() {
			return nil, domain.Invalid("línea %d: costo unitario negativo", i)
		}
	}

	now := uc.now()
	order := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		Code:       in.Code,
		BranchID:   in.BranchID,
		SupplierID: in.SupplierID,
		Status:     entity.PurchaseOrderDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if order.Code == "" {
		order.Code = generateCode("PO", now)
	}
	detail := &PurchaseOrderDetail{Order: order}
	err := uc.txRunner.Run(ctx, nil, func(r ports.Repos) error {
		if err := r.PurchaseOrders.Create(ctx, order); err != nil {
			return err
		}
		for _, l := range in.Lines {
			line := &entity.PurchaseOrderLine{
				ID:              uuid.New().String(),
				OrderID:         order.ID,
				ProductID:       l.ProductID,
				QuantityOrdered: l.Quantity,
				UnitCost:        l.UnitCost,
				ExpiryDate:      l.ExpiryDate,
			}
			if err := r.PurchaseOrders.CreateLine(ctx, line); err != nil {
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
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, orderID string) (*PurchaseOrderDetail, error) {
	var detail *PurchaseOrderDetail
	err := uc.txRunner.Run(ctx, nil, func(r ports.Repos) error {
		d, err := loadPurchaseOrder(ctx, r, orderID)
		detail = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Submit DRAFT -> PENDING_DELIVERY.
func (uc *PurchaseOrderUseCase) Submit(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, nil, func(r ports.Repos) error {
		o, err := r.PurchaseOrders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, orderID)
		}
		if o.Status != entity.PurchaseOrderDraft {
			return fmt.Errorf("%w: orden de compra %s en estado %s, se esperaba %s",
				domain.ErrConflict, orderID, o.Status, entity.PurchaseOrderDraft)
		}
		o.Status = entity.PurchaseOrderPendingDelivery
		o.UpdatedAt = uc.now()
		order = o
		return r.PurchaseOrders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, uc.publisher, uc.log, ports.InventoryEvent{
		Type:       ports.EventPurchaseOrderSubmitted,
		RefType:    entity.RefPurchaseOrder,
		RefID:      order.ID,
		BranchID:   order.BranchID,
		Status:     string(order.Status),
		OccurredAt: uc.now(),
	})
	return order, nil
}

// ReceiveInput líneas a recibir; vacío = todas.
type ReceiveInput struct {
	LineIDs []string
}

// Receive recibe completas las líneas seleccionadas que tengan saldo pendiente: crea un lote por línea,
// actualiza el precio pico del producto y marca la línea como recibida. Las líneas ya completas se omiten.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, orderID string, in ReceiveInput) (*PurchaseOrderDetail, error) {
	pre, err := uc.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	selected, err := selectLines(pre.Lines, in.LineIDs)
	if err != nil {
		return nil, err
	}
	products := make([]string, 0, len(pre.Lines))
	for _, l := range pre.Lines {
		if selected[l.ID] {
			products = append(products, l.ProductID)
		}
	}

	olog := uc.log.With("order_id", orderID)
	var (
		detail *PurchaseOrderDetail
		txs    []*entity.StockTransaction
	)
	err = uc.txRunner.Run(ctx, stockKeys(pre.Order.BranchID, products, true), func(r ports.Repos) error {
		d, err := loadPurchaseOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		o := d.Order
		if o.Status != entity.PurchaseOrderPendingDelivery && o.Status != entity.PurchaseOrderPartiallyReceived {
			return fmt.Errorf("%w: orden de compra %s en estado %s no admite recepción", domain.ErrConflict, o.ID, o.Status)
		}

		alloc := inventory.NewAllocator(r, uc.now)
		supplier := o.SupplierID
		for _, line := range d.Lines {
			if !selected[line.ID] || line.IsComplete() {
				continue
			}
			lot, _, err := alloc.AddStock(ctx, inventory.ReceiptRequest{
				BranchID:   o.BranchID,
				ProductID:  line.ProductID,
				SupplierID: &supplier,
				ExpiryDate: line.ExpiryDate,
				UnitCost:   line.UnitCost,
				Quantity:   line.Remaining(),
				RefType:    entity.RefPurchaseOrder,
				RefID:      o.ID,
			})
			if err != nil {
				return fmt.Errorf("recibir línea %s: %w", line.ID, err)
			}
			olog.Debug().
				Str("line_id", line.ID).
				Str("lot_code", lot.LotCode).
				Int64("quantity", line.Remaining()).
				Msg("línea recibida")
			if err := uc.ratchetPeak(ctx, r, line.ProductID, line.UnitCost); err != nil {
				return err
			}
			// solo recepción de línea completa
			line.QuantityReceived = line.QuantityOrdered
			if err := r.PurchaseOrders.UpdateLine(ctx, line); err != nil {
				return err
			}
		}
		txs = alloc.Ledger().Appended()

		o.Status = entity.PurchaseOrderReceived
		for _, line := range d.Lines {
			if !line.IsComplete() {
				o.Status = entity.PurchaseOrderPartiallyReceived
				break
			}
		}
		o.UpdatedAt = uc.now()
		if err := r.PurchaseOrders.Update(ctx, o); err != nil {
			return err
		}
		detail = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	olog.Info().
		Str("status", string(detail.Order.Status)).
		Int("transactions", len(txs)).
		Msg("orden de compra recibida")
	publish(ctx, uc.publisher, olog, ports.InventoryEvent{
		Type:         ports.EventPurchaseOrderReceived,
		RefType:      entity.RefPurchaseOrder,
		RefID:        detail.Order.ID,
		BranchID:     detail.Order.BranchID,
		Status:       string(detail.Order.Status),
		Transactions: txs,
		OccurredAt:   uc.now(),
	})
	return detail, nil
}

// ratchetPeak crea o sube el precio pico de compra del producto (nunca lo baja).
func (uc *PurchaseOrderUseCase) ratchetPeak(ctx context.Context, r ports.Repos, productID string, unitCost decimal.Decimal) error {
	stats, err := r.CostStats.FindByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("find cost stats: %w", err)
	}
	next, created, changed := dominv.RatchetPeakPrice(stats, productID, unitCost, uc.now())
	switch {
	case created:
		return r.CostStats.Create(ctx, next)
	case changed:
		return r.CostStats.Update(ctx, next)
	}
	return nil
}

func loadPurchaseOrder(ctx context.Context, r ports.Repos, orderID string) (*PurchaseOrderDetail, error) {
	o, err := r.PurchaseOrders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, orderID)
	}
	lines, err := r.PurchaseOrders.ListLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderDetail{Order: o, Lines: lines}, nil
}

// selectLines conjunto de líneas seleccionadas; ids vacío = todas. Un id ajeno a la orden es error de entrada.
func selectLines(lines []*entity.PurchaseOrderLine, ids []string) (map[string]bool, error) {
	sel := make(map[string]bool, len(lines))
	if len(ids) == 0 {
		for _, l := range lines {
			sel[l.ID] = true
		}
		return sel, nil
	}
	known := make(map[string]bool, len(lines))
	for _, l := range lines {
		known[l.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, domain.Invalid("la línea %s no pertenece a la orden", id)
		}
		sel[id] = true
	}
	return sel, nil
}
