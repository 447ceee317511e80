package orders_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiceCenter-api/internal/application/inventory"
	"github.com/jhoicas/ServiceCenter-api/internal/application/orders"
	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/infrastructure/memory"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

const branch = "branch-1"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.InventoryEvent
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, evt ports.InventoryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker caído")
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type env struct {
	ctx       context.Context
	store     *memory.Store
	publisher *recordingPublisher
	purchases *orders.PurchaseOrderUseCase
	sales     *orders.SalesOrderUseCase
	stock     *inventory.StockUseCase
}

func newEnv() *env {
	var n atomic.Int64
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	now := func() time.Time { return base.Add(time.Duration(n.Add(1)) * time.Second) }

	store := memory.NewStore()
	pub := &recordingPublisher{}
	log := logger.Nop()
	return &env{
		ctx:       context.Background(),
		store:     store,
		publisher: pub,
		purchases: orders.NewPurchaseOrderUseCase(store, pub, log, now),
		sales:     orders.NewSalesOrderUseCase(store, pub, log, now),
		stock:     inventory.NewStockUseCase(store, pub, log, now),
	}
}

func (e *env) submittedPO(t *testing.T, lines ...orders.PurchaseLineInput) *orders.PurchaseOrderDetail {
	t.Helper()
	po, err := e.purchases.Create(e.ctx, orders.CreatePurchaseOrderInput{BranchID: branch, SupplierID: "sup-1", Lines: lines})
	require.NoError(t, err)
	_, err = e.purchases.Submit(e.ctx, po.Order.ID)
	require.NoError(t, err)
	return po
}

// stockUp recibe qty unidades de productID a costo cost.
func (e *env) stockUp(t *testing.T, productID string, qty, cost int64) {
	t.Helper()
	po := e.submittedPO(t, orders.PurchaseLineInput{ProductID: productID, Quantity: qty, UnitCost: decimal.NewFromInt(cost)})
	_, err := e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{})
	require.NoError(t, err)
}

func (e *env) summary(t *testing.T, productID string) entity.LotQuantities {
	t.Helper()
	s, err := e.stock.Summary(e.ctx, branch, productID)
	require.NoError(t, err)
	return s.Totals
}

func ptr[T any](v T) *T { return &v }

// ─── Órdenes de compra ──────────────────────────────────────────────────────

func TestPurchaseOrder_SubmitSoloDesdeDraft(t *testing.T) {
	e := newEnv()
	po := e.submittedPO(t, orders.PurchaseLineInput{ProductID: "p1", Quantity: 1, UnitCost: decimal.NewFromInt(1)})

	_, err := e.purchases.Submit(e.ctx, po.Order.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = e.purchases.Submit(e.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseOrder_ReceiveEnDraftEsConflicto(t *testing.T) {
	e := newEnv()
	po, err := e.purchases.Create(e.ctx, orders.CreatePurchaseOrderInput{
		BranchID: branch, SupplierID: "sup-1",
		Lines: []orders.PurchaseLineInput{{ProductID: "p1", Quantity: 1, UnitCost: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	_, err = e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPurchaseOrder_RecepcionParcialYLuegoCompleta(t *testing.T) {
	e := newEnv()
	po := e.submittedPO(t,
		orders.PurchaseLineInput{ProductID: "p1", Quantity: 5, UnitCost: decimal.NewFromInt(10)},
		orders.PurchaseLineInput{ProductID: "p2", Quantity: 7, UnitCost: decimal.NewFromInt(20)},
	)
	first, second := po.Lines[0], po.Lines[1]

	got, err := e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{LineIDs: []string{first.ID}})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPartiallyReceived, got.Order.Status)
	assert.Equal(t, int64(5), e.summary(t, "p1").Received)
	assert.Equal(t, int64(0), e.summary(t, "p2").Received)

	got, err = e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{LineIDs: []string{second.ID}})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, got.Order.Status)
	for _, l := range got.Lines {
		assert.Equal(t, l.QuantityOrdered, l.QuantityReceived)
	}
	assert.Equal(t, int64(7), e.summary(t, "p2").Received)

	// una orden RECEIVED no admite más recepciones
	_, err = e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPurchaseOrder_LineasCompletasSeOmiten(t *testing.T) {
	e := newEnv()
	po := e.submittedPO(t,
		orders.PurchaseLineInput{ProductID: "p1", Quantity: 5, UnitCost: decimal.NewFromInt(10)},
		orders.PurchaseLineInput{ProductID: "p2", Quantity: 2, UnitCost: decimal.NewFromInt(10)},
	)
	_, err := e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{LineIDs: []string{po.Lines[0].ID}})
	require.NoError(t, err)
	// pedir de nuevo la línea ya completa junto con la pendiente no duplica stock
	_, err = e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), e.summary(t, "p1").Received)
	assert.Equal(t, int64(2), e.summary(t, "p2").Received)
}

func TestPurchaseOrder_LineaAjenaEsInvalida(t *testing.T) {
	e := newEnv()
	po := e.submittedPO(t, orders.PurchaseLineInput{ProductID: "p1", Quantity: 1, UnitCost: decimal.NewFromInt(1)})
	_, err := e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{LineIDs: []string{"other"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseOrder_PrecioPicoSoloSube(t *testing.T) {
	e := newEnv()
	var peaks []string
	for _, cost := range []int64{10, 7, 15, 12} {
		e.stockUp(t, "p1", 1, cost)
		stats, err := e.store.Repos().CostStats.FindByProduct(e.ctx, "p1")
		require.NoError(t, err)
		require.NotNil(t, stats)
		peaks = append(peaks, stats.PeakPurchasePrice.String())
	}
	assert.Equal(t, []string{"10", "10", "15", "15"}, peaks)
}

func TestPurchaseOrder_ReceiveCreaUnLotePorLinea(t *testing.T) {
	e := newEnv()
	expiry := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	po := e.submittedPO(t, orders.PurchaseLineInput{ProductID: "p1", Quantity: 4, UnitCost: decimal.NewFromInt(9), ExpiryDate: &expiry})
	_, err := e.purchases.Receive(e.ctx, po.Order.ID, orders.ReceiveInput{})
	require.NoError(t, err)

	lots, err := e.store.Repos().Lots.ListByBranchProduct(e.ctx, branch, "p1")
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "sup-1", *lots[0].SupplierID)
	assert.True(t, lots[0].UnitCost.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, expiry, *lots[0].ExpiryDate)
	assert.NotEmpty(t, lots[0].LotCode)

	assert.Contains(t, e.publisher.types(), ports.EventPurchaseOrderReceived)
}

// ─── Órdenes de venta ───────────────────────────────────────────────────────

func TestSalesOrder_CicloCompleto(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 5, 10)
	e.stockUp(t, "p1", 10, 12)
	e.store.PutPriceBook(&entity.PriceBook{ID: "book", ValidFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		&entity.PriceBookItem{ID: "i1", ProductID: ptr("p1"), PolicyType: entity.PolicyFixed, FixedPrice: ptr(decimal.NewFromInt(30))},
	)

	so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
		BranchID: branch, CustomerID: "c1",
		Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: 8}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderDraft, so.Order.Status)

	confirmed, err := e.sales.Confirm(e.ctx, so.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderConfirmed, confirmed.Order.Status)
	require.NotNil(t, confirmed.Lines[0].UnitPrice)
	assert.True(t, confirmed.Lines[0].UnitPrice.Equal(decimal.NewFromInt(30)))
	q := e.summary(t, "p1")
	assert.Equal(t, int64(8), q.Reserved)
	assert.Equal(t, int64(7), q.Available)

	fulfilled, err := e.sales.Fulfill(e.ctx, so.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderFulfilled, fulfilled.Order.Status)
	q = e.summary(t, "p1")
	assert.Equal(t, int64(0), q.Reserved)
	assert.Equal(t, int64(8), q.Sold)
	assert.Equal(t, int64(7), q.Current)

	s, err := e.stock.Summary(e.ctx, branch, "p1")
	require.NoError(t, err)
	require.Len(t, s.Lots, 2)
	assert.Equal(t, int64(0), s.Lots[0].Quantities.Current, "el lote más antiguo se agota primero")
	assert.Equal(t, int64(7), s.Lots[1].Quantities.Current)

	_, err = e.sales.Fulfill(e.ctx, so.Order.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, []string{
		ports.EventPurchaseOrderSubmitted, ports.EventPurchaseOrderReceived,
		ports.EventPurchaseOrderSubmitted, ports.EventPurchaseOrderReceived,
		ports.EventSalesOrderConfirmed, ports.EventSalesOrderFulfilled,
	}, e.publisher.types())
}

func TestSalesOrder_ConfirmSinListaUsaPrecioPorDefecto(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 2, 10)
	so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
		BranchID: branch, CustomerID: "c1",
		Lines: []orders.SalesLineInput{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p1", Quantity: 1, UnitPrice: ptr(decimal.NewFromInt(50))},
		},
	})
	require.NoError(t, err)
	got, err := e.sales.Confirm(e.ctx, so.Order.ID)
	require.NoError(t, err)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.NewFromInt(1)))
	assert.True(t, got.Lines[1].UnitPrice.Equal(decimal.NewFromInt(50)), "un precio ya fijado no se toca")
}

func TestSalesOrder_ConfirmSinStockNoDejaRastro(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 3, 10)
	so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
		BranchID: branch, CustomerID: "c1",
		Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: 4}},
	})
	require.NoError(t, err)
	before, err := e.store.Repos().Transactions.ListByBranchProduct(e.ctx, branch, "p1")
	require.NoError(t, err)

	_, err = e.sales.Confirm(e.ctx, so.Order.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	after, err := e.store.Repos().Transactions.ListByBranchProduct(e.ctx, branch, "p1")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
	got, err := e.sales.Get(e.ctx, so.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderDraft, got.Order.Status)
	assert.Nil(t, got.Lines[0].UnitPrice, "el precio resuelto se revierte con la transacción")
}

func TestSalesOrder_ConfirmConListaExplicitaInexistente(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 3, 10)
	so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
		BranchID: branch, CustomerID: "c1", PriceBookID: ptr("nope"),
		Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = e.sales.Confirm(e.ctx, so.Order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Devoluciones ───────────────────────────────────────────────────────────

func TestCreateReturn_DesdeFulfilledDevuelveAlStock(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 10, 10)
	so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
		BranchID: branch, CustomerID: "c1",
		Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: 6, UnitPrice: ptr(decimal.NewFromInt(20))}},
	})
	require.NoError(t, err)
	_, err = e.sales.Confirm(e.ctx, so.Order.ID)
	require.NoError(t, err)
	_, err = e.sales.Fulfill(e.ctx, so.Order.ID)
	require.NoError(t, err)

	ret, err := e.sales.CreateReturn(e.ctx, so.Order.ID, orders.ReturnInput{
		Reason: "cliente desistió",
		Lines:  []orders.ReturnLineInput{{ProductID: "p1", Quantity: 2, UnitCost: ptr(decimal.NewFromInt(10))}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderReturned, ret.Order.Status)
	require.Len(t, ret.Lines, 1)

	require.NotNil(t, ret.Lines[0].LotID, "sin lote explícito vuelve al lote vendido")

	q := e.summary(t, "p1")
	assert.Equal(t, int64(2), q.Returned)
	assert.Equal(t, int64(6), q.Current)
	assert.Equal(t, int64(6), q.Available)

	stored, err := e.store.Repos().SalesReturns.ListLines(e.ctx, ret.Return.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	_, err = e.sales.CreateReturn(e.ctx, so.Order.ID, orders.ReturnInput{
		Lines: []orders.ReturnLineInput{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "RETURNED es terminal")
}

func TestCreateReturn_SinLoteQuedaVendible(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 5, 10)
	e.stockUp(t, "p1", 5, 12)
	fulfilled := func(qty int64) string {
		so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
			BranchID: branch, CustomerID: "c1",
			Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: qty, UnitPrice: ptr(decimal.NewFromInt(20))}},
		})
		require.NoError(t, err)
		_, err = e.sales.Confirm(e.ctx, so.Order.ID)
		require.NoError(t, err)
		_, err = e.sales.Fulfill(e.ctx, so.Order.ID)
		require.NoError(t, err)
		return so.Order.ID
	}

	orderID := fulfilled(8)
	ret, err := e.sales.CreateReturn(e.ctx, orderID, orders.ReturnInput{
		Lines: []orders.ReturnLineInput{{ProductID: "p1", Quantity: 8}},
	})
	require.NoError(t, err)
	require.Len(t, ret.Lines, 1)
	assert.Nil(t, ret.Lines[0].LotID, "la devolución se repartió en dos lotes")
	require.NotNil(t, ret.Lines[0].UnitCost)
	assert.Equal(t, "10.75", ret.Lines[0].UnitCost.String(), "promedio ponderado 3×12 + 5×10")

	s, err := e.stock.Summary(e.ctx, branch, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Unassigned.Returned)
	assert.Equal(t, int64(10), s.Totals.Available)

	// lo devuelto se puede volver a reservar y vender completo
	fulfilled(10)
	assert.Equal(t, int64(0), e.summary(t, "p1").Available)
}

func TestCreateReturn_DesdeConfirmedLiberaReservas(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 10, 10)
	so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
		BranchID: branch, CustomerID: "c1",
		Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: 6, UnitPrice: ptr(decimal.NewFromInt(20))}},
	})
	require.NoError(t, err)
	_, err = e.sales.Confirm(e.ctx, so.Order.ID)
	require.NoError(t, err)

	_, err = e.sales.CreateReturn(e.ctx, so.Order.ID, orders.ReturnInput{
		Lines: []orders.ReturnLineInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)

	q := e.summary(t, "p1")
	assert.Equal(t, int64(0), q.Reserved, "ninguna reserva de una orden devuelta queda vigente")
	assert.Equal(t, int64(0), q.Returned, "la mercancía nunca salió")
	assert.Equal(t, int64(10), q.Available)
}

func TestCreateReturn_ValidaAntesDeMutar(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 10, 10)
	so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
		BranchID: branch, CustomerID: "c1",
		Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: 3, UnitPrice: ptr(decimal.NewFromInt(20))}},
	})
	require.NoError(t, err)

	_, err = e.sales.CreateReturn(e.ctx, so.Order.ID, orders.ReturnInput{
		Lines: []orders.ReturnLineInput{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "DRAFT no admite devolución")

	_, err = e.sales.Confirm(e.ctx, so.Order.ID)
	require.NoError(t, err)

	tests := []struct {
		name  string
		lines []orders.ReturnLineInput
	}{
		{"sin líneas", nil},
		{"producto ajeno", []orders.ReturnLineInput{{ProductID: "p9", Quantity: 1}}},
		{"cantidad cero", []orders.ReturnLineInput{{ProductID: "p1", Quantity: 0}}},
		{"excede lo pedido", []orders.ReturnLineInput{{ProductID: "p1", Quantity: 2}, {ProductID: "p1", Quantity: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.sales.CreateReturn(e.ctx, so.Order.ID, orders.ReturnInput{Lines: tt.lines})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			got, err := e.sales.Get(e.ctx, so.Order.ID)
			require.NoError(t, err)
			assert.Equal(t, entity.SalesOrderConfirmed, got.Order.Status)
		})
	}
}

// ─── Eventos y concurrencia ─────────────────────────────────────────────────

func TestPublicacionFallidaNoRevierte(t *testing.T) {
	e := newEnv()
	e.publisher.fail = true
	e.stockUp(t, "p1", 4, 10)
	assert.Equal(t, int64(4), e.summary(t, "p1").Current)
}

func TestFulfillConcurrente_NoSobrevende(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 10, 10)

	// ninguna reserva previa: cada Fulfill compite por el mismo stock libre
	ids := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
			BranchID: branch, CustomerID: "c1",
			Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: 3, UnitPrice: ptr(decimal.NewFromInt(1))}},
		})
		require.NoError(t, err)
		ids = append(ids, so.Order.ID)
	}

	var (
		wg        sync.WaitGroup
		confirmed atomic.Int64
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := e.sales.Confirm(e.ctx, id); err != nil {
				return
			}
			if _, err := e.sales.Fulfill(e.ctx, id); err == nil {
				confirmed.Add(1)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, int64(3), confirmed.Load(), "10 unidades alcanzan para 3 órdenes de 3")
	q := e.summary(t, "p1")
	assert.Equal(t, int64(9), q.Sold)
	assert.Equal(t, int64(1), q.Available)
}

// ─── Nota de devolución ─────────────────────────────────────────────────────

type fakeNoteGenerator struct {
	got *orders.SalesReturnDetail
}

func (g *fakeNoteGenerator) GenerateReturnNote(_ context.Context, ret *orders.SalesReturnDetail, orderCode string) ([]byte, error) {
	g.got = ret
	return []byte("%PDF-" + orderCode), nil
}

func TestSalesReturnPDF_Download(t *testing.T) {
	e := newEnv()
	e.stockUp(t, "p1", 5, 10)
	so, err := e.sales.Create(e.ctx, orders.CreateSalesOrderInput{
		Code: "SO-1", BranchID: branch, CustomerID: "c1",
		Lines: []orders.SalesLineInput{{ProductID: "p1", Quantity: 2, UnitPrice: ptr(decimal.NewFromInt(20))}},
	})
	require.NoError(t, err)
	_, err = e.sales.Confirm(e.ctx, so.Order.ID)
	require.NoError(t, err)
	_, err = e.sales.Fulfill(e.ctx, so.Order.ID)
	require.NoError(t, err)
	ret, err := e.sales.CreateReturn(e.ctx, so.Order.ID, orders.ReturnInput{
		Lines: []orders.ReturnLineInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	gen := &fakeNoteGenerator{}
	uc := orders.NewSalesReturnPDFUseCase(e.store, gen)

	pdf, filename, err := uc.Download(e.ctx, ret.Return.ID)
	require.NoError(t, err)
	assert.Equal(t, "devolucion_SO-1.pdf", filename)
	assert.Equal(t, []byte("%PDF-SO-1"), pdf)
	require.NotNil(t, gen.got)
	assert.Len(t, gen.got.Lines, 1)
	assert.Equal(t, entity.SalesOrderReturned, gen.got.Order.Status)

	_, _, err = uc.Download(e.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
