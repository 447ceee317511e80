package inventory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiceCenter-api/internal/application/inventory"
	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/infrastructure/memory"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

const (
	testBranch  = "branch-1"
	testProduct = "product-1"
)

// tickingClock avanza un minuto por llamada: cada lote y cada fila tienen marca de tiempo distinta.
func tickingClock() func() time.Time {
	var n atomic.Int64
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Minute)
	}
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	now   func() time.Time
}

func newFixture() *fixture {
	return &fixture{ctx: context.Background(), store: memory.NewStore(), now: tickingClock()}
}

// inTx ejecuta fn con un Allocator atado a la transacción.
func (f *fixture) inTx(t *testing.T, fn func(a *inventory.Allocator) error) error {
	t.Helper()
	keys := []entity.LockKey{entity.StockLockKey(testBranch, testProduct)}
	return f.store.Run(f.ctx, keys, func(r ports.Repos) error {
		return fn(inventory.NewAllocator(r, f.now))
	})
}

func (f *fixture) addLot(t *testing.T, qty int64, cost int64) *entity.InventoryLot {
	t.Helper()
	var lot *entity.InventoryLot
	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		l, _, err := a.AddStock(f.ctx, inventory.ReceiptRequest{
			BranchID:  testBranch,
			ProductID: testProduct,
			UnitCost:  decimal.NewFromInt(cost),
			Quantity:  qty,
			RefType:   entity.RefPurchaseOrder,
			RefID:     "po-1",
		})
		lot = l
		return err
	}))
	return lot
}

func (f *fixture) ledger(t *testing.T) []*entity.StockTransaction {
	t.Helper()
	txs, err := f.store.Repos().Transactions.ListByBranchProduct(f.ctx, testBranch, testProduct)
	require.NoError(t, err)
	return txs
}

func req(qty int64, ref string) inventory.Request {
	return inventory.Request{BranchID: testBranch, ProductID: testProduct, Quantity: qty, RefType: entity.RefSalesOrder, RefID: ref}
}

// ─── Fulfill ────────────────────────────────────────────────────────────────

func TestFulfill_ConsumeLoteMasAntiguoPrimero(t *testing.T) {
	f := newFixture()
	oldest := f.addLot(t, 5, 10)
	newer := f.addLot(t, 10, 12)
	before := len(f.ledger(t))

	var allocs []entity.LotAllocation
	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		var err error
		allocs, err = a.Fulfill(f.ctx, req(8, "so-1"))
		return err
	}))

	require.Len(t, allocs, 2)
	assert.Equal(t, oldest.ID, allocs[0].LotID)
	assert.Equal(t, int64(5), allocs[0].Quantity)
	assert.Equal(t, newer.ID, allocs[1].LotID)
	assert.Equal(t, int64(3), allocs[1].Quantity)

	after := f.ledger(t)
	require.Len(t, after, before+2, "exactamente dos filas SALE")
	for _, tx := range after[before:] {
		assert.Equal(t, entity.TxSale, tx.Type)
		assert.Negative(t, tx.Quantity)
	}
}

func TestFulfill_StockInsuficienteNoEscribeNada(t *testing.T) {
	f := newFixture()
	f.addLot(t, 5, 10)
	f.addLot(t, 10, 10)
	before := len(f.ledger(t))

	err := f.inTx(t, func(a *inventory.Allocator) error {
		_, err := a.Fulfill(f.ctx, req(16, "so-1"))
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, f.ledger(t), before, "el libro no debe cambiar")
}

func TestFulfill_LiberaReservaDeLaMismaReferencia(t *testing.T) {
	f := newFixture()
	lot := f.addLot(t, 4, 10)

	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		_, err := a.Reserve(f.ctx, req(4, "so-1"))
		return err
	}))
	// otra referencia no puede tomar lo reservado
	err := f.inTx(t, func(a *inventory.Allocator) error {
		_, err := a.Fulfill(f.ctx, req(1, "so-2"))
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		_, err := a.Fulfill(f.ctx, req(4, "so-1"))
		return err
	}))

	sum, err := inventory.NewStockUseCase(f.store, noopPublisher{}, logger.Nop(), f.now).Summary(f.ctx, testBranch, testProduct)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.Totals.Reserved)
	assert.Equal(t, int64(4), sum.Totals.Sold)
	assert.Equal(t, int64(0), sum.Totals.Available)
	require.Len(t, sum.Lots, 1)
	assert.Equal(t, lot.ID, sum.Lots[0].Lot.ID)
	assert.Equal(t, entity.LotStatusDepleted, sum.Lots[0].Status)
}

func TestFulfill_ReservaEnLoteVencidoEsConflicto(t *testing.T) {
	current := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	f := &fixture{ctx: context.Background(), store: memory.NewStore(), now: func() time.Time { return current }}
	expiry := current.Add(24 * time.Hour)

	var lot *entity.InventoryLot
	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		l, _, err := a.AddStock(f.ctx, inventory.ReceiptRequest{
			BranchID: testBranch, ProductID: testProduct, UnitCost: decimal.NewFromInt(10),
			Quantity: 5, ExpiryDate: &expiry, RefType: entity.RefPurchaseOrder, RefID: "po-1",
		})
		lot = l
		return err
	}))
	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		_, err := a.Reserve(f.ctx, req(3, "so-1"))
		return err
	}))

	current = current.Add(48 * time.Hour)
	before := len(f.ledger(t))
	err := f.inTx(t, func(a *inventory.Allocator) error {
		_, err := a.Fulfill(f.ctx, req(3, "so-1"))
		return err
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), lot.LotCode)
	assert.Len(t, f.ledger(t), before, "el libro no debe cambiar")
}

// ─── Reserve / Release ──────────────────────────────────────────────────────

func TestReserveRelease(t *testing.T) {
	f := newFixture()
	f.addLot(t, 3, 10)
	f.addLot(t, 3, 10)

	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		allocs, err := a.Reserve(f.ctx, req(4, "so-1"))
		require.Len(t, allocs, 2)
		return err
	}))

	t.Run("liberar más de lo reservado es inválido", func(t *testing.T) {
		err := f.inTx(t, func(a *inventory.Allocator) error {
			_, err := a.Release(f.ctx, req(5, "so-1"))
			return err
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("otra referencia no tiene reservas", func(t *testing.T) {
		err := f.inTx(t, func(a *inventory.Allocator) error {
			_, err := a.Release(f.ctx, req(1, "so-9"))
			return err
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("liberación parcial", func(t *testing.T) {
		require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
			_, err := a.Release(f.ctx, req(3, "so-1"))
			if err != nil {
				return err
			}
			held, err := a.Outstanding(f.ctx, testBranch, testProduct, entity.RefSalesOrder, "so-1")
			assert.Equal(t, int64(1), held)
			return err
		}))
	})
}

// ─── AddStock / ReturnToStock / Adjust ──────────────────────────────────────

func TestAddStock_LoteExistente(t *testing.T) {
	f := newFixture()
	lot := f.addLot(t, 2, 10)

	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		got, _, err := a.AddStock(f.ctx, inventory.ReceiptRequest{
			BranchID: testBranch, ProductID: testProduct, LotID: lot.ID,
			UnitCost: decimal.NewFromInt(10), Quantity: 3, RefType: entity.RefManual, RefID: "m-1",
		})
		assert.Equal(t, lot.ID, got.ID)
		return err
	}))
	txs, err := f.store.Repos().Transactions.ListByLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	err = f.inTx(t, func(a *inventory.Allocator) error {
		_, _, err := a.AddStock(f.ctx, inventory.ReceiptRequest{
			BranchID: testBranch, ProductID: "other", LotID: lot.ID,
			Quantity: 1, RefType: entity.RefManual, RefID: "m-2",
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el lote pertenece a otro producto")
}

func TestReturnToStock_SinLoteNiVentaQuedaSinAsignar(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		rows, err := a.ReturnToStock(f.ctx, inventory.ReturnRequest{
			BranchID: testBranch, ProductID: testProduct, Quantity: 2,
			RefType: entity.RefSalesReturn, RefID: "ret-1",
		})
		if err != nil {
			return err
		}
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].LotID)
		assert.Equal(t, entity.TxReturn, rows[0].Type)
		return nil
	}))

	sum, err := inventory.NewStockUseCase(f.store, noopPublisher{}, logger.Nop(), f.now).Summary(f.ctx, testBranch, testProduct)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Unassigned.Returned)
	assert.Equal(t, int64(0), sum.Totals.Current, "lo que no tiene lote no es vendible")
	assert.Equal(t, int64(0), sum.Totals.Available)
}

func TestReturnToStock_VuelveALotesDeLaVenta(t *testing.T) {
	f := newFixture()
	oldest := f.addLot(t, 5, 10)
	newer := f.addLot(t, 10, 12)
	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		_, err := a.Fulfill(f.ctx, req(8, "so-1"))
		return err
	}))

	ret := inventory.ReturnRequest{
		BranchID: testBranch, ProductID: testProduct, Quantity: 4,
		RefType: entity.RefSalesReturn, RefID: "ret-1",
		SaleRefType: entity.RefSalesOrder, SaleRefID: "so-1",
	}
	var rows []*entity.StockTransaction
	require.NoError(t, f.inTx(t, func(a *inventory.Allocator) error {
		var err error
		rows, err = a.ReturnToStock(f.ctx, ret)
		return err
	}))

	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, *rows[0].LotID, "la venta más reciente se repone primero")
	assert.Equal(t, int64(3), rows[0].Quantity)
	assert.True(t, rows[0].UnitCost.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, oldest.ID, *rows[1].LotID)
	assert.Equal(t, int64(1), rows[1].Quantity)

	// quedan 4 vendidas del lote antiguo: devolver 5 más con la misma referencia excede lo vendido
	before := len(f.ledger(t))
	ret.Quantity = 5
	err := f.inTx(t, func(a *inventory.Allocator) error {
		_, err := a.ReturnToStock(f.ctx, ret)
		return err
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, f.ledger(t), before)

	sum, err := inventory.NewStockUseCase(f.store, noopPublisher{}, logger.Nop(), f.now).Summary(f.ctx, testBranch, testProduct)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.Unassigned.Returned)
	assert.Equal(t, int64(11), sum.Totals.Available)
}

func TestAdjust_NegativoNoSuperaDisponible(t *testing.T) {
	f := newFixture()
	lot := f.addLot(t, 3, 10)
	uc := inventory.NewStockUseCase(f.store, noopPublisher{}, logger.Nop(), f.now)

	_, err := uc.Adjust(f.ctx, inventory.AdjustInput{BranchID: testBranch, ProductID: testProduct, LotID: lot.ID, Quantity: -4})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	tx, err := uc.Adjust(f.ctx, inventory.AdjustInput{BranchID: testBranch, ProductID: testProduct, LotID: lot.ID, Quantity: -1, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, entity.TxAdjustment, tx.Type)
	assert.Equal(t, entity.RefManual, tx.RefType)

	_, err = uc.Adjust(f.ctx, inventory.AdjustInput{BranchID: testBranch, ProductID: testProduct, LotID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerAppend_CamposObligatorios(t *testing.T) {
	f := newFixture()
	err := f.store.Run(f.ctx, nil, func(r ports.Repos) error {
		_, err := inventory.NewLedger(r.Transactions, f.now).Append(f.ctx, inventory.AppendInput{
			BranchID: testBranch, ProductID: testProduct, Type: entity.TxSale, Quantity: 0,
			RefType: entity.RefManual, RefID: "x",
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Concurrencia ───────────────────────────────────────────────────────────

func TestFulfill_ConcurrenteNoSobrevende(t *testing.T) {
	f := newFixture()
	f.addLot(t, 10, 10)
	f.addLot(t, 10, 10)

	var (
		wg      sync.WaitGroup
		success atomic.Int64
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := f.inTx(t, func(a *inventory.Allocator) error {
				_, err := a.Fulfill(f.ctx, req(3, "so-concurrent"))
				return err
			})
			if err == nil {
				success.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(6), success.Load(), "20 unidades alcanzan para 6 pedidos de 3")
	sum, err := inventory.NewStockUseCase(f.store, noopPublisher{}, logger.Nop(), f.now).Summary(f.ctx, testBranch, testProduct)
	require.NoError(t, err)
	assert.Equal(t, int64(18), sum.Totals.Sold)
	assert.GreaterOrEqual(t, sum.Totals.Available, int64(0))
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ports.InventoryEvent) error { return nil }
