package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/infrastructure/memory"
)

func TestStore_RunConfirmaSoloSinError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	lot := "l1"

	boom := errors.New("boom")
	err := store.Run(ctx, nil, func(r ports.Repos) error {
		require.NoError(t, r.Transactions.Append(ctx, &entity.StockTransaction{ID: "t1", BranchID: "b", ProductID: "p", LotID: &lot, Type: entity.TxPurchaseReceipt, Quantity: 5}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	txs, err := store.Repos().Transactions.ListByLot(ctx, lot)
	require.NoError(t, err)
	assert.Empty(t, txs, "rollback: la fila no debe quedar visible")

	err = store.Run(ctx, nil, func(r ports.Repos) error {
		return r.Transactions.Append(ctx, &entity.StockTransaction{ID: "t2", BranchID: "b", ProductID: "p", LotID: &lot, Type: entity.TxPurchaseReceipt, Quantity: 5})
	})
	require.NoError(t, err)
	txs, err = store.Repos().Transactions.ListByLot(ctx, lot)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "t2", txs[0].ID)
}

func TestStore_LecturasDevuelvenCopias(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.SalesOrders.Create(ctx, &entity.SalesOrder{ID: "o1", Status: entity.SalesOrderDraft}))

	got, err := repos.SalesOrders.GetByID(ctx, "o1")
	require.NoError(t, err)
	got.Status = entity.SalesOrderFulfilled

	again, err := repos.SalesOrders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderDraft, again.Status)
}

func TestStore_NoEncontradoDevuelveNil(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	lot, err := repos.Lots.GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, lot)
	stats, err := repos.CostStats.FindByProduct(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestStore_OrdenDeLibroEstableEnEmpates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Repos().Transactions.Append(ctx, &entity.StockTransaction{
			ID: id, BranchID: "b", ProductID: "p", Type: entity.TxReturn, Quantity: 1, CreatedAt: at,
		}))
	}
	txs, err := store.Repos().Transactions.ListByBranchProduct(ctx, "b", "p")
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "a", txs[0].ID)
	assert.Equal(t, "c", txs[2].ID)
}

func TestPriceBookRepo_ListActiveInRange(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	branch := "b1"
	other := "b2"
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	store.PutPriceBook(&entity.PriceBook{ID: "g", ValidFrom: jan})
	store.PutPriceBook(&entity.PriceBook{ID: "mine", BranchID: &branch, ValidFrom: jan})
	store.PutPriceBook(&entity.PriceBook{ID: "theirs", BranchID: &other, ValidFrom: jan})
	store.PutPriceBook(&entity.PriceBook{ID: "closed", ValidFrom: jan, ValidTo: &feb})

	books, err := store.Repos().PriceBooks.ListActiveInRange(ctx, &branch, feb, nil)
	require.NoError(t, err)
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []string{"g", "mine"}, ids)
}
