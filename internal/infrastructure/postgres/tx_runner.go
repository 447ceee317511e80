package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, toma un advisory lock de transacción por clave (ordenadas y sin
// duplicados, para que dos operaciones nunca se esperen en orden inverso), ejecuta fn con repos
// atados a la tx y hace Commit o Rollback. Los locks se liberan solos al terminar la tx.
func (r *TxRunner) Run(ctx context.Context, keys []entity.LockKey, fn func(ports.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, k := range sortedKeys(keys) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, string(k)); err != nil {
			return fmt.Errorf("advisory lock %s: %w", k, err)
		}
	}

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos repositorios sobre el pool, sin transacción ni locks (lecturas sueltas).
func (r *TxRunner) Repos() ports.Repos {
	return reposFor(r.pool)
}

func reposFor(q Querier) ports.Repos {
	return ports.Repos{
		Transactions:   NewStockTransactionRepository(q),
		Lots:           NewInventoryLotRepository(q),
		PriceBooks:     NewPriceBookRepository(q),
		CostStats:      NewProductCostStatsRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		SalesOrders:    NewSalesOrderRepository(q),
		SalesReturns:   NewSalesReturnRepository(q),
	}
}

func sortedKeys(keys []entity.LockKey) []entity.LockKey {
	seen := make(map[entity.LockKey]bool, len(keys))
	out := make([]entity.LockKey, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// pgx.Tx y *pgxpool.Pool cumplen Querier.
var (
	_ Querier = (pgx.Tx)(nil)
	_ Querier = (*pgxpool.Pool)(nil)
)
