package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo libro de stock sobre PostgreSQL (usable con pool o tx). Solo INSERT.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const stockTxColumns = `id, branch_id, product_id, lot_id, type, quantity, unit_cost, ref_type, ref_id, created_at`

// Append inserta una fila del libro. seq (BIGSERIAL) fija el orden de inserción para los empates de created_at.
func (r *StockTransactionRepo) Append(ctx context.Context, tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `INSERT INTO stock_transactions (` + stockTxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.BranchID, tx.ProductID, nullIfEmpty(tx.LotID), tx.Type,
		tx.Quantity, tx.UnitCost, tx.RefType, tx.RefID, tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transacción %s ya existe", domain.ErrConflict, tx.ID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el lote de la transacción %s no existe", domain.ErrNotFound, tx.ID)
		}
		return fmt.Errorf("append stock transaction: %w", err)
	}
	return nil
}

// ListByLot transacciones de un lote en orden de creación.
func (r *StockTransactionRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + stockTxColumns + `
		FROM stock_transactions WHERE lot_id = $1
		ORDER BY created_at, seq`
	rows, err := r.q.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by lot: %w", err)
	}
	return scanStockTransactions(rows)
}

// ListByBranchProduct transacciones de un producto en una sucursal, con o sin lote.
func (r *StockTransactionRepo) ListByBranchProduct(ctx context.Context, branchID, productID string) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + stockTxColumns + `
		FROM stock_transactions WHERE branch_id = $1 AND product_id = $2
		ORDER BY created_at, seq`
	rows, err := r.q.Query(ctx, query, branchID, productID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by branch/product: %w", err)
	}
	return scanStockTransactions(rows)
}

func scanStockTransactions(rows pgx.Rows) ([]*entity.StockTransaction, error) {
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		if err := rows.Scan(&t.ID, &t.BranchID, &t.ProductID, &t.LotID, &t.Type,
			&t.Quantity, &t.UnitCost, &t.RefType, &t.RefID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
