package repository

import (
	"context"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// StockTransactionRepository puerto del libro de stock. Solo inserción: no existe Update ni Delete.
type StockTransactionRepository interface {
	Append(ctx context.Context, tx *entity.StockTransaction) error
	// ListByLot devuelve las transacciones del lote en orden de creación ascendente (empates por orden de inserción).
	ListByLot(ctx context.Context, lotID string) ([]*entity.StockTransaction, error)
	ListByBranchProduct(ctx context.Context, branchID, productID string) ([]*entity.StockTransaction, error)
}
