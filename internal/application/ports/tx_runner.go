package ports

import (
	"context"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción (o al pool, fuera de ella).
type Repos struct {
	Transactions   repository.StockTransactionRepository
	Lots           repository.InventoryLotRepository
	PriceBooks     repository.PriceBookRepository
	CostStats      repository.ProductCostStatsRepository
	PurchaseOrders repository.PurchaseOrderRepository
	SalesOrders    repository.SalesOrderRepository
	SalesReturns   repository.SalesReturnRepository
}

// TxRunner ejecuta fn dentro de una transacción atómica después de adquirir todas las claves
// (ordenadas y sin duplicados). Si fn devuelve error no queda ningún cambio visible.
type TxRunner interface {
	Run(ctx context.Context, keys []entity.LockKey, fn func(r Repos) error) error
}
