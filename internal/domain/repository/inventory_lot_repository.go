package repository

import (
	"context"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// InventoryLotRepository puerto de persistencia de lotes. Los lotes nunca se eliminan.
type InventoryLotRepository interface {
	Create(ctx context.Context, lot *entity.InventoryLot) error
	GetByID(ctx context.Context, id string) (*entity.InventoryLot, error)
	// ListByBranchProduct ordena por received_at ascendente y, en empate, por orden de creación.
	ListByBranchProduct(ctx context.Context, branchID, productID string) ([]*entity.InventoryLot, error)
}
