package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// PriceBookRepository puerto de lectura de listas de precios.
type PriceBookRepository interface {
	// ListActiveInRange devuelve las listas cuya vigencia se cruza con [date, endDate].
	// branchID nil = todas; si se informa, incluye las de la sucursal y las globales.
	ListActiveInRange(ctx context.Context, branchID *string, date time.Time, endDate *time.Time) ([]*entity.PriceBook, error)
	GetByID(ctx context.Context, id string) (*entity.PriceBook, error)
	FindItemForProduct(ctx context.Context, priceBookID, productID string) (*entity.PriceBookItem, error)
	FindItemForService(ctx context.Context, priceBookID, serviceID string) (*entity.PriceBookItem, error)
}

// ProductCostStatsRepository puerto de las estadísticas de costo (precio pico de compra).
type ProductCostStatsRepository interface {
	FindByProduct(ctx context.Context, productID string) (*entity.ProductCostStats, error)
	Create(ctx context.Context, stats *entity.ProductCostStats) error
	Update(ctx context.Context, stats *entity.ProductCostStats) error
}
