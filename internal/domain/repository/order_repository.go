package repository

import (
	"context"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia de órdenes de compra y sus líneas.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	CreateLine(ctx context.Context, line *entity.PurchaseOrderLine) error
	UpdateLine(ctx context.Context, line *entity.PurchaseOrderLine) error
	ListLines(ctx context.Context, orderID string) ([]*entity.PurchaseOrderLine, error)
}

// SalesOrderRepository puerto de persistencia de órdenes de venta y sus líneas.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	Update(ctx context.Context, order *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	CreateLine(ctx context.Context, line *entity.SalesOrderLine) error
	UpdateLine(ctx context.Context, line *entity.SalesOrderLine) error
	ListLines(ctx context.Context, orderID string) ([]*entity.SalesOrderLine, error)
}

// SalesReturnRepository puerto de persistencia de devoluciones.
type SalesReturnRepository interface {
	Create(ctx context.Context, ret *entity.SalesReturn) error
	CreateLine(ctx context.Context, line *entity.SalesReturnLine) error
	GetByID(ctx context.Context, id string) (*entity.SalesReturn, error)
	ListLines(ctx context.Context, returnID string) ([]*entity.SalesReturnLine, error)
}
