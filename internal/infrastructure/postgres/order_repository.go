package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.SalesOrderRepository    = (*SalesOrderRepo)(nil)
	_ repository.SalesReturnRepository   = (*SalesReturnRepo)(nil)
)

// mustAffect traduce un UPDATE sin filas en ErrNotFound.
func mustAffect(rows int64, table, id string) error {
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, table, id)
	}
	return nil
}

func insertError(err error, what, id string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s %s ya existe", domain.ErrConflict, what, id)
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: referencia inexistente en %s %s", domain.ErrNotFound, what, id)
	}
	return fmt.Errorf("insert %s: %w", what, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders (id, code, branch_id, supplier_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, o.ID, o.Code, o.BranchID, o.SupplierID, o.Status, o.CreatedAt, o.UpdatedAt); err != nil {
		return insertError(err, "orden de compra", o.ID)
	}
	return nil
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_orders SET status = $2, updated_at = $3 WHERE id = $1`,
		o.ID, o.Status, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return mustAffect(tag.RowsAffected(), "orden de compra", o.ID)
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT id, code, branch_id, supplier_id, status, created_at, updated_at FROM purchase_orders WHERE id = $1`
	var o entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Code, &o.BranchID, &o.SupplierID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &o, nil
}

func (r *PurchaseOrderRepo) CreateLine(ctx context.Context, l *entity.PurchaseOrderLine) error {
	query := `INSERT INTO purchase_order_lines (id, order_id, product_id, quantity_ordered, quantity_received, unit_cost, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, l.ID, l.OrderID, l.ProductID, l.QuantityOrdered, l.QuantityReceived, l.UnitCost, l.ExpiryDate); err != nil {
		return insertError(err, "línea de compra", l.ID)
	}
	return nil
}

func (r *PurchaseOrderRepo) UpdateLine(ctx context.Context, l *entity.PurchaseOrderLine) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_order_lines SET quantity_received = $2 WHERE id = $1`, l.ID, l.QuantityReceived)
	if err != nil {
		return fmt.Errorf("update purchase order line: %w", err)
	}
	return mustAffect(tag.RowsAffected(), "línea de compra", l.ID)
}

func (r *PurchaseOrderRepo) ListLines(ctx context.Context, orderID string) ([]*entity.PurchaseOrderLine, error) {
	query := `SELECT id, order_id, product_id, quantity_ordered, quantity_received, unit_cost, expiry_date
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.QuantityOrdered, &l.QuantityReceived, &l.UnitCost, &l.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de venta
// ──────────────────────────────────────────────────────────────────────────────

// SalesOrderRepo órdenes de venta sobre PostgreSQL (usable con pool o tx).
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	query := `INSERT INTO sales_orders (id, code, branch_id, customer_id, price_book_id, status, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, o.ID, o.Code, o.BranchID, o.CustomerID, nullIfEmpty(o.PriceBookID),
		o.Status, o.OrderDate, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return insertError(err, "orden de venta", o.ID)
	}
	return nil
}

func (r *SalesOrderRepo) Update(ctx context.Context, o *entity.SalesOrder) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales_orders SET status = $2, updated_at = $3 WHERE id = $1`,
		o.ID, o.Status, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sales order: %w", err)
	}
	return mustAffect(tag.RowsAffected(), "orden de venta", o.ID)
}

func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	query := `SELECT id, code, branch_id, customer_id, price_book_id, status, order_date, created_at, updated_at
		FROM sales_orders WHERE id = $1`
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Code, &o.BranchID, &o.CustomerID, &o.PriceBookID,
		&o.Status, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	return &o, nil
}

func (r *SalesOrderRepo) CreateLine(ctx context.Context, l *entity.SalesOrderLine) error {
	query := `INSERT INTO sales_order_lines (id, order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, l.ID, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice); err != nil {
		return insertError(err, "línea de venta", l.ID)
	}
	return nil
}

func (r *SalesOrderRepo) UpdateLine(ctx context.Context, l *entity.SalesOrderLine) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales_order_lines SET unit_price = $2 WHERE id = $1`, l.ID, l.UnitPrice)
	if err != nil {
		return fmt.Errorf("update sales order line: %w", err)
	}
	return mustAffect(tag.RowsAffected(), "línea de venta", l.ID)
}

func (r *SalesOrderRepo) ListLines(ctx context.Context, orderID string) ([]*entity.SalesOrderLine, error) {
	query := `SELECT id, order_id, product_id, quantity, unit_price FROM sales_order_lines WHERE order_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sales order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrderLine
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

// SalesReturnRepo devoluciones sobre PostgreSQL (usable con pool o tx).
type SalesReturnRepo struct {
	q Querier
}

// NewSalesReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesReturnRepository(q Querier) *SalesReturnRepo {
	return &SalesReturnRepo{q: q}
}

func (r *SalesReturnRepo) Create(ctx context.Context, ret *entity.SalesReturn) error {
	query := `INSERT INTO sales_returns (id, sales_order_id, branch_id, reason, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, ret.ID, ret.SalesOrderID, ret.BranchID, ret.Reason, ret.CreatedAt); err != nil {
		return insertError(err, "devolución", ret.ID)
	}
	return nil
}

func (r *SalesReturnRepo) CreateLine(ctx context.Context, l *entity.SalesReturnLine) error {
	query := `INSERT INTO sales_return_lines (id, return_id, product_id, lot_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, l.ID, l.ReturnID, l.ProductID, nullIfEmpty(l.LotID), l.Quantity, l.UnitCost); err != nil {
		return insertError(err, "línea de devolución", l.ID)
	}
	return nil
}

func (r *SalesReturnRepo) GetByID(ctx context.Context, id string) (*entity.SalesReturn, error) {
	query := `SELECT id, sales_order_id, branch_id, reason, created_at FROM sales_returns WHERE id = $1`
	var ret entity.SalesReturn
	err := r.q.QueryRow(ctx, query, id).Scan(&ret.ID, &ret.SalesOrderID, &ret.BranchID, &ret.Reason, &ret.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales return: %w", err)
	}
	return &ret, nil
}

func (r *SalesReturnRepo) ListLines(ctx context.Context, returnID string) ([]*entity.SalesReturnLine, error) {
	query := `SELECT id, return_id, product_id, lot_id, quantity, unit_cost FROM sales_return_lines WHERE return_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, returnID)
	if err != nil {
		return nil, fmt.Errorf("list sales return lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesReturnLine
	for rows.Next() {
		var l entity.SalesReturnLine
		if err := rows.Scan(&l.ID, &l.ReturnID, &l.ProductID, &l.LotID, &l.Quantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sales return line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
