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

var _ repository.InventoryLotRepository = (*InventoryLotRepo)(nil)

// InventoryLotRepo lotes sobre PostgreSQL (usable con pool o tx).
type InventoryLotRepo struct {
	q Querier
}

// NewInventoryLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLotRepository(q Querier) *InventoryLotRepo {
	return &InventoryLotRepo{q: q}
}

const lotColumns = `id, lot_code, product_id, branch_id, supplier_id, received_at, expiry_date, unit_cost, created_at`

// Create persiste un lote nuevo.
func (r *InventoryLotRepo) Create(ctx context.Context, lot *entity.InventoryLot) error {
	query := `INSERT INTO inventory_lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.LotCode, lot.ProductID, lot.BranchID, nullIfEmpty(lot.SupplierID),
		lot.ReceivedAt, lot.ExpiryDate, lot.UnitCost, lot.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lote %s ya existe", domain.ErrConflict, lot.LotCode)
		}
		return fmt.Errorf("insert inventory lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; nil si no existe.
func (r *InventoryLotRepo) GetByID(ctx context.Context, id string) (*entity.InventoryLot, error) {
	query := `SELECT ` + lotColumns + ` FROM inventory_lots WHERE id = $1`
	var l entity.InventoryLot
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.LotCode, &l.ProductID, &l.BranchID, &l.SupplierID,
		&l.ReceivedAt, &l.ExpiryDate, &l.UnitCost, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory lot: %w", err)
	}
	return &l, nil
}

// ListByBranchProduct lotes en orden FIFO (received_at y luego orden de creación).
func (r *InventoryLotRepo) ListByBranchProduct(ctx context.Context, branchID, productID string) ([]*entity.InventoryLot, error) {
	query := `SELECT ` + lotColumns + `
		FROM inventory_lots WHERE branch_id = $1 AND product_id = $2
		ORDER BY received_at, seq`
	rows, err := r.q.Query(ctx, query, branchID, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLot
	for rows.Next() {
		var l entity.InventoryLot
		if err := rows.Scan(&l.ID, &l.LotCode, &l.ProductID, &l.BranchID, &l.SupplierID,
			&l.ReceivedAt, &l.ExpiryDate, &l.UnitCost, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
