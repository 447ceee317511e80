package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

var (
	_ repository.PriceBookRepository        = (*PriceBookRepo)(nil)
	_ repository.ProductCostStatsRepository = (*ProductCostStatsRepo)(nil)
)

// PriceBookRepo listas de precios sobre PostgreSQL (solo lectura; se cargan con seed_pricebooks).
type PriceBookRepo struct {
	q Querier
}

// NewPriceBookRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceBookRepository(q Querier) *PriceBookRepo {
	return &PriceBookRepo{q: q}
}

const priceBookColumns = `id, code, branch_id, valid_from, valid_to, created_at`

// ListActiveInRange listas cuya vigencia [valid_from, valid_to) se cruza con [date, endDate].
// endDate nil = solo el instante date.
func (r *PriceBookRepo) ListActiveInRange(ctx context.Context, branchID *string, date time.Time, endDate *time.Time) ([]*entity.PriceBook, error) {
	end := date
	if endDate != nil {
		end = *endDate
	}
	query := `SELECT ` + priceBookColumns + `
		FROM price_books
		WHERE valid_from <= $1 AND (valid_to IS NULL OR valid_to > $2)`
	args := []any{end, date}
	if branchID != nil {
		query += ` AND (branch_id IS NULL OR branch_id = $3)`
		args = append(args, *branchID)
	}
	query += ` ORDER BY valid_from DESC, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active price books: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceBook
	for rows.Next() {
		var b entity.PriceBook
		if err := rows.Scan(&b.ID, &b.Code, &b.BranchID, &b.ValidFrom, &b.ValidTo, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price book: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// GetByID obtiene una lista por ID; nil si no existe.
func (r *PriceBookRepo) GetByID(ctx context.Context, id string) (*entity.PriceBook, error) {
	query := `SELECT ` + priceBookColumns + ` FROM price_books WHERE id = $1`
	var b entity.PriceBook
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.Code, &b.BranchID, &b.ValidFrom, &b.ValidTo, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price book: %w", err)
	}
	return &b, nil
}

// FindItemForProduct ítem de un producto en la lista; nil si no está.
func (r *PriceBookRepo) FindItemForProduct(ctx context.Context, priceBookID, productID string) (*entity.PriceBookItem, error) {
	return r.findItem(ctx, `product_id`, priceBookID, productID)
}

// FindItemForService ítem de un servicio en la lista; nil si no está.
func (r *PriceBookRepo) FindItemForService(ctx context.Context, priceBookID, serviceID string) (*entity.PriceBookItem, error) {
	return r.findItem(ctx, `service_id`, priceBookID, serviceID)
}

func (r *PriceBookRepo) findItem(ctx context.Context, column, priceBookID, id string) (*entity.PriceBookItem, error) {
	query := `SELECT id, price_book_id, product_id, service_id, policy_type, fixed_price, markup_percent
		FROM price_book_items WHERE price_book_id = $1 AND ` + column + ` = $2
		ORDER BY id LIMIT 1`
	var it entity.PriceBookItem
	err := r.q.QueryRow(ctx, query, priceBookID, id).Scan(
		&it.ID, &it.PriceBookID, &it.ProductID, &it.ServiceID, &it.PolicyType, &it.FixedPrice, &it.MarkupPercent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price book item: %w", err)
	}
	return &it, nil
}

// ProductCostStatsRepo precio pico de compra por producto.
type ProductCostStatsRepo struct {
	q Querier
}

// NewProductCostStatsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductCostStatsRepository(q Querier) *ProductCostStatsRepo {
	return &ProductCostStatsRepo{q: q}
}

// FindByProduct nil si el producto nunca se ha comprado.
func (r *ProductCostStatsRepo) FindByProduct(ctx context.Context, productID string) (*entity.ProductCostStats, error) {
	query := `SELECT product_id, peak_purchase_price, updated_at FROM product_cost_stats WHERE product_id = $1`
	var s entity.ProductCostStats
	err := r.q.QueryRow(ctx, query, productID).Scan(&s.ProductID, &s.PeakPurchasePrice, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cost stats: %w", err)
	}
	return &s, nil
}

func (r *ProductCostStatsRepo) Create(ctx context.Context, s *entity.ProductCostStats) error {
	query := `INSERT INTO product_cost_stats (product_id, peak_purchase_price, updated_at) VALUES ($1, $2, $3)`
	if _, err := r.q.Exec(ctx, query, s.ProductID, s.PeakPurchasePrice, s.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: estadísticas de costo de %s ya existen", domain.ErrConflict, s.ProductID)
		}
		return fmt.Errorf("insert cost stats: %w", err)
	}
	return nil
}

// Update el WHERE impide bajar el pico aunque el llamador se equivoque.
func (r *ProductCostStatsRepo) Update(ctx context.Context, s *entity.ProductCostStats) error {
	query := `UPDATE product_cost_stats SET peak_purchase_price = $2, updated_at = $3
		WHERE product_id = $1 AND peak_purchase_price <= $2`
	tag, err := r.q.Exec(ctx, query, s.ProductID, s.PeakPurchasePrice, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update cost stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: estadísticas de costo de %s", domain.ErrNotFound, s.ProductID)
	}
	return nil
}
