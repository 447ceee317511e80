package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

var (
	_ repository.PriceBookRepository        = (*PriceBookRepo)(nil)
	_ repository.ProductCostStatsRepository = (*CostStatsRepo)(nil)
)

// PriceBookRepo listas de precios en memoria (se cargan con Store.PutPriceBook).
type PriceBookRepo struct{ a access }

func (r *PriceBookRepo) ListActiveInRange(_ context.Context, branchID *string, date time.Time, endDate *time.Time) ([]*entity.PriceBook, error) {
	end := date
	if endDate != nil {
		end = *endDate
	}
	var out []*entity.PriceBook
	r.a.read(func(s *state) {
		for _, b := range s.priceBooks {
			if branchID != nil && !b.IsGlobal() && *b.BranchID != *branchID {
				continue
			}
			// cruce de [ValidFrom, ValidTo) con [date, end]
			if b.ValidFrom.After(end) {
				continue
			}
			if b.ValidTo != nil && !b.ValidTo.After(date) {
				continue
			}
			out = append(out, copyOf(b))
		}
	})
	return out, nil
}

func (r *PriceBookRepo) GetByID(_ context.Context, id string) (*entity.PriceBook, error) {
	var out *entity.PriceBook
	r.a.read(func(s *state) {
		for _, b := range s.priceBooks {
			if b.ID == id {
				out = copyOf(b)
				return
			}
		}
	})
	return out, nil
}

func (r *PriceBookRepo) FindItemForProduct(_ context.Context, priceBookID, productID string) (*entity.PriceBookItem, error) {
	return r.findItem(priceBookID, func(it *entity.PriceBookItem) bool {
		return it.ProductID != nil && *it.ProductID == productID
	}), nil
}

func (r *PriceBookRepo) FindItemForService(_ context.Context, priceBookID, serviceID string) (*entity.PriceBookItem, error) {
	return r.findItem(priceBookID, func(it *entity.PriceBookItem) bool {
		return it.ServiceID != nil && *it.ServiceID == serviceID
	}), nil
}

func (r *PriceBookRepo) findItem(priceBookID string, match func(*entity.PriceBookItem) bool) *entity.PriceBookItem {
	var out *entity.PriceBookItem
	r.a.read(func(s *state) {
		for _, it := range s.bookItems {
			if it.PriceBookID == priceBookID && match(it) {
				out = copyOf(it)
				return
			}
		}
	})
	return out
}

// CostStatsRepo estadísticas de costo en memoria.
type CostStatsRepo struct{ a access }

func (r *CostStatsRepo) FindByProduct(_ context.Context, productID string) (*entity.ProductCostStats, error) {
	var out *entity.ProductCostStats
	r.a.read(func(s *state) { out = copyOf(s.costStats[productID]) })
	return out, nil
}

func (r *CostStatsRepo) Create(_ context.Context, stats *entity.ProductCostStats) error {
	var err error
	r.a.write(func(s *state) {
		if _, ok := s.costStats[stats.ProductID]; ok {
			err = errDuplicate("product_cost_stats", stats.ProductID)
			return
		}
		s.costStats[stats.ProductID] = copyOf(stats)
	})
	return err
}

func (r *CostStatsRepo) Update(_ context.Context, stats *entity.ProductCostStats) error {
	var err error
	r.a.write(func(s *state) {
		if _, ok := s.costStats[stats.ProductID]; !ok {
			err = errMissing("product_cost_stats", stats.ProductID)
			return
		}
		s.costStats[stats.ProductID] = copyOf(stats)
	})
	return err
}
