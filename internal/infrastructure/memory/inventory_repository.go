package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

var (
	_ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)
	_ repository.InventoryLotRepository     = (*InventoryLotRepo)(nil)
)

// StockTransactionRepo libro en memoria (solo inserción).
type StockTransactionRepo struct{ a access }

func (r *StockTransactionRepo) Append(_ context.Context, tx *entity.StockTransaction) error {
	r.a.write(func(s *state) {
		s.transactions = append(s.transactions, copyOf(tx))
	})
	return nil
}

func (r *StockTransactionRepo) ListByLot(_ context.Context, lotID string) ([]*entity.StockTransaction, error) {
	return r.filter(func(t *entity.StockTransaction) bool {
		return t.LotID != nil && *t.LotID == lotID
	}), nil
}

func (r *StockTransactionRepo) ListByBranchProduct(_ context.Context, branchID, productID string) ([]*entity.StockTransaction, error) {
	return r.filter(func(t *entity.StockTransaction) bool {
		return t.BranchID == branchID && t.ProductID == productID
	}), nil
}

// filter conserva el orden de inserción como desempate de created_at.
func (r *StockTransactionRepo) filter(keep func(*entity.StockTransaction) bool) []*entity.StockTransaction {
	var out []*entity.StockTransaction
	r.a.read(func(s *state) {
		for _, t := range s.transactions {
			if keep(t) {
				out = append(out, copyOf(t))
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// InventoryLotRepo lotes en memoria.
type InventoryLotRepo struct{ a access }

func (r *InventoryLotRepo) Create(_ context.Context, lot *entity.InventoryLot) error {
	r.a.write(func(s *state) {
		s.lots = append(s.lots, copyOf(lot))
	})
	return nil
}

func (r *InventoryLotRepo) GetByID(_ context.Context, id string) (*entity.InventoryLot, error) {
	var out *entity.InventoryLot
	r.a.read(func(s *state) {
		for _, l := range s.lots {
			if l.ID == id {
				out = copyOf(l)
				return
			}
		}
	})
	return out, nil
}

func (r *InventoryLotRepo) ListByBranchProduct(_ context.Context, branchID, productID string) ([]*entity.InventoryLot, error) {
	var out []*entity.InventoryLot
	r.a.read(func(s *state) {
		for _, l := range s.lots {
			if l.BranchID == branchID && l.ProductID == productID {
				out = append(out, copyOf(l))
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}
