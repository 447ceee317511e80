package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.SalesOrderRepository    = (*SalesOrderRepo)(nil)
	_ repository.SalesReturnRepository   = (*SalesReturnRepo)(nil)
)

func errDuplicate(table, id string) error {
	return fmt.Errorf("%w: %s %s ya existe", domain.ErrConflict, table, id)
}

func errMissing(table, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, table, id)
}

// PurchaseOrderRepo órdenes de compra en memoria.
type PurchaseOrderRepo struct{ a access }

func (r *PurchaseOrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	var err error
	r.a.write(func(s *state) {
		if _, ok := s.purchases[o.ID]; ok {
			err = errDuplicate("purchase_orders", o.ID)
			return
		}
		s.purchases[o.ID] = copyOf(o)
	})
	return err
}

func (r *PurchaseOrderRepo) Update(_ context.Context, o *entity.PurchaseOrder) error {
	var err error
	r.a.write(func(s *state) {
		if _, ok := s.purchases[o.ID]; !ok {
			err = errMissing("purchase_orders", o.ID)
			return
		}
		s.purchases[o.ID] = copyOf(o)
	})
	return err
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	r.a.read(func(s *state) { out = copyOf(s.purchases[id]) })
	return out, nil
}

func (r *PurchaseOrderRepo) CreateLine(_ context.Context, l *entity.PurchaseOrderLine) error {
	r.a.write(func(s *state) { s.purchaseLns = append(s.purchaseLns, copyOf(l)) })
	return nil
}

func (r *PurchaseOrderRepo) UpdateLine(_ context.Context, l *entity.PurchaseOrderLine) error {
	err := errMissing("purchase_order_lines", l.ID)
	r.a.write(func(s *state) {
		for i, cur := range s.purchaseLns {
			if cur.ID == l.ID {
				s.purchaseLns[i] = copyOf(l)
				err = nil
				return
			}
		}
	})
	return err
}

func (r *PurchaseOrderRepo) ListLines(_ context.Context, orderID string) ([]*entity.PurchaseOrderLine, error) {
	var out []*entity.PurchaseOrderLine
	r.a.read(func(s *state) {
		for _, l := range s.purchaseLns {
			if l.OrderID == orderID {
				out = append(out, copyOf(l))
			}
		}
	})
	return out, nil
}

// SalesOrderRepo órdenes de venta en memoria.
type SalesOrderRepo struct{ a access }

func (r *SalesOrderRepo) Create(_ context.Context, o *entity.SalesOrder) error {
	var err error
	r.a.write(func(s *state) {
		if _, ok := s.sales[o.ID]; ok {
			err = errDuplicate("sales_orders", o.ID)
			return
		}
		s.sales[o.ID] = copyOf(o)
	})
	return err
}

func (r *SalesOrderRepo) Update(_ context.Context, o *entity.SalesOrder) error {
	var err error
	r.a.write(func(s *state) {
		if _, ok := s.sales[o.ID]; !ok {
			err = errMissing("sales_orders", o.ID)
			return
		}
		s.sales[o.ID] = copyOf(o)
	})
	return err
}

func (r *SalesOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	r.a.read(func(s *state) { out = copyOf(s.sales[id]) })
	return out, nil
}

func (r *SalesOrderRepo) CreateLine(_ context.Context, l *entity.SalesOrderLine) error {
	r.a.write(func(s *state) { s.salesLns = append(s.salesLns, copyOf(l)) })
	return nil
}

func (r *SalesOrderRepo) UpdateLine(_ context.Context, l *entity.SalesOrderLine) error {
	err := errMissing("sales_order_lines", l.ID)
	r.a.write(func(s *state) {
		for i, cur := range s.salesLns {
			if cur.ID == l.ID {
				s.salesLns[i] = copyOf(l)
				err = nil
				return
			}
		}
	})
	return err
}

func (r *SalesOrderRepo) ListLines(_ context.Context, orderID string) ([]*entity.SalesOrderLine, error) {
	var out []*entity.SalesOrderLine
	r.a.read(func(s *state) {
		for _, l := range s.salesLns {
			if l.OrderID == orderID {
				out = append(out, copyOf(l))
			}
		}
	})
	return out, nil
}

// SalesReturnRepo devoluciones en memoria.
type SalesReturnRepo struct{ a access }

func (r *SalesReturnRepo) Create(_ context.Context, ret *entity.SalesReturn) error {
	var err error
	r.a.write(func(s *state) {
		if _, ok := s.returns[ret.ID]; ok {
			err = errDuplicate("sales_returns", ret.ID)
			return
		}
		s.returns[ret.ID] = copyOf(ret)
	})
	return err
}

func (r *SalesReturnRepo) CreateLine(_ context.Context, l *entity.SalesReturnLine) error {
	r.a.write(func(s *state) { s.returnLns = append(s.returnLns, copyOf(l)) })
	return nil
}

func (r *SalesReturnRepo) GetByID(_ context.Context, id string) (*entity.SalesReturn, error) {
	var out *entity.SalesReturn
	r.a.read(func(s *state) { out = copyOf(s.returns[id]) })
	return out, nil
}

func (r *SalesReturnRepo) ListLines(_ context.Context, returnID string) ([]*entity.SalesReturnLine, error) {
	var out []*entity.SalesReturnLine
	r.a.read(func(s *state) {
		for _, l := range s.returnLns {
			if l.ReturnID == returnID {
				out = append(out, copyOf(l))
			}
		}
	})
	return out, nil
}
