package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	dominv "github.com/jhoicas/ServiceCenter-api/internal/domain/inventory"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

// StockUseCase consultas de stock y operaciones directas sobre lotes fuera de una orden.
type StockUseCase struct {
	txRunner  ports.TxRunner
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner ports.TxRunner, publisher ports.EventPublisher, log *logger.Logger, now func() time.Time) *StockUseCase {
	if now == nil {
		now = time.Now
	}
	return &StockUseCase{txRunner: txRunner, publisher: publisher, log: log, now: now}
}

// Summary proyecta todos los lotes de un producto en una sucursal y agrega los totales.
func (uc *StockUseCase) Summary(ctx context.Context, branchID, productID string) (*dominv.StockSummary, error) {
	if branchID == "" || productID == "" {
		return nil, domain.Invalid("branch_id y product_id requeridos")
	}
	var summary dominv.StockSummary
	err := uc.txRunner.Run(ctx, nil, func(r ports.Repos) error {
		lots, err := r.Lots.ListByBranchProduct(ctx, branchID, productID)
		if err != nil {
			return err
		}
		dominv.SortFIFO(lots)
		txs, err := NewLedger(r.Transactions, uc.now).TransactionsForBranchProduct(ctx, branchID, productID)
		if err != nil {
			return err
		}
		byLot, unassigned := dominv.GroupByLot(txs)
		summary = dominv.Summarize(branchID, productID, dominv.ProjectLots(lots, byLot, uc.now()), unassigned)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// AdjustInput ajuste manual sobre un lote (conteo físico, merma).
type AdjustInput struct {
	BranchID  string
	ProductID string
	LotID     string
	Quantity  int64
	Reason    string
}

// Adjust agrega una fila ADJUSTMENT bajo la clave de stock del producto.
func (uc *StockUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.StockTransaction, error) {
	if in.BranchID == "" || in.ProductID == "" {
		return nil, domain.Invalid("branch_id y product_id requeridos")
	}
	var out *entity.StockTransaction
	keys := []entity.LockKey{entity.StockLockKey(in.BranchID, in.ProductID)}
	err := uc.txRunner.Run(ctx, keys, func(r ports.Repos) error {
		lot, err := r.Lots.GetByID(ctx, in.LotID)
		if err != nil {
			return err
		}
		if lot != nil && (lot.BranchID != in.BranchID || lot.ProductID != in.ProductID) {
			return domain.Invalid("lote %s no pertenece a producto %s en sucursal %s", in.LotID, in.ProductID, in.BranchID)
		}
		tx, err := NewAllocator(r, uc.now).Adjust(ctx, AdjustRequest{
			LotID:    in.LotID,
			Quantity: in.Quantity,
			RefType:  entity.RefManual,
			RefID:    uuid.New().String(),
		})
		if err != nil {
			return err
		}
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("lot_id", in.LotID).
		Int64("quantity", in.Quantity).
		Str("reason", in.Reason).
		Msg("ajuste de inventario registrado")
	if err := uc.publisher.Publish(ctx, ports.InventoryEvent{
		Type:         ports.EventStockAdjusted,
		RefType:      out.RefType,
		RefID:        out.RefID,
		BranchID:     out.BranchID,
		Transactions: []*entity.StockTransaction{out},
		OccurredAt:   uc.now(),
	}); err != nil {
		uc.log.Warn().Err(err).Str("ref_id", out.RefID).Msg("publicar evento de ajuste")
	}
	return out, nil
}
