package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
)

// Ledger libro de stock de solo inserción. Solo valida campos obligatorios:
// el signo y que el resultado no quede negativo es responsabilidad del llamador.
type Ledger struct {
	txs      repository.StockTransactionRepository
	now      func() time.Time
	appended []*entity.StockTransaction
}

// NewLedger construye el libro sobre el repositorio dado (pool o tx).
func NewLedger(txs repository.StockTransactionRepository, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{txs: txs, now: now}
}

// AppendInput datos de una fila del libro.
type AppendInput struct {
	BranchID  string
	ProductID string
	LotID     *string
	Type      entity.StockTransactionType
	Quantity  int64
	UnitCost  *decimal.Decimal
	RefType   string
	RefID     string
}

// Append agrega una fila inmutable y devuelve su ID.
func (l *Ledger) Append(ctx context.Context, in AppendInput) (*entity.StockTransaction, error) {
	switch {
	case in.BranchID == "":
		return nil, domain.Invalid("branch_id requerido")
	case in.ProductID == "":
		return nil, domain.Invalid("product_id requerido")
	case !in.Type.IsValid():
		return nil, domain.Invalid("tipo de transacción desconocido %q", in.Type)
	case in.Quantity == 0:
		return nil, domain.Invalid("cantidad no puede ser cero")
	case in.RefType == "" || in.RefID == "":
		return nil, domain.Invalid("referencia requerida")
	}

	tx := &entity.StockTransaction{
		ID:        uuid.New().String(),
		BranchID:  in.BranchID,
		ProductID: in.ProductID,
		LotID:     in.LotID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		RefType:   in.RefType,
		RefID:     in.RefID,
		CreatedAt: l.now(),
	}
	if err := l.txs.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("append stock transaction: %w", err)
	}
	l.appended = append(l.appended, tx)
	return tx, nil
}

// Appended filas agregadas por esta instancia, en orden (para publicar eventos después del commit).
func (l *Ledger) Appended() []*entity.StockTransaction {
	return l.appended
}

// TransactionsForLot filas del lote en orden de creación ascendente.
func (l *Ledger) TransactionsForLot(ctx context.Context, lotID string) ([]*entity.StockTransaction, error) {
	return l.txs.ListByLot(ctx, lotID)
}

// TransactionsForBranchProduct filas del producto en la sucursal en orden de creación ascendente.
func (l *Ledger) TransactionsForBranchProduct(ctx context.Context, branchID, productID string) ([]*entity.StockTransaction, error) {
	return l.txs.ListByBranchProduct(ctx, branchID, productID)
}
