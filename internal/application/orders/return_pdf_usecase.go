package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain"
)

// ReturnNoteGenerator puerto de salida para la nota de devolución en PDF.
type ReturnNoteGenerator interface {
	GenerateReturnNote(ctx context.Context, ret *SalesReturnDetail, orderCode string) ([]byte, error)
}

// SalesReturnPDFUseCase genera la nota de devolución de una SalesReturn.
type SalesReturnPDFUseCase struct {
	txRunner  ports.TxRunner
	generator ReturnNoteGenerator
}

// NewSalesReturnPDFUseCase construye el caso de uso.
func NewSalesReturnPDFUseCase(txRunner ports.TxRunner, generator ReturnNoteGenerator) *SalesReturnPDFUseCase {
	return &SalesReturnPDFUseCase{txRunner: txRunner, generator: generator}
}

// Download carga la devolución, su orden y sus líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la devolución no existe.
func (uc *SalesReturnPDFUseCase) Download(ctx context.Context, returnID string) (pdfBytes []byte, filename string, err error) {
	var detail *SalesReturnDetail
	err = uc.txRunner.Run(ctx, nil, func(r ports.Repos) error {
		ret, err := r.SalesReturns.GetByID(ctx, returnID)
		if err != nil {
			return fmt.Errorf("pdf: obtener devolución: %w", err)
		}
		if ret == nil {
			return fmt.Errorf("%w: devolución %s", domain.ErrNotFound, returnID)
		}
		order, err := r.SalesOrders.GetByID(ctx, ret.SalesOrderID)
		if err != nil {
			return fmt.Errorf("pdf: obtener orden: %w", err)
		}
		if order == nil {
			return fmt.Errorf("%w: la orden %s de la devolución %s no existe", domain.ErrInvalidState, ret.SalesOrderID, returnID)
		}
		lines, err := r.SalesReturns.ListLines(ctx, returnID)
		if err != nil {
			return fmt.Errorf("pdf: obtener líneas: %w", err)
		}
		detail = &SalesReturnDetail{Return: ret, Lines: lines, Order: order}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.GenerateReturnNote(ctx, detail, detail.Order.Code)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("devolucion_%s.pdf", detail.Order.Code), nil
}
