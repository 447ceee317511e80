package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnsupportedPolicy = errors.New("política de precio no soportada")
	ErrInvalidState      = errors.New("estado de datos inválido")
)

// InsufficientStockError detalla una asignación FIFO que no pudo cubrirse.
// errors.Is(err, ErrInsufficientStock) sigue funcionando vía Unwrap.
type InsufficientStockError struct {
	BranchID  string
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s en sucursal %s (solicitado %d, disponible %d)",
		ErrInsufficientStock.Error(), e.ProductID, e.BranchID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Invalid envuelve ErrInvalidInput con el detalle del campo rechazado.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
