package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ServiceCenter-api/internal/domain"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
	dompricing "github.com/jhoicas/ServiceCenter-api/internal/domain/pricing"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/repository"
	"github.com/jhoicas/ServiceCenter-api/pkg/logger"
)

// FallbackUnitPrice precio que se devuelve cuando un producto no tiene ítem en la lista.
// Pendiente de confirmar con producto; se registra en log cada vez que se usa.
var FallbackUnitPrice = decimal.NewFromInt(1)

// Resolver resuelve listas de precios y precios unitarios. No guarda estado entre llamadas:
// la fecha de referencia siempre llega explícita.
type Resolver struct {
	books repository.PriceBookRepository
	stats repository.ProductCostStatsRepository
	log   *logger.Logger
}

// NewResolver construye el resolvedor (repositorios del pool o de una transacción).
func NewResolver(books repository.PriceBookRepository, stats repository.ProductCostStatsRepository, log *logger.Logger) *Resolver {
	return &Resolver{books: books, stats: stats, log: log}
}

// ResolveActivePriceBook devuelve la lista vigente en asOf para la sucursal (o global). nil si no hay.
func (r *Resolver) ResolveActivePriceBook(ctx context.Context, branchID *string, asOf time.Time) (*entity.PriceBook, error) {
	books, err := r.books.ListActiveInRange(ctx, branchID, asOf, nil)
	if err != nil {
		return nil, fmt.Errorf("list price books: %w", err)
	}
	return dompricing.SelectActiveBook(books, branchID, asOf), nil
}

// bookFor lista explícita (debe existir) o la vigente por sucursal y fecha.
func (r *Resolver) bookFor(ctx context.Context, branchID, priceBookID *string, asOf time.Time) (*entity.PriceBook, error) {
	if priceBookID != nil && *priceBookID != "" {
		book, err := r.books.GetByID(ctx, *priceBookID)
		if err != nil {
			return nil, fmt.Errorf("get price book: %w", err)
		}
		if book == nil {
			return nil, fmt.Errorf("%w: lista de precios %s", domain.ErrNotFound, *priceBookID)
		}
		return book, nil
	}
	return r.ResolveActivePriceBook(ctx, branchID, asOf)
}

// UnitPriceQuery consulta de precio de un producto.
type UnitPriceQuery struct {
	ProductID   string
	BranchID    *string
	PriceBookID *string
	AsOf        time.Time
}

// ResolveUnitPrice precio unitario de un producto. Sin lista o sin ítem devuelve FallbackUnitPrice.
func (r *Resolver) ResolveUnitPrice(ctx context.Context, q UnitPriceQuery) (decimal.Decimal, error) {
	if q.ProductID == "" {
		return decimal.Zero, domain.Invalid("product_id requerido")
	}
	book, err := r.bookFor(ctx, q.BranchID, q.PriceBookID, q.AsOf)
	if err != nil {
		return decimal.Zero, err
	}
	var item *entity.PriceBookItem
	if book != nil {
		item, err = r.books.FindItemForProduct(ctx, book.ID, q.ProductID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("find price book item: %w", err)
		}
	}
	if item == nil {
		ev := r.log.Warn().Str("product_id", q.ProductID).Str("fallback", FallbackUnitPrice.String())
		if book != nil {
			ev = ev.Str("price_book_id", book.ID)
		}
		ev.Msg("producto sin ítem en lista de precios, se usa precio por defecto")
		return FallbackUnitPrice, nil
	}

	var peak *entity.ProductCostStats
	if item.PolicyType == entity.PolicyMarkupOnPeak {
		peak, err = r.stats.FindByProduct(ctx, q.ProductID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("find cost stats: %w", err)
		}
	}
	return dompricing.ProductPrice(item, peak)
}

// ServicePriceQuery consulta de precio de un servicio.
type ServicePriceQuery struct {
	ServiceID   string
	BranchID    *string
	PriceBookID *string
	AsOf        time.Time
}

// ResolveServicePrice precio de un servicio. A diferencia de los productos no hay precio por defecto.
func (r *Resolver) ResolveServicePrice(ctx context.Context, q ServicePriceQuery) (decimal.Decimal, error) {
	if q.ServiceID == "" {
		return decimal.Zero, domain.Invalid("service_id requerido")
	}
	book, err := r.bookFor(ctx, q.BranchID, q.PriceBookID, q.AsOf)
	if err != nil {
		return decimal.Zero, err
	}
	if book == nil {
		return decimal.Zero, fmt.Errorf("%w: no hay lista de precios vigente", domain.ErrNotFound)
	}
	item, err := r.books.FindItemForService(ctx, book.ID, q.ServiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("find price book item: %w", err)
	}
	if item == nil {
		return decimal.Zero, fmt.Errorf("%w: servicio %s en lista %s", domain.ErrNotFound, q.ServiceID, book.ID)
	}
	return dompricing.ServicePrice(item)
}

// BookingItem línea a cotizar: exactamente uno de ProductID / ServiceID.
type BookingItem struct {
	ProductID string
	ServiceID string
	Quantity  int64
	UnitPrice *decimal.Decimal // precio explícito; gana sobre la lista
}

// BookingPriceRequest cotización de un conjunto de ítems.
type BookingPriceRequest struct {
	BranchID    *string
	PriceBookID *string
	AsOf        time.Time
	Items       []BookingItem
}

// BookingLine línea cotizada.
type BookingLine struct {
	ProductID string
	ServiceID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// BookingTotal resultado de la cotización.
type BookingTotal struct {
	Lines []BookingLine
	Total decimal.Decimal
}

// PriceComputationError identifica el ítem que impidió calcular el total.
type PriceComputationError struct {
	Index  int
	ItemID string
	Err    error
}

func (e *PriceComputationError) Error() string {
	return fmt.Sprintf("cálculo de precio del ítem %d (%s): %v", e.Index, e.ItemID, e.Err)
}

func (e *PriceComputationError) Unwrap() error { return e.Err }

// CalculateBookingTotalPrice suma unitario × cantidad de cada ítem. Cualquier ítem que falle
// aborta el cálculo completo: no hay totales parciales.
func (r *Resolver) CalculateBookingTotalPrice(ctx context.Context, req BookingPriceRequest) (*BookingTotal, error) {
	out := &BookingTotal{Lines: make([]BookingLine, 0, len(req.Items)), Total: decimal.Zero}
	for i, it := range req.Items {
		id := it.ProductID
		if id == "" {
			id = it.ServiceID
		}
		price, err := r.itemPrice(ctx, req, it)
		if err != nil {
			return nil, &PriceComputationError{Index: i, ItemID: id, Err: err}
		}
		total := price.Mul(decimal.NewFromInt(it.Quantity))
		out.Lines = append(out.Lines, BookingLine{
			ProductID: it.ProductID,
			ServiceID: it.ServiceID,
			Quantity:  it.Quantity,
			UnitPrice: price,
			Total:     total,
		})
		out.Total = out.Total.Add(total)
	}
	return out, nil
}

func (r *Resolver) itemPrice(ctx context.Context, req BookingPriceRequest, it BookingItem) (decimal.Decimal, error) {
	if (it.ProductID == "") == (it.ServiceID == "") {
		return decimal.Zero, domain.Invalid("el ítem debe tener exactamente uno de product_id o service_id")
	}
	if it.Quantity <= 0 {
		return decimal.Zero, domain.Invalid("cantidad debe ser positiva (recibido %d)", it.Quantity)
	}
	if it.UnitPrice != nil {
		if it.UnitPrice.IsNegative() {
			return decimal.Zero, domain.Invalid("precio unitario negativo")
		}
		return *it.UnitPrice, nil
	}
	if it.ProductID != "" {
		return r.ResolveUnitPrice(ctx, UnitPriceQuery{
			ProductID: it.ProductID, BranchID: req.BranchID, PriceBookID: req.PriceBookID, AsOf: req.AsOf,
		})
	}
	return r.ResolveServicePrice(ctx, ServicePriceQuery{
		ServiceID: it.ServiceID, BranchID: req.BranchID, PriceBookID: req.PriceBookID, AsOf: req.AsOf,
	})
}

// IsPriceComputationError indica si err proviene de CalculateBookingTotalPrice.
func IsPriceComputationError(err error) bool {
	var pe *PriceComputationError
	return errors.As(err, &pe)
}
