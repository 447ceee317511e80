// Package memory implementa los repositorios y el TxRunner en memoria.
// Run serializa todas las escrituras con un candado global y trabaja sobre una copia del estado
// que solo reemplaza al original si fn termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/ServiceCenter-api/internal/application/ports"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

// state datos del almacén. Los elementos guardados nunca se modifican en sitio:
// cada escritura guarda una copia nueva, así clone puede ser superficial.
type state struct {
	transactions []*entity.StockTransaction
	lots         []*entity.InventoryLot
	priceBooks   []*entity.PriceBook
	bookItems    []*entity.PriceBookItem
	costStats    map[string]*entity.ProductCostStats
	purchases    map[string]*entity.PurchaseOrder
	purchaseLns  []*entity.PurchaseOrderLine
	sales        map[string]*entity.SalesOrder
	salesLns     []*entity.SalesOrderLine
	returns      map[string]*entity.SalesReturn
	returnLns    []*entity.SalesReturnLine
}

func newState() *state {
	return &state{
		costStats: make(map[string]*entity.ProductCostStats),
		purchases: make(map[string]*entity.PurchaseOrder),
		sales:     make(map[string]*entity.SalesOrder),
		returns:   make(map[string]*entity.SalesReturn),
	}
}

func (s *state) clone() *state {
	return &state{
		transactions: cloneSlice(s.transactions),
		lots:         cloneSlice(s.lots),
		priceBooks:   cloneSlice(s.priceBooks),
		bookItems:    cloneSlice(s.bookItems),
		costStats:    cloneMap(s.costStats),
		purchases:    cloneMap(s.purchases),
		purchaseLns:  cloneSlice(s.purchaseLns),
		sales:        cloneMap(s.sales),
		salesLns:     cloneSlice(s.salesLns),
		returns:      cloneMap(s.returns),
		returnLns:    cloneSlice(s.returnLns),
	}
}

func cloneSlice[T any](in []T) []T {
	return append([]T(nil), in...)
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// access abstrae cómo un repositorio llega al estado: con candado (fuera de tx) o directo (dentro de Run).
type access interface {
	read(fn func(s *state))
	write(fn func(s *state))
}

type lockedAccess struct{ store *Store }

func (a lockedAccess) read(fn func(s *state)) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	fn(a.store.st)
}

func (a lockedAccess) write(fn func(s *state)) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	fn(a.store.st)
}

// txAccess estado de trabajo de una transacción; Run ya tiene el candado de escritura.
type txAccess struct{ st *state }

func (a txAccess) read(fn func(s *state))  { fn(a.st) }
func (a txAccess) write(fn func(s *state)) { fn(a.st) }

// Store almacén en memoria con semántica transaccional.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn contra una copia del estado y la confirma solo si fn no falla.
// El candado global cubre cualquier conjunto de claves.
func (s *Store) Run(ctx context.Context, _ []entity.LockKey, fn func(r ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(newRepos(txAccess{st: work})); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el candado).
func (s *Store) Repos() ports.Repos {
	return newRepos(lockedAccess{store: s})
}

// PutPriceBook carga una lista de precios con sus ítems tal como vienen (seed / tests).
// El dominio no escribe listas de precios.
func (s *Store) PutPriceBook(book *entity.PriceBook, items ...*entity.PriceBookItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.priceBooks = append(s.st.priceBooks, copyOf(book))
	for _, it := range items {
		c := copyOf(it)
		c.PriceBookID = book.ID
		s.st.bookItems = append(s.st.bookItems, c)
	}
}

func newRepos(a access) ports.Repos {
	return ports.Repos{
		Transactions:   &StockTransactionRepo{a: a},
		Lots:           &InventoryLotRepo{a: a},
		PriceBooks:     &PriceBookRepo{a: a},
		CostStats:      &CostStatsRepo{a: a},
		PurchaseOrders: &PurchaseOrderRepo{a: a},
		SalesOrders:    &SalesOrderRepo{a: a},
		SalesReturns:   &SalesReturnRepo{a: a},
	}
}
