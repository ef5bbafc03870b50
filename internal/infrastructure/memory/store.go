// Package memory implementa los puertos de persistencia en memoria. Sirve para desarrollo
// (STORAGE_DRIVER=memory) y como doble de prueba de los casos de uso y handlers.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

var _ stock.TxRunner = (*Store)(nil)

// state contiene todas las tablas. Se guardan valores, no punteros, para que clone
// produzca una copia independiente.
type state struct {
	locations   map[string]entity.StockLocation
	supplyItems map[string]entity.SupplyItem
	batches     map[string]entity.SupplyBatch
	items       map[string]entity.StockItem
	movements   map[string]entity.StockMovement
	revisions   []entity.StockMovementRevision
	thresholds  map[string]entity.StockThreshold
	seq         map[string]int64 // orden de inserción, desempata listados
	next        int64
}

func newState() *state {
	return &state{
		locations:   make(map[string]entity.StockLocation),
		supplyItems: make(map[string]entity.SupplyItem),
		batches:     make(map[string]entity.SupplyBatch),
		items:       make(map[string]entity.StockItem),
		movements:   make(map[string]entity.StockMovement),
		thresholds:  make(map[string]entity.StockThreshold),
		seq:         make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := &state{
		locations:   make(map[string]entity.StockLocation, len(s.locations)),
		supplyItems: make(map[string]entity.SupplyItem, len(s.supplyItems)),
		batches:     make(map[string]entity.SupplyBatch, len(s.batches)),
		items:       make(map[string]entity.StockItem, len(s.items)),
		movements:   make(map[string]entity.StockMovement, len(s.movements)),
		revisions:   make([]entity.StockMovementRevision, len(s.revisions)),
		thresholds:  make(map[string]entity.StockThreshold, len(s.thresholds)),
		seq:         make(map[string]int64, len(s.seq)),
		next:        s.next,
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.supplyItems {
		c.supplyItems[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	copy(c.revisions, s.revisions)
	for k, v := range s.thresholds {
		c.thresholds[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

func (s *state) stamp(id string) {
	s.next++
	s.seq[id] = s.next
}

// accessor da acceso al estado: con el mutex (fuera de tx) o directo (dentro de Run).
type accessor interface {
	do(fn func(st *state) error) error
}

type lockedAccess struct{ s *Store }

func (a lockedAccess) do(fn func(st *state) error) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.st)
}

type txAccess struct{ st *state }

func (a txAccess) do(fn func(st *state) error) error { return fn(a.st) }

// Store base de datos en memoria. Las transacciones se serializan con un mutex global:
// equivalente a bloquear todas las filas que toca la transacción.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos repositorios fuera de transacción (cada llamada toma el mutex).
// No usarlos dentro de Run: Run ya tiene el mutex.
func (s *Store) Repos() stock.Repos {
	return reposFor(lockedAccess{s: s})
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(r stock.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(txAccess{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func reposFor(a accessor) stock.Repos {
	return stock.Repos{
		Locations:  &LocationRepo{a: a},
		Items:      &ItemRepo{a: a},
		Movements:  &MovementRepo{a: a},
		Thresholds: &ThresholdRepo{a: a},
		Supplies:   &SupplyRepo{a: a},
	}
}
