package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Portafolio-api/internal/application/portfolio"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
	"github.com/jhoicas/Portafolio-api/internal/domain/repository"
)

var (
	_ repository.HoldingRepository = (*HoldingStore)(nil)
	_ portfolio.TxRunner           = (*HoldingStore)(nil)
)

type holdingKey struct {
	userID string
	symbol string
}

// HoldingStore tenencias en memoria. Mantiene el orden de inserción por usuario para ListByUser.
// Run emula una transacción: bloqueo por (usuario, símbolo) hasta el fin, escrituras aplicadas al Commit.
type HoldingStore struct {
	mu     sync.RWMutex
	rows   map[holdingKey]entity.Holding
	order  map[string][]string // userID -> símbolos en orden de inserción
	locks  sync.Map            // holdingKey -> *sync.Mutex
	writes int                 // escrituras confirmadas, útil en tests
}

// NewHoldingStore construye un store vacío.
func NewHoldingStore() *HoldingStore {
	return &HoldingStore{
		rows:  make(map[holdingKey]entity.Holding),
		order: make(map[string][]string),
	}
}

// Get obtiene la tenencia o nil si no existe.
func (s *HoldingStore) Get(_ context.Context, userID, symbol string) (*entity.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.rows[holdingKey{userID, symbol}]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

// GetForUpdate fuera de una transacción equivale a Get.
func (s *HoldingStore) GetForUpdate(ctx context.Context, userID, symbol string) (*entity.Holding, error) {
	return s.Get(ctx, userID, symbol)
}

// Upsert inserta o reemplaza la cantidad.
func (s *HoldingStore) Upsert(_ context.Context, h *entity.Holding) error {
	if h.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(*h)
	return nil
}

// Delete elimina la tenencia si existe.
func (s *HoldingStore) Delete(_ context.Context, userID, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(userID, symbol)
	return nil
}

// ListByUser lista las tenencias del usuario en orden de inserción.
func (s *HoldingStore) ListByUser(_ context.Context, userID string) ([]*entity.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	symbols := s.order[userID]
	list := make([]*entity.Holding, 0, len(symbols))
	for _, sym := range symbols {
		h := s.rows[holdingKey{userID, sym}]
		list = append(list, &h)
	}
	return list, nil
}

// Writes devuelve cuántas escrituras (upsert/delete) se han confirmado.
func (s *HoldingStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Run ejecuta fn con un repositorio transaccional. Si fn falla, nada se aplica.
func (s *HoldingStore) Run(ctx context.Context, fn func(holdings repository.HoldingRepository) error) error {
	tx := &holdingTx{store: s, held: make(map[holdingKey]*sync.Mutex)}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *HoldingStore) lockFor(k holdingKey) *sync.Mutex {
	m, _ := s.locks.LoadOrStore(k, &sync.Mutex{})
	return m.(*sync.Mutex)
}

func (s *HoldingStore) upsertLocked(h entity.Holding) {
	k := holdingKey{h.UserID, h.Symbol}
	if _, ok := s.rows[k]; !ok {
		s.order[h.UserID] = append(s.order[h.UserID], h.Symbol)
	}
	s.rows[k] = h
	s.writes++
}

func (s *HoldingStore) deleteLocked(userID, symbol string) {
	k := holdingKey{userID, symbol}
	if _, ok := s.rows[k]; !ok {
		return
	}
	delete(s.rows, k)
	symbols := s.order[userID]
	for i, sym := range symbols {
		if sym == symbol {
			s.order[userID] = append(symbols[:i:i], symbols[i+1:]...)
			break
		}
	}
	if len(s.order[userID]) == 0 {
		delete(s.order, userID)
	}
	s.writes++
}

type pendingWrite struct {
	holding entity.Holding
	delete  bool
}

// holdingTx repositorio atado a una transacción en memoria.
type holdingTx struct {
	store   *HoldingStore
	held    map[holdingKey]*sync.Mutex
	pending []pendingWrite
}

func (tx *holdingTx) Get(ctx context.Context, userID, symbol string) (*entity.Holding, error) {
	k := holdingKey{userID, symbol}
	for i := len(tx.pending) - 1; i >= 0; i-- {
		p := tx.pending[i]
		if p.holding.UserID == k.userID && p.holding.Symbol == k.symbol {
			if p.delete {
				return nil, nil
			}
			h := p.holding
			return &h, nil
		}
	}
	return tx.store.Get(ctx, userID, symbol)
}

func (tx *holdingTx) GetForUpdate(ctx context.Context, userID, symbol string) (*entity.Holding, error) {
	k := holdingKey{userID, symbol}
	if _, ok := tx.held[k]; !ok {
		m := tx.store.lockFor(k)
		m.Lock()
		tx.held[k] = m
	}
	return tx.Get(ctx, userID, symbol)
}

func (tx *holdingTx) Upsert(_ context.Context, h *entity.Holding) error {
	if h.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	tx.pending = append(tx.pending, pendingWrite{holding: *h})
	return nil
}

func (tx *holdingTx) Delete(_ context.Context, userID, symbol string) error {
	tx.pending = append(tx.pending, pendingWrite{
		holding: entity.Holding{UserID: userID, Symbol: symbol},
		delete:  true,
	})
	return nil
}

func (tx *holdingTx) ListByUser(ctx context.Context, userID string) ([]*entity.Holding, error) {
	return tx.store.ListByUser(ctx, userID)
}

func (tx *holdingTx) commit() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, p := range tx.pending {
		if p.delete {
			tx.store.deleteLocked(p.holding.UserID, p.holding.Symbol)
			continue
		}
		tx.store.upsertLocked(p.holding)
	}
}

func (tx *holdingTx) release() {
	for _, m := range tx.held {
		m.Unlock()
	}
}
