package store

import (
	"sync"

	"restaurant-dashboard/internal/domain"
)

// Store holds the current order snapshot: the last full fetch plus every
// event applied since, in arrival order. Unknown ids are ignored, never errors.
type Store struct {
	mu      sync.RWMutex
	orders  []domain.Order
	version uint64

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

func New() *Store {
	return &Store{subs: make(map[chan struct{}]struct{})}
}

// ReplaceAll swaps in a freshly fetched snapshot.
func (s *Store) ReplaceAll(orders []domain.Order) {
	next := make([]domain.Order, len(orders))
	for i, o := range orders {
		next[i] = o.Clone()
	}
	s.mu.Lock()
	s.orders = next
	s.version++
	s.mu.Unlock()
	s.notify()
}

// ApplyCreated prepends o unless an order with the same id is already present.
func (s *Store) ApplyCreated(o domain.Order) bool {
	s.mu.Lock()
	if s.indexOf(o.ID) >= 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]domain.Order, 0, len(s.orders)+1)
	next = append(next, o.Clone())
	s.orders = append(next, s.orders...)
	s.version++
	s.mu.Unlock()
	s.notify()
	return true
}

// ApplyUpdated replaces the order with o's id.
func (s *Store) ApplyUpdated(o domain.Order) bool {
	return s.mutate(o.ID, func(cur *domain.Order) { *cur = o.Clone() })
}

// ApplyStatusUpdated sets exactly one status flag.
func (s *Store) ApplyStatusUpdated(id domain.ID, kind domain.StatusKind, value bool) bool {
	switch kind {
	case domain.StatusServing:
		return s.mutate(id, func(cur *domain.Order) { cur.ServingStatus = value })
	case domain.StatusPayment:
		return s.mutate(id, func(cur *domain.Order) { cur.PaymentStatus = value })
	default:
		return false
	}
}

func (s *Store) ApplyDeleted(id domain.ID) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]domain.Order, 0, len(s.orders)-1)
	next = append(next, s.orders[:i]...)
	s.orders = append(next, s.orders[i+1:]...)
	s.version++
	s.mu.Unlock()
	s.notify()
	return true
}

// Apply dispatches a channel event to the matching apply method.
func (s *Store) Apply(ev domain.OrderEvent) bool {
	switch ev.Kind {
	case domain.EventCreated:
		return s.ApplyCreated(ev.Order)
	case domain.EventUpdated:
		return s.ApplyUpdated(ev.Order)
	case domain.EventStatusUpdated:
		return s.ApplyStatusUpdated(ev.Change.OrderID, ev.Change.Status, ev.Change.Value)
	case domain.EventDeleted:
		return s.ApplyDeleted(ev.OrderID)
	default:
		return false
	}
}

func (s *Store) mutate(id domain.ID, fn func(*domain.Order)) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]domain.Order, len(s.orders))
	copy(next, s.orders)
	fn(&next[i])
	s.orders = next
	s.version++
	s.mu.Unlock()
	s.notify()
	return true
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id domain.ID) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy of the current orders and the version it was taken at.
func (s *Store) Snapshot() ([]domain.Order, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out, s.version
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *Store) Get(id domain.ID) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.orders[i].Clone(), true
	}
	return domain.Order{}, false
}

// Subscribe returns a channel that receives a signal after each change.
// Signals coalesce: a slow reader sees one pending signal, not a backlog.
// Call the returned func to unsubscribe.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch, func() {
		s.subMu.Lock()
		delete(s.subs, ch)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
