package store

import (
	"math"
	"sort"
	"sync"

	"restaurant-dashboard/internal/domain"
)

// TableStore holds table occupancy by table number.
type TableStore struct {
	mu     sync.RWMutex
	tables map[int]domain.Table
}

func NewTableStore() *TableStore {
	return &TableStore{tables: make(map[int]domain.Table)}
}

func (t *TableStore) ReplaceAll(tables []domain.Table) {
	next := make(map[int]domain.Table, len(tables))
	for _, tb := range tables {
		next[tb.No] = tb
	}
	t.mu.Lock()
	t.tables = next
	t.mu.Unlock()
}

// Upsert stores one refetched table.
func (t *TableStore) Upsert(tb domain.Table) {
	t.mu.Lock()
	t.tables[tb.No] = tb
	t.mu.Unlock()
}

func (t *TableStore) Get(no int) (domain.Table, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tb, ok := t.tables[no]
	return tb, ok
}

// List returns all tables ordered by number.
func (t *TableStore) List() []domain.Table {
	t.mu.RLock()
	out := make([]domain.Table, 0, len(t.tables))
	for _, tb := range t.tables {
		out = append(out, tb)
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].No < out[j].No })
	return out
}

type Occupancy struct {
	Total     int `json:"total"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
	Rate      int `json:"rate"`
}

func (t *TableStore) Occupancy() Occupancy { return OccupancyOf(t.List()) }

// OccupancyOf computes the occupied percentage rounded half up.
func OccupancyOf(tables []domain.Table) Occupancy {
	o := Occupancy{Total: len(tables)}
	for _, tb := range tables {
		if tb.Occupied() {
			o.Occupied++
		}
	}
	o.Available = o.Total - o.Occupied
	if o.Total > 0 {
		o.Rate = int(math.Floor(float64(o.Occupied)/float64(o.Total)*100 + 0.5))
	}
	return o
}
