package store

import (
	"sync"

	"restaurant-dashboard/internal/domain"
)

// DishCatalog caches the menu for name lookups.
type DishCatalog struct {
	mu     sync.RWMutex
	dishes []domain.Dish
	byID   map[domain.ID]int
	loaded bool
}

func NewDishCatalog() *DishCatalog {
	return &DishCatalog{byID: make(map[domain.ID]int)}
}

func (c *DishCatalog) ReplaceAll(dishes []domain.Dish) {
	list := make([]domain.Dish, len(dishes))
	copy(list, dishes)
	idx := make(map[domain.ID]int, len(list))
	for i, d := range list {
		idx[d.ID] = i
	}
	c.mu.Lock()
	c.dishes, c.byID, c.loaded = list, idx, true
	c.mu.Unlock()
}

func (c *DishCatalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *DishCatalog) List() []domain.Dish {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Dish, len(c.dishes))
	copy(out, c.dishes)
	return out
}

func (c *DishCatalog) Get(id domain.ID) (domain.Dish, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return domain.Dish{}, false
	}
	return c.dishes[i], true
}

func (c *DishCatalog) DishName(id domain.ID) (string, bool) {
	d, ok := c.Get(id)
	return d.Name, ok
}

// AvailableCount is the number of dishes currently on offer.
func (c *DishCatalog) AvailableCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, d := range c.dishes {
		if d.Available {
			n++
		}
	}
	return n
}
