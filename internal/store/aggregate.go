package store

import (
	"sort"

	"restaurant-dashboard/internal/domain"
)

// Aggregate counts the two status dimensions independently: one order can be
// pending and paid at the same time.
type Aggregate struct {
	TotalRevenue   float64 `json:"total_revenue"`
	PendingCount   int     `json:"pending_count"`
	CompletedCount int     `json:"completed_count"`
	PaidCount      int     `json:"paid_count"`
	UnpaidCount    int     `json:"unpaid_count"`
	Total          int     `json:"total"`
}

func (s *Store) Aggregate() Aggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AggregateOf(s.orders)
}

func AggregateOf(orders []domain.Order) Aggregate {
	var a Aggregate
	for _, o := range orders {
		a.Total++
		if o.ServingStatus {
			a.CompletedCount++
		} else {
			a.PendingCount++
		}
		if o.PaymentStatus {
			a.PaidCount++
			a.TotalRevenue += o.Amount
		} else {
			a.UnpaidCount++
		}
	}
	return a
}

// DishNamer resolves a dish id to a display name.
type DishNamer interface {
	DishName(id domain.ID) (string, bool)
}

type DishCount struct {
	DishID   domain.ID `json:"dish_id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
}

// TopDishes ranks dishes by cumulative ordered quantity. Equal quantities are
// ordered by lowest dish id. names may be nil.
func (s *Store) TopDishes(n int, names DishNamer) []DishCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TopDishesOf(s.orders, n, names)
}

func TopDishesOf(orders []domain.Order, n int, names DishNamer) []DishCount {
	totals := make(map[domain.ID]int)
	for _, o := range orders {
		for _, it := range o.Dishes {
			totals[it.DishID] += it.Quantity
		}
	}
	ranked := make([]DishCount, 0, len(totals))
	for id, q := range totals {
		ranked = append(ranked, DishCount{DishID: id, Quantity: q})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].DishID.Less(ranked[j].DishID)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Name = "Dish #" + ranked[i].DishID.String()
		if names == nil {
			continue
		}
		if name, ok := names.DishName(ranked[i].DishID); ok && name != "" {
			ranked[i].Name = name
		}
	}
	return ranked
}
