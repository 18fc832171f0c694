package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"restaurant-dashboard/internal/domain"
)

type Category int

const (
	All Category = iota
	Serving
	Served
	Paid
	Unpaid
)

var categoryNames = map[Category]string{
	All: "all", Serving: "serving", Served: "served", Paid: "paid", Unpaid: "unpaid",
}

func (c Category) String() string { return categoryNames[c] }

// ParseCategory accepts the tab and dropdown labels used by the dashboard.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "serving", "preparing", "pending":
		return Serving, nil
	case "served", "prepared", "completed":
		return Served, nil
	case "paid":
		return Paid, nil
	case "unpaid":
		return Unpaid, nil
	}
	return All, fmt.Errorf("unknown order category %q", s)
}

func (c Category) match(o domain.Order) bool {
	switch c {
	case Serving:
		return !o.ServingStatus
	case Served:
		return o.ServingStatus
	case Paid:
		return o.PaymentStatus
	case Unpaid:
		return !o.PaymentStatus
	default:
		return true
	}
}

// Filter selects orders by status category and a free-text match against
// the order id or table number. Both must hold.
type Filter struct {
	Category Category
	Search   string
}

func (f Filter) Match(o domain.Order) bool {
	if !f.Category.match(o) {
		return false
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(o.ID.String(), f.Search) ||
		strings.Contains(strconv.Itoa(o.TableNo), f.Search)
}

type Sort string

const (
	Newest     Sort = "newest"
	Oldest     Sort = "oldest"
	AmountHigh Sort = "amount-high"
	AmountLow  Sort = "amount-low"
)

func ParseSort(s string) (Sort, error) {
	switch v := Sort(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return Newest, nil
	case Newest, Oldest, AmountHigh, AmountLow:
		return v, nil
	}
	return Newest, fmt.Errorf("unknown sort %q", s)
}

// Derive filters then stable-sorts the current snapshot.
func (s *Store) Derive(f Filter, by Sort) []domain.Order {
	orders, _ := s.Snapshot()
	return DeriveFrom(orders, f, by)
}

// DeriveFrom applies f and by to orders without touching a store.
func DeriveFrom(orders []domain.Order, f Filter, by Sort) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	SortOrders(out, by)
	return out
}

// SortOrders sorts in place. Orders with equal keys keep their relative order;
// unparseable timestamps sort as the zero time.
func SortOrders(orders []domain.Order, by Sort) {
	switch by {
	case Newest, Oldest:
		type keyed struct {
			o domain.Order
			t time.Time
		}
		ks := make([]keyed, len(orders))
		for i, o := range orders {
			t, _ := o.PlacedAt()
			ks[i] = keyed{o, t}
		}
		sort.SliceStable(ks, func(i, j int) bool {
			if by == Newest {
				return ks[i].t.After(ks[j].t)
			}
			return ks[i].t.Before(ks[j].t)
		})
		for i := range ks {
			orders[i] = ks[i].o
		}
	case AmountHigh:
		sort.SliceStable(orders, func(i, j int) bool { return orders[i].Amount > orders[j].Amount })
	case AmountLow:
		sort.SliceStable(orders, func(i, j int) bool { return orders[i].Amount < orders[j].Amount })
	}
}

// Latest returns up to n orders, newest first.
func (s *Store) Latest(n int) []domain.Order {
	out := s.Derive(Filter{}, Newest)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
