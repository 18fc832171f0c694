package store

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"restaurant-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id string, amount float64, served, paid bool) domain.Order {
	return domain.Order{ID: domain.ID(id), Amount: amount, ServingStatus: served, PaymentStatus: paid, Date: "2024-01-01", Time: "12:00"}
}

func ids(orders []domain.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID.String()
	}
	return out
}

func TestApplyCreatedPrependsOnce(t *testing.T) {
	s := New()
	s.ReplaceAll([]domain.Order{order("1", 10, false, false)})

	assert.True(t, s.ApplyCreated(order("2", 5, false, false)))
	once, v1 := s.Snapshot()
	assert.False(t, s.ApplyCreated(order("2", 5, false, false)))
	twice, v2 := s.Snapshot()

	assert.Equal(t, []string{"2", "1"}, ids(once))
	assert.Equal(t, once, twice)
	assert.Equal(t, v1, v2)
}

func TestUnknownIDsLeaveStoreUnchanged(t *testing.T) {
	s := New()
	s.ReplaceAll([]domain.Order{order("1", 10, false, false), order("2", 20, true, true)})
	before, v := s.Snapshot()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		id := domain.ID(fmt.Sprintf("ghost-%d", rng.Intn(50)))
		switch rng.Intn(4) {
		case 0:
			assert.False(t, s.ApplyUpdated(domain.Order{ID: id, Amount: 99}))
		case 1:
			assert.False(t, s.ApplyStatusUpdated(id, domain.StatusServing, true))
		case 2:
			assert.False(t, s.ApplyStatusUpdated(id, domain.StatusPayment, true))
		default:
			assert.False(t, s.ApplyDeleted(id))
		}
	}

	after, v2 := s.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, v, v2)
}

func TestApplyUpdatedReplacesWholeOrder(t *testing.T) {
	s := New()
	s.ReplaceAll([]domain.Order{order("1", 10, false, false), order("2", 20, false, false)})
	require.True(t, s.ApplyUpdated(order("2", 42, true, false)))

	got, ok := s.Get("2")
	require.True(t, ok)
	assert.InDelta(t, 42, got.Amount, 0.001)
	assert.True(t, got.ServingStatus)
	snap, _ := s.Snapshot()
	assert.Equal(t, []string{"1", "2"}, ids(snap))
}

func TestApplyStatusUpdatedSetsOneFlag(t *testing.T) {
	s := New()
	s.ReplaceAll([]domain.Order{order("1", 10, false, false)})

	require.True(t, s.ApplyStatusUpdated("1", domain.StatusPayment, true))
	got, _ := s.Get("1")
	assert.True(t, got.PaymentStatus)
	assert.False(t, got.ServingStatus)

	// same value twice is harmless
	require.True(t, s.ApplyStatusUpdated("1", domain.StatusPayment, true))
	again, _ := s.Get("1")
	assert.Equal(t, got, again)

	assert.False(t, s.ApplyStatusUpdated("1", domain.StatusKind("tip"), true))
}

func TestApplyDeleted(t *testing.T) {
	s := New()
	s.ReplaceAll([]domain.Order{order("1", 10, false, false), order("2", 20, false, false), order("3", 30, false, false)})
	require.True(t, s.ApplyDeleted("2"))
	snap, _ := s.Snapshot()
	assert.Equal(t, []string{"1", "3"}, ids(snap))
	assert.False(t, s.ApplyDeleted("2"))
}

func TestApplyDispatchesByKind(t *testing.T) {
	s := New()
	assert.True(t, s.Apply(domain.OrderEvent{Kind: domain.EventCreated, Order: order("9", 1, false, false)}))
	assert.True(t, s.Apply(domain.OrderEvent{Kind: domain.EventStatusUpdated,
		Change: domain.StatusChange{OrderID: "9", Status: domain.StatusServing, Value: true}}))
	got, _ := s.Get("9")
	assert.True(t, got.ServingStatus)
	assert.True(t, s.Apply(domain.OrderEvent{Kind: domain.EventDeleted, OrderID: "9"}))
	assert.Zero(t, s.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	src := []domain.Order{{ID: "1", Dishes: []domain.OrderItem{{DishID: "a", Quantity: 1}}}}
	s.ReplaceAll(src)
	src[0].Dishes[0].Quantity = 50

	snap, _ := s.Snapshot()
	snap[0].Dishes[0].Quantity = 99
	got, _ := s.Get("1")
	assert.Equal(t, 1, got.Dishes[0].Quantity)
}

func TestAggregateRevenueOnlyCountsPaid(t *testing.T) {
	assert.Equal(t, Aggregate{}, New().Aggregate())

	s := New()
	s.ReplaceAll([]domain.Order{
		order("1", 10, false, true),
		order("2", 20, true, false),
		order("3", 30.5, true, true),
	})
	a := s.Aggregate()
	assert.InDelta(t, 40.5, a.TotalRevenue, 0.0001)
	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 1, a.PendingCount)
	assert.Equal(t, 2, a.CompletedCount)
	assert.Equal(t, 2, a.PaidCount)
	assert.Equal(t, 1, a.UnpaidCount)
}

func TestPendingAndPaidAreIndependent(t *testing.T) {
	a := AggregateOf([]domain.Order{order("1", 12, false, true)})
	assert.Equal(t, 1, a.PendingCount)
	assert.Equal(t, 1, a.PaidCount)
	assert.Zero(t, a.CompletedCount)
	assert.Zero(t, a.UnpaidCount)
}

func TestAggregateTracksEvents(t *testing.T) {
	s := New()
	s.ReplaceAll([]domain.Order{order("1", 10, false, false)})
	assert.Zero(t, s.Aggregate().TotalRevenue)
	s.ApplyStatusUpdated("1", domain.StatusPayment, true)
	assert.InDelta(t, 10, s.Aggregate().TotalRevenue, 0.0001)
}

func TestDeriveFilterAndSearch(t *testing.T) {
	s := New()
	a := order("101", 10, false, false)
	a.TableNo = 4
	b := order("202", 20, true, true)
	b.TableNo = 14
	c := order("303", 30, false, true)
	c.TableNo = 7
	s.ReplaceAll([]domain.Order{a, b, c})

	cases := []struct {
		name string
		f    Filter
		want []string
	}{
		{"all", Filter{}, []string{"101", "202", "303"}},
		{"serving", Filter{Category: Serving}, []string{"101", "303"}},
		{"served", Filter{Category: Served}, []string{"202"}},
		{"paid", Filter{Category: Paid}, []string{"202", "303"}},
		{"unpaid", Filter{Category: Unpaid}, []string{"101"}},
		{"search table", Filter{Search: "4"}, []string{"101", "202"}},
		{"search id", Filter{Search: "30"}, []string{"303"}},
		{"category and search", Filter{Category: Paid, Search: "4"}, []string{"202"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, ids(s.Derive(tc.f, AmountLow)))
		})
	}
}

func TestSortAmountDirectionsAreReversed(t *testing.T) {
	s := New()
	s.ReplaceAll([]domain.Order{order("a", 3, false, false), order("b", 1, false, false), order("c", 7, false, false), order("d", 5, false, false)})
	high := ids(s.Derive(Filter{}, AmountHigh))
	low := ids(s.Derive(Filter{}, AmountLow))
	assert.Equal(t, []string{"c", "d", "a", "b"}, high)
	for i := range high {
		assert.Equal(t, high[i], low[len(low)-1-i])
	}
}

func TestSortByTimestamp(t *testing.T) {
	early := domain.Order{ID: "early", Date: "2024-01-01", Time: "08:00"}
	late := domain.Order{ID: "late", Date: "2024-01-02", Time: "07:00"}
	pm := domain.Order{ID: "pm", Date: "2024-01-01", Time: "1:00 PM"}
	undated := domain.Order{ID: "undated"}

	orders := []domain.Order{early, undated, late, pm}
	SortOrders(orders, Newest)
	assert.Equal(t, []string{"late", "pm", "early", "undated"}, ids(orders))
	SortOrders(orders, Oldest)
	assert.Equal(t, []string{"undated", "early", "pm", "late"}, ids(orders))
}

func TestSortIsStableOnTies(t *testing.T) {
	orders := []domain.Order{order("x", 5, false, false), order("y", 5, false, false), order("z", 5, false, false)}
	SortOrders(orders, AmountHigh)
	assert.Equal(t, []string{"x", "y", "z"}, ids(orders))
	SortOrders(orders, Newest)
	assert.Equal(t, []string{"x", "y", "z"}, ids(orders))
}

func TestParseCategoryAndSort(t *testing.T) {
	c, err := ParseCategory("Preparing")
	require.NoError(t, err)
	assert.Equal(t, Serving, c)
	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, All, c)
	_, err = ParseCategory("cancelled")
	assert.Error(t, err)

	so, err := ParseSort("amount-high")
	require.NoError(t, err)
	assert.Equal(t, AmountHigh, so)
	_, err = ParseSort("alphabetical")
	assert.Error(t, err)
}

type names map[domain.ID]string

func (n names) DishName(id domain.ID) (string, bool) { v, ok := n[id]; return v, ok }

func TestTopDishesTieAndFallbackName(t *testing.T) {
	s := New()
	s.ReplaceAll([]domain.Order{
		{ID: "o1", Dishes: []domain.OrderItem{{DishID: "1", Quantity: 2}}},
		{ID: "o2", Dishes: []domain.OrderItem{{DishID: "2", Quantity: 5}}},
		{ID: "o3", Dishes: []domain.OrderItem{{DishID: "1", Quantity: 3}}},
	})

	top := s.TopDishes(3, names{"2": "Paneer Tikka"})
	require.Len(t, top, 2)
	assert.Equal(t, DishCount{DishID: "1", Name: "Dish #1", Quantity: 5}, top[0])
	assert.Equal(t, DishCount{DishID: "2", Name: "Paneer Tikka", Quantity: 5}, top[1])
}

func TestTopDishesNumericTieBreakAndLimit(t *testing.T) {
	orders := []domain.Order{{ID: "o", Dishes: []domain.OrderItem{
		{DishID: "10", Quantity: 1}, {DishID: "9", Quantity: 1}, {DishID: "3", Quantity: 4}, {DishID: "11", Quantity: 1},
	}}}
	top := TopDishesOf(orders, 3, nil)
	require.Len(t, top, 3)
	assert.Equal(t, []domain.ID{"3", "9", "10"}, []domain.ID{top[0].DishID, top[1].DishID, top[2].DishID})
}

func TestSubscribeCoalesces(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.ReplaceAll(nil)
	s.ApplyCreated(order("1", 1, false, false))
	s.ApplyCreated(order("2", 1, false, false))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should coalesce")
	default:
	}

	cancel()
	s.ApplyDeleted("1")
	select {
	case <-ch:
		t.Fatal("unsubscribed channel was signalled")
	default:
	}
}

func TestLatest(t *testing.T) {
	s := New()
	var orders []domain.Order
	for i := 1; i <= 12; i++ {
		orders = append(orders, domain.Order{ID: domain.ID(fmt.Sprint(i)), Date: fmt.Sprintf("2024-01-%02d", i), Time: "10:00"})
	}
	s.ReplaceAll(orders)
	latest := s.Latest(9)
	require.Len(t, latest, 9)
	assert.Equal(t, "12", latest[0].ID.String())
	assert.Equal(t, "4", latest[8].ID.String())
}
