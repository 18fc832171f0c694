package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/session"
	"restaurant-dashboard/internal/store"
)

type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// StatsTopDishes is how many dishes the stats page ranks.
const StatsTopDishes = 5

func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case "":
		return TimeframeWeek, nil
	case TimeframeWeek, TimeframeMonth, TimeframeYear:
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("%w: unknown timeframe %q", ErrBadRequest, s)
}

type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type Point struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type Stats struct {
	Timeframe         Timeframe         `json:"timeframe"`
	TotalRevenue      float64           `json:"total_revenue"`
	TotalOrders       int               `json:"total_orders"`
	AverageOrderValue float64           `json:"average_order_value"`
	CompletionRate    int               `json:"completion_rate"`
	PaymentRate       int               `json:"payment_rate"`
	ServingBreakdown  []Slice           `json:"serving_breakdown"`
	PaymentBreakdown  []Slice           `json:"payment_breakdown"`
	Series            []Point           `json:"series"`
	TopDishes         []store.DishCount `json:"top_dishes"`
}

type StatsServiceInterface interface {
	Compute(ctx context.Context, tf Timeframe) (Stats, error)
}

type StatsService struct {
	orders *store.Store
	dishes CatalogSource
	now    func() time.Time
}

func NewStatsService(orders *store.Store, dishes CatalogSource, now func() time.Time) *StatsService {
	return &StatsService{orders: orders, dishes: dishes, now: now}
}

func (s *StatsService) Compute(ctx context.Context, tf Timeframe) (Stats, error) {
	if err := require(ctx, session.Session.CanViewStats); err != nil {
		return Stats{}, err
	}
	snap, _ := s.orders.Snapshot()

	// Unnamed dishes still rank when the catalog cannot be loaded.
	var names store.DishNamer
	if cat, err := s.dishes.Catalog(ctx); err == nil {
		names = cat
	}
	return ComputeStats(snap, tf, s.now(), names), nil
}

// ComputeStats summarizes orders and buckets them into the series of tf
// relative to now.
func ComputeStats(orders []domain.Order, tf Timeframe, now time.Time, names store.DishNamer) Stats {
	agg := store.AggregateOf(orders)
	st := Stats{
		Timeframe:    tf,
		TotalRevenue: round2(agg.TotalRevenue),
		TotalOrders:  agg.Total,
		ServingBreakdown: []Slice{
			{Label: "Served", Value: agg.CompletedCount},
			{Label: "Pending", Value: agg.PendingCount},
		},
		PaymentBreakdown: []Slice{
			{Label: "Paid", Value: agg.PaidCount},
			{Label: "Unpaid", Value: agg.UnpaidCount},
		},
		TopDishes: store.TopDishesOf(orders, StatsTopDishes, names),
	}
	if agg.Total > 0 {
		var sum float64
		for _, o := range orders {
			sum += o.Amount
		}
		st.AverageOrderValue = round2(sum / float64(agg.Total))
		st.CompletionRate = ratePercent(agg.CompletedCount, agg.Total)
		st.PaymentRate = ratePercent(agg.PaidCount, agg.Total)
	}
	st.Series = series(orders, tf, now)
	return st
}

func series(orders []domain.Order, tf Timeframe, now time.Time) []Point {
	labels, bucket := buckets(tf, now)
	points := make([]Point, len(labels))
	for i, l := range labels {
		points[i].Label = l
	}
	for _, o := range orders {
		at, ok := o.PlacedAt()
		if !ok {
			continue
		}
		i := bucket(at)
		if i < 0 {
			continue
		}
		points[i].Orders++
		if o.PaymentStatus {
			points[i].Revenue += o.Amount
		}
	}
	for i := range points {
		points[i].Revenue = round2(points[i].Revenue)
	}
	return points
}

// buckets returns the series labels and a function placing a timestamp into
// one of them, or -1 when it falls outside the window.
func buckets(tf Timeframe, now time.Time) ([]string, func(time.Time) int) {
	loc := now.Location()
	switch tf {
	case TimeframeMonth:
		return []string{"Week 1", "Week 2", "Week 3", "Week 4"}, func(t time.Time) int {
			t = t.In(loc)
			if t.Year() != now.Year() || t.Month() != now.Month() {
				return -1
			}
			return min((t.Day()-1)/7, 3)
		}
	case TimeframeYear:
		labels := make([]string, 12)
		for m := range labels {
			labels[m] = time.Month(m + 1).String()[:3]
		}
		return labels, func(t time.Time) int {
			t = t.In(loc)
			if t.Year() != now.Year() {
				return -1
			}
			return int(t.Month()) - 1
		}
	default:
		y, w := now.ISOWeek()
		return []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, func(t time.Time) int {
			t = t.In(loc)
			if ty, tw := t.ISOWeek(); ty != y || tw != w {
				return -1
			}
			return (int(t.Weekday()) + 6) % 7
		}
	}
}

func ratePercent(part, total int) int {
	return int(math.Floor(float64(part)/float64(total)*100 + 0.5))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
