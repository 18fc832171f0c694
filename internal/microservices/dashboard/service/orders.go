package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/session"
	"restaurant-dashboard/internal/store"
)

// RecentOrdersOnDashboard is how many orders the landing page lists.
const RecentOrdersOnDashboard = 9

type OrdersView struct {
	Orders  []domain.Order  `json:"orders"`
	Stats   store.Aggregate `json:"stats"`
	Version uint64          `json:"version"`
}

type Summary struct {
	store.Aggregate
	TopDishes []store.DishCount `json:"top_dishes"`
}

type DashboardView struct {
	RecentOrders    []domain.Order `json:"recent_orders"`
	TotalRevenue    float64        `json:"total_revenue"`
	PendingOrders   int            `json:"pending_orders"`
	CompletedOrders int            `json:"completed_orders"`
	TotalOrders     int            `json:"total_orders"`
	AvailableDishes int            `json:"available_dishes"`
}

type OrderServiceInterface interface {
	List(ctx context.Context, f store.Filter, by store.Sort) OrdersView
	Refresh(ctx context.Context) error
	SetServing(ctx context.Context, id domain.ID, value *bool) (domain.Order, error)
	SetPayment(ctx context.Context, id domain.ID, value *bool) (domain.Order, error)
	Summary(ctx context.Context) Summary
	Dashboard(ctx context.Context) DashboardView
}

// CatalogSource hands out a loaded dish catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*store.DishCatalog, error)
}

type OrderService struct {
	gw      Gateway
	orders  *store.Store
	refresh Refresher
	dishes  CatalogSource
	log     *logger.Logger
}

func NewOrderService(gw Gateway, orders *store.Store, refresh Refresher, dishes CatalogSource, log *logger.Logger) *OrderService {
	return &OrderService{gw: gw, orders: orders, refresh: refresh, dishes: dishes, log: log}
}

func (s *OrderService) List(ctx context.Context, f store.Filter, by store.Sort) OrdersView {
	snap, version := s.orders.Snapshot()
	return OrdersView{
		Orders:  store.DeriveFrom(snap, f, by),
		Stats:   store.AggregateOf(snap),
		Version: version,
	}
}

func (s *OrderService) Refresh(ctx context.Context) error {
	return s.refresh.Refresh(ctx)
}

// SetServing sets the serving flag; a nil value toggles the current one.
func (s *OrderService) SetServing(ctx context.Context, id domain.ID, value *bool) (domain.Order, error) {
	if err := require(ctx, session.Session.CanSetServing); err != nil {
		return domain.Order{}, err
	}
	return s.setStatus(ctx, id, domain.StatusServing, value)
}

// SetPayment sets the payment flag; a nil value toggles the current one.
func (s *OrderService) SetPayment(ctx context.Context, id domain.ID, value *bool) (domain.Order, error) {
	if err := require(ctx, session.Session.CanSetPayment); err != nil {
		return domain.Order{}, err
	}
	return s.setStatus(ctx, id, domain.StatusPayment, value)
}

func (s *OrderService) setStatus(ctx context.Context, id domain.ID, kind domain.StatusKind, value *bool) (domain.Order, error) {
	cur, ok := s.orders.Get(id)
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}

	var next bool
	var patch domain.StatusPatch
	switch kind {
	case domain.StatusServing:
		next = !cur.ServingStatus
		if value != nil {
			next = *value
		}
		patch = domain.ServingPatch(next)
	case domain.StatusPayment:
		next = !cur.PaymentStatus
		if value != nil {
			next = *value
		}
		patch = domain.PaymentPatch(next)
	}

	updated, err := s.gw.UpdateOrderStatus(ctx, id, patch)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return domain.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("update order %s: %w", id, err)
	}
	if updated != nil {
		s.orders.ApplyUpdated(*updated)
	} else {
		s.orders.ApplyStatusUpdated(id, kind, next)
	}

	s.log.Info("order_status_changed", map[string]any{"order_id": id.String(), "status": string(kind), "value": next})
	out, _ := s.orders.Get(id)
	return out, nil
}

func (s *OrderService) Summary(ctx context.Context) Summary {
	snap, _ := s.orders.Snapshot()
	return Summary{
		Aggregate: store.AggregateOf(snap),
		TopDishes: store.TopDishesOf(snap, 3, s.namer(ctx)),
	}
}

func (s *OrderService) Dashboard(ctx context.Context) DashboardView {
	snap, _ := s.orders.Snapshot()
	agg := store.AggregateOf(snap)
	recent := store.DeriveFrom(snap, store.Filter{}, store.Newest)
	if len(recent) > RecentOrdersOnDashboard {
		recent = recent[:RecentOrdersOnDashboard]
	}
	view := DashboardView{
		RecentOrders:    recent,
		TotalRevenue:    agg.TotalRevenue,
		PendingOrders:   agg.PendingCount,
		CompletedOrders: agg.CompletedCount,
		TotalOrders:     agg.Total,
	}
	if cat, err := s.dishes.Catalog(ctx); err == nil {
		view.AvailableDishes = cat.AvailableCount()
	}
	return view
}

// namer returns the dish catalog, or nil when it cannot be loaded; names then
// fall back to "Dish #id".
func (s *OrderService) namer(ctx context.Context) store.DishNamer {
	cat, err := s.dishes.Catalog(ctx)
	if err != nil {
		s.log.Warn("dish_catalog_unavailable", map[string]any{"reason": err.Error()})
		return nil
	}
	return cat
}
