package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/store"
)

// Table list filters.
const (
	TableFilterAll       = "all"
	TableFilterOccupied  = "occupied"
	TableFilterAvailable = "available"
)

type TableView struct {
	domain.Table
	Status string `json:"status"`
}

type TablesView struct {
	Tables    []TableView     `json:"tables"`
	Occupancy store.Occupancy `json:"occupancy"`
	Fallback  bool            `json:"fallback,omitempty"`
}

type TableDetails struct {
	Table    TableView        `json:"table"`
	Customer *domain.Customer `json:"customer,omitempty"`
	Order    *domain.Order    `json:"order,omitempty"`
	Fallback bool             `json:"fallback,omitempty"`
}

type TableServiceInterface interface {
	List(ctx context.Context, filter, search string) (TablesView, error)
	Details(ctx context.Context, no int) (TableDetails, error)
	Clear(ctx context.Context, no int) (TableView, error)
}

type TableService struct {
	gw     Gateway
	tables *store.TableStore
	orders *store.Store
	log    *logger.Logger
}

func NewTableService(gw Gateway, tables *store.TableStore, orders *store.Store, log *logger.Logger) *TableService {
	return &TableService{gw: gw, tables: tables, orders: orders, log: log}
}

// List fetches the floor plan. When the backend is unreachable the sample
// floor plan is shown instead of an error.
func (s *TableService) List(ctx context.Context, filter, search string) (TablesView, error) {
	switch filter {
	case "", TableFilterAll, TableFilterOccupied, TableFilterAvailable:
	default:
		return TablesView{}, fmt.Errorf("%w: unknown table filter %q", ErrBadRequest, filter)
	}

	all, err := s.gw.FetchTables(ctx)
	fallback := false
	if err != nil {
		s.log.Error("tables_fetch_failed", err, map[string]any{"fallback": true})
		all, fallback = SampleTables(), true
	} else {
		s.tables.ReplaceAll(all)
		all = s.tables.List()
	}

	view := TablesView{Occupancy: store.OccupancyOf(all), Fallback: fallback}
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, t := range all {
		if filter == TableFilterOccupied && !t.Occupied() {
			continue
		}
		if filter == TableFilterAvailable && t.Occupied() {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower("Table "+strconv.Itoa(t.No)), needle) {
			continue
		}
		view.Tables = append(view.Tables, viewOf(t))
	}
	return view, nil
}

// Details resolves the seated customer and the active order of a table.
// Each lookup that fails falls back to its sample on its own.
func (s *TableService) Details(ctx context.Context, no int) (TableDetails, error) {
	t, err := s.table(ctx, no)
	if err != nil {
		return TableDetails{}, err
	}
	out := TableDetails{Table: viewOf(t)}
	if !t.Occupied() {
		return out, nil
	}

	cu, err := s.gw.FetchCustomerByID(ctx, domain.ID(t.CustomerID))
	if err != nil {
		s.log.Error("table_customer_failed", err, map[string]any{"table_no": no, "fallback": true})
		cu, out.Fallback = SampleCustomer(), true
	}
	out.Customer = &cu

	if t.OrderID != "" {
		o, err := s.order(ctx, t.OrderID)
		if err != nil {
			s.log.Error("table_order_failed", err, map[string]any{"table_no": no, "order_id": t.OrderID.String(), "fallback": true})
			o, out.Fallback = SampleOrder(t.OrderID), true
		}
		out.Order = &o
	}
	return out, nil
}

// Clear checks the customer out: one update resets both references, then
// only that table is refetched.
func (s *TableService) Clear(ctx context.Context, no int) (TableView, error) {
	cleared := domain.Table{No: no}.Cleared()
	if err := s.gw.UpdateTable(ctx, cleared); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return TableView{}, fmt.Errorf("table %d: %w", no, ErrNotFound)
		}
		return TableView{}, fmt.Errorf("clear table %d: %w", no, err)
	}

	fresh, err := s.gw.FetchTable(ctx, no)
	if err != nil {
		s.log.Warn("table_refetch_failed", map[string]any{"table_no": no, "reason": err.Error()})
		fresh = cleared
	}
	s.tables.Upsert(fresh)
	s.log.Info("table_cleared", map[string]any{"table_no": no})
	return viewOf(fresh), nil
}

func (s *TableService) table(ctx context.Context, no int) (domain.Table, error) {
	if t, ok := s.tables.Get(no); ok {
		return t, nil
	}
	t, err := s.gw.FetchTable(ctx, no)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return domain.Table{}, fmt.Errorf("table %d: %w", no, ErrNotFound)
		}
		return domain.Table{}, fmt.Errorf("fetch table %d: %w", no, err)
	}
	s.tables.Upsert(t)
	return t, nil
}

func (s *TableService) order(ctx context.Context, id domain.ID) (domain.Order, error) {
	if o, ok := s.orders.Get(id); ok {
		return o, nil
	}
	return s.gw.FetchOrder(ctx, id)
}

func viewOf(t domain.Table) TableView { return TableView{Table: t, Status: t.Status()} }

// SampleTables is the floor plan shown when the backend is unreachable.
func SampleTables() []domain.Table {
	tables := make([]domain.Table, 0, 8)
	for no := 1; no <= 8; no++ {
		t := domain.Table{No: no}
		if no == 1 || no == 5 || no == 8 {
			t.CustomerID = fmt.Sprintf("CUSTOMER-%d", no)
			t.OrderID = domain.ID(fmt.Sprintf("ORDER-%d", no))
		}
		tables = append(tables, t)
	}
	return tables
}

func SampleCustomer() domain.Customer {
	return domain.Customer{Name: "Sample Customer", Contact: "123-456-7890", Email: "customer@example.com"}
}

func SampleOrder(id domain.ID) domain.Order {
	return domain.Order{
		ID:            id,
		Time:          "12:30 PM",
		Amount:        1250,
		ServingStatus: true,
		Dishes:        []domain.OrderItem{{DishID: "1", Quantity: 2}, {DishID: "3", Quantity: 1}},
	}
}
