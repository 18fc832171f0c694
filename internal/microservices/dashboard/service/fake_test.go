package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/gateway"
)

var errBackendDown = errors.New("backend down")

// fakeGateway serves canned data and records mutations.
type fakeGateway struct {
	mu sync.Mutex

	login    gateway.LoginResult
	loginErr error

	orders      []domain.Order
	updated     *domain.Order
	statusErr   error
	patches     []domain.StatusPatch
	dishes      []domain.Dish
	dishErr     error
	dishFetches int

	tables      []domain.Table
	tablesErr   error
	tableErr    error
	tableUpdate []domain.Table
	updateErr   error
	customer    domain.Customer
	customerErr error

	chefs   []domain.Chef
	created []domain.Chef

	feedback    []domain.Feedback
	feedbackErr error

	report *gateway.Report
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (gateway.LoginResult, error) {
	return f.login, f.loginErr
}

func (f *fakeGateway) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	return f.orders, nil
}

func (f *fakeGateway) FetchOrder(ctx context.Context, id domain.ID) (domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, gateway.ErrNotFound
}

func (f *fakeGateway) UpdateOrderStatus(ctx context.Context, id domain.ID, patch domain.StatusPatch) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	return f.updated, f.statusErr
}

func (f *fakeGateway) FetchDishes(ctx context.Context) ([]domain.Dish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dishFetches++
	return f.dishes, f.dishErr
}

func (f *fakeGateway) CreateDish(ctx context.Context, d domain.Dish) (domain.Dish, error) {
	d.ID = "99"
	f.dishes = append(f.dishes, d)
	return d, nil
}

func (f *fakeGateway) UpdateDish(ctx context.Context, id domain.ID, d domain.Dish) (domain.Dish, error) {
	for i := range f.dishes {
		if f.dishes[i].ID == id {
			f.dishes[i] = d
			return d, nil
		}
	}
	return domain.Dish{}, &gateway.APIError{StatusCode: 404, Method: "PUT", Path: "/Dish/" + id.String()}
}

func (f *fakeGateway) DeleteDish(ctx context.Context, id domain.ID) error { return nil }

func (f *fakeGateway) UploadDishImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return "https://cdn.test/" + filename, nil
}

func (f *fakeGateway) FetchTables(ctx context.Context) ([]domain.Table, error) {
	return f.tables, f.tablesErr
}

func (f *fakeGateway) FetchTable(ctx context.Context, no int) (domain.Table, error) {
	if f.tableErr != nil {
		return domain.Table{}, f.tableErr
	}
	for _, t := range f.tables {
		if t.No == no {
			return t, nil
		}
	}
	return domain.Table{}, gateway.ErrNotFound
}

func (f *fakeGateway) UpdateTable(ctx context.Context, t domain.Table) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.tableUpdate = append(f.tableUpdate, t)
	for i := range f.tables {
		if f.tables[i].No == t.No {
			f.tables[i] = t
		}
	}
	return nil
}

func (f *fakeGateway) FetchCustomerByID(ctx context.Context, id domain.ID) (domain.Customer, error) {
	return f.customer, f.customerErr
}

func (f *fakeGateway) FetchChefs(ctx context.Context) ([]domain.Chef, error) { return f.chefs, nil }

func (f *fakeGateway) CreateChef(ctx context.Context, c domain.Chef) (domain.Chef, error) {
	c.ID = "C-1"
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeGateway) DeleteChef(ctx context.Context, id domain.ID) error { return nil }

func (f *fakeGateway) ReportStatistics(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"total":3}`), nil
}

func (f *fakeGateway) ReportPreview(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (f *fakeGateway) DownloadReport(ctx context.Context, format string) (*gateway.Report, error) {
	return f.report, nil
}

func (f *fakeGateway) FetchFeedback(ctx context.Context) ([]domain.Feedback, error) {
	return f.feedback, f.feedbackErr
}

type fakeRefresher struct{ calls int }

func (r *fakeRefresher) Refresh(ctx context.Context) error { r.calls++; return nil }
