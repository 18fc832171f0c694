package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/session"
	"restaurant-dashboard/internal/store"
)

var (
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

// Gateway is the part of the backend client the services use.
type Gateway interface {
	Login(ctx context.Context, email, password string) (gateway.LoginResult, error)

	FetchOrders(ctx context.Context) ([]domain.Order, error)
	FetchOrder(ctx context.Context, id domain.ID) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id domain.ID, patch domain.StatusPatch) (*domain.Order, error)

	FetchDishes(ctx context.Context) ([]domain.Dish, error)
	CreateDish(ctx context.Context, d domain.Dish) (domain.Dish, error)
	UpdateDish(ctx context.Context, id domain.ID, d domain.Dish) (domain.Dish, error)
	DeleteDish(ctx context.Context, id domain.ID) error
	UploadDishImage(ctx context.Context, filename string, r io.Reader) (string, error)

	FetchTables(ctx context.Context) ([]domain.Table, error)
	FetchTable(ctx context.Context, no int) (domain.Table, error)
	UpdateTable(ctx context.Context, t domain.Table) error
	FetchCustomerByID(ctx context.Context, id domain.ID) (domain.Customer, error)

	FetchChefs(ctx context.Context) ([]domain.Chef, error)
	CreateChef(ctx context.Context, c domain.Chef) (domain.Chef, error)
	DeleteChef(ctx context.Context, id domain.ID) error

	ReportStatistics(ctx context.Context) (json.RawMessage, error)
	ReportPreview(ctx context.Context) (json.RawMessage, error)
	DownloadReport(ctx context.Context, format string) (*gateway.Report, error)

	FetchFeedback(ctx context.Context) ([]domain.Feedback, error)
}

// Refresher reloads the order snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Deps struct {
	Gateway    Gateway
	Orders     *store.Store
	Tables     *store.TableStore
	Dishes     *store.DishCatalog
	Reconciler Refresher
	Sessions   session.Store
	Log        *logger.Logger
	Now        func() time.Time
}

type Service struct {
	AuthService     AuthServiceInterface
	OrderService    OrderServiceInterface
	DishService     DishServiceInterface
	TableService    TableServiceInterface
	ChefService     ChefServiceInterface
	StatsService    StatsServiceInterface
	FeedbackService FeedbackServiceInterface
	ReportService   ReportServiceInterface
}

func New(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	dishes := NewDishService(d.Gateway, d.Dishes, d.Log)
	return &Service{
		AuthService:     NewAuthService(d.Gateway, d.Sessions, d.Log),
		OrderService:    NewOrderService(d.Gateway, d.Orders, d.Reconciler, dishes, d.Log),
		DishService:     dishes,
		TableService:    NewTableService(d.Gateway, d.Tables, d.Orders, d.Log),
		ChefService:     NewChefService(d.Gateway, d.Log),
		StatsService:    NewStatsService(d.Orders, dishes, d.Now),
		FeedbackService: NewFeedbackService(d.Gateway, d.Log, d.Now),
		ReportService:   NewReportService(d.Gateway),
	}
}

// require checks the caller's capability carried in ctx.
func require(ctx context.Context, can func(session.Session) bool) error {
	s, ok := session.FromContext(ctx)
	if !ok || !can(s) {
		return ErrForbidden
	}
	return nil
}
