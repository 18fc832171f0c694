package handler

import (
	"time"

	"github.com/ulule/limiter/v3"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/microservices/dashboard/service"
	"restaurant-dashboard/internal/store"
)

// Probe reports the live state shown by /health.
type Probe func() map[string]any

type Options struct {
	SessionTTL time.Duration
	// LoginRate is a ulule limiter rate such as "10-M".
	LoginRate string
	// LimiterStore holds the login counters; nil keeps them in memory.
	LimiterStore limiter.Store
	Probe        Probe
}

type Handler struct {
	AuthHandler     *AuthHandler
	OrderHandler    *OrderHandler
	DishHandler     *DishHandler
	TableHandler    *TableHandler
	ChefHandler     *ChefHandler
	StatsHandler    *StatsHandler
	FeedbackHandler *FeedbackHandler
	ReportHandler   *ReportHandler

	auth service.AuthServiceInterface
	log  *logger.Logger
	opts Options
}

func New(s *service.Service, orders *store.Store, log *logger.Logger, opts Options) *Handler {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &Handler{
		AuthHandler:     NewAuthHandler(s.AuthService, opts.SessionTTL),
		OrderHandler:    NewOrderHandler(s.OrderService, orders, log),
		DishHandler:     NewDishHandler(s.DishService),
		TableHandler:    NewTableHandler(s.TableService),
		ChefHandler:     NewChefHandler(s.ChefService),
		StatsHandler:    NewStatsHandler(s.StatsService),
		FeedbackHandler: NewFeedbackHandler(s.FeedbackService),
		ReportHandler:   NewReportHandler(s.ReportService),

		auth: s.AuthService,
		log:  log,
		opts: opts,
	}
}
