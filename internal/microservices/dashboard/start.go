package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"golang.org/x/sync/errgroup"

	"restaurant-dashboard/internal/channel"
	"restaurant-dashboard/internal/common/httpx"
	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/connections/rabbitmq"
	"restaurant-dashboard/internal/connections/redis"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/metrics"
	"restaurant-dashboard/internal/microservices/dashboard/handler"
	"restaurant-dashboard/internal/microservices/dashboard/service"
	"restaurant-dashboard/internal/reconciler"
	"restaurant-dashboard/internal/session"
	"restaurant-dashboard/internal/store"
)

const sessionSweepEvery = 10 * time.Minute

// NewGateway builds the backend client from the api section.
func NewGateway(cfg *config.Config) *gateway.Client {
	return gateway.New(gateway.Config{
		BaseURL:      cfg.API.BaseURL,
		Tenant:       cfg.API.Tenant,
		Timeout:      cfg.API.Timeout,
		ServiceToken: cfg.API.ServiceToken,
	})
}

// NewSource picks the push transport named in the events section.
func NewSource(cfg *config.Config, log *logger.Logger) (channel.Source, error) {
	switch cfg.Events.Transport {
	case config.TransportSocketIO:
		hdr := http.Header{}
		if cfg.API.ServiceToken != "" {
			hdr.Set("Authorization", "Bearer "+cfg.API.ServiceToken)
		}
		return &channel.SocketIO{URL: cfg.SocketURL(), Header: hdr, Log: log}, nil
	case config.TransportAMQP:
		rc := cfg.RabbitMQ
		return &channel.AMQP{
			Config:   rabbitmq.Config{Host: rc.Host, Port: rc.Port, User: rc.User, Password: rc.Password, VHost: rc.VHost, UseTLS: rc.TLS},
			Exchange: cfg.Events.Exchange,
			Log:      log,
		}, nil
	case config.TransportPostgres:
		return &channel.PGNotify{Config: cfg.Database, Channel: cfg.Events.Channel, Log: log}, nil
	}
	return nil, fmt.Errorf("unknown event transport %q", cfg.Events.Transport)
}

// NewSessionStore returns the session store named in http.session_store and,
// for redis, a limiter store sharing the same server. The closer releases
// the connection.
func NewSessionStore(ctx context.Context, cfg *config.Config) (session.Store, limiter.Store, func(), error) {
	if cfg.HTTP.SessionStore != config.SessionStoreRedis {
		return session.NewRegistry(cfg.HTTP.SessionTTL), nil, func() {}, nil
	}
	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	limits, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "dashboard_login"})
	if err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("login limiter store: %w", err)
	}
	closer := func() { _ = client.Close() }
	return session.NewRedisStore(client, cfg.HTTP.SessionTTL), limits, closer, nil
}

// Run serves the dashboard API and keeps the order view live until ctx ends.
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	metrics.Init()

	gw := NewGateway(cfg)
	src, err := NewSource(cfg, log)
	if err != nil {
		return err
	}

	orders := store.New()
	rec := reconciler.New(orders, gw, log, cfg.Events.ReconnectDelay)
	mgr := channel.NewManager(log, cfg.Events.ReconnectDelay)
	sessions, limits, closeSessions, err := NewSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	svc := service.New(service.Deps{
		Gateway:    gw,
		Orders:     orders,
		Tables:     store.NewTableStore(),
		Dishes:     store.NewDishCatalog(),
		Reconciler: rec,
		Sessions:   sessions,
		Log:        log,
	})
	h := handler.New(svc, orders, log, handler.Options{
		SessionTTL:   cfg.HTTP.SessionTTL,
		LoginRate:    cfg.HTTP.LoginRate,
		LimiterStore: limits,
		Probe: func() map[string]any {
			return map[string]any{
				"transport": src.Name(),
				"connected": mgr.Connected(),
				"orders":    orders.Len(),
				"sync":      rec.Status(),
			}
		},
	})
	router, err := handler.Router(h)
	if err != nil {
		return err
	}
	srv := httpx.New(":"+strconv.Itoa(cfg.HTTP.Port), router)

	log.Info("service_started", map[string]any{"port": cfg.HTTP.Port, "transport": src.Name(), "tenant": cfg.API.Tenant, "sessions": cfg.HTTP.SessionStore})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return rec.Run(ctx) })
	g.Go(func() error {
		// First paint; failures are logged and retried on the next connect.
		_ = rec.Refresh(ctx)
		return nil
	})
	g.Go(func() error { return mgr.Run(ctx, src, rec) })
	g.Go(func() error {
		t := time.NewTicker(sessionSweepEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if n := sessions.Sweep(); n > 0 {
					log.Debug("sessions_expired", map[string]any{"count": n})
				}
			}
		}
	})
	err = g.Wait()
	log.Info("service_stopped", nil)
	return err
}
