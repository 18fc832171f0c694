package channel

import (
	"context"
	"fmt"
	"time"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/connections/database"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGNotify receives order events sent with pg_notify on one channel.
type PGNotify struct {
	Config  config.DatabaseConfig
	Channel string
	Log     *logger.Logger
}

func (p *PGNotify) Name() string { return "postgres" }

type notificationWaiter interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
}

func (p *PGNotify) Run(ctx context.Context, sink Sink) error {
	conn, err := database.Connect(ctx, p.Config)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if err := database.Listen(ctx, conn, p.Channel); err != nil {
		return err
	}
	return p.listen(ctx, conn, sink)
}

func (p *PGNotify) listen(ctx context.Context, w notificationWaiter, sink Sink) error {
	sink.Connected()
	for {
		n, err := w.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("wait for notification on %s: %w", p.Channel, err)
		}
		ev, err := DecodeEnvelope([]byte(n.Payload), time.Now())
		if err != nil {
			if p.Log != nil {
				p.Log.Warn("pg_event_skipped", map[string]any{"reason": err.Error(), "channel": n.Channel})
			}
			continue
		}
		sink.Event(ev)
	}
}
