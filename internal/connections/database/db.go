package database

import (
	"context"
	"fmt"
	"time"

	"restaurant-dashboard/internal/config"

	"github.com/jackc/pgx/v5"
)

func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)
}

// Connect opens a dedicated connection, retrying until the server answers a ping.
// LISTEN needs one connection for its whole lifetime, so no pool is used.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgx.Conn, error) {
	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var (
		conn *pgx.Conn
		err  error
	)
	for i := 1; i <= maxRetries; i++ {
		conn, err = pgx.Connect(ctx, DSN(cfg))
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = conn.Ping(pctx)
			cancel()
			if err == nil {
				return conn, nil
			}
			_ = conn.Close(context.Background())
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

// Listen subscribes conn to a notification channel.
func Listen(ctx context.Context, conn *pgx.Conn, channel string) error {
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}
	return nil
}
