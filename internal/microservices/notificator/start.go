package notificator

import (
	"context"
	"io"
	"time"

	"restaurant-dashboard/internal/channel"
	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/microservices/notificator/service"
)

// Start prints every event src delivers to out until ctx ends.
func Start(ctx context.Context, src channel.Source, out io.Writer, log *logger.Logger, reconnectDelay time.Duration) error {
	ns := service.NewNotificatorService(out, log)
	return channel.NewManager(log, reconnectDelay).Run(ctx, src, ns)
}
