package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/connections/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQP consumes order events that the backend publishes to a fanout exchange.
type AMQP struct {
	Config   rabbitmq.Config
	Exchange string
	Log      *logger.Logger
}

func (a *AMQP) Name() string { return "amqp" }

func (a *AMQP) Run(ctx context.Context, sink Sink) error {
	client, err := rabbitmq.Dial(a.Config)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer client.Close()

	msgs, err := client.SubscribeFanout(a.Exchange)
	if err != nil {
		return err
	}
	return a.consume(ctx, msgs, client.NotifyClose(), sink)
}

func (a *AMQP) consume(ctx context.Context, msgs <-chan amqp.Delivery, closed <-chan *amqp.Error, sink Sink) error {
	sink.Connected()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cerr, ok := <-closed:
			if ok && cerr != nil {
				return fmt.Errorf("rabbitmq connection closed: %w", cerr)
			}
			return errors.New("rabbitmq connection closed")
		case d, ok := <-msgs:
			if !ok {
				return errors.New("rabbitmq deliveries closed")
			}
			ev, err := DecodeEnvelope(d.Body, time.Now())
			if err != nil {
				if a.Log != nil {
					a.Log.Warn("amqp_event_skipped", map[string]any{"reason": err.Error(), "exchange": a.Exchange})
				}
				continue
			}
			sink.Event(ev)
		}
	}
}
