package service

import (
	"fmt"
	"io"
	"sync"
	"time"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
)

// NotificatorService turns pushed order events into one printed line each,
// the terminal counterpart of the dashboard's toasts.
type NotificatorService struct {
	mu  sync.Mutex
	out io.Writer
	log *logger.Logger
}

func NewNotificatorService(out io.Writer, log *logger.Logger) *NotificatorService {
	return &NotificatorService{out: out, log: log}
}

func (ns *NotificatorService) Connected() {
	ns.print(time.Now(), "connected, watching for order events")
}

func (ns *NotificatorService) Event(ev domain.OrderEvent) {
	ns.log.Debug(ev.Kind.WireName(), map[string]any{"order_id": ev.Target().String()})
	ns.print(ev.ReceivedAt, Describe(ev))
}

func (ns *NotificatorService) print(at time.Time, msg string) {
	if at.IsZero() {
		at = time.Now()
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	fmt.Fprintf(ns.out, "%s  %s\n", at.Format(time.TimeOnly), msg)
}

// Describe renders an event as a short notification.
func Describe(ev domain.OrderEvent) string {
	switch ev.Kind {
	case domain.EventCreated:
		o := ev.Order
		return fmt.Sprintf("New order %s at table %d, %d item(s), amount %.2f", o.ID, o.TableNo, len(o.Dishes), o.Amount)
	case domain.EventUpdated:
		return fmt.Sprintf("Order %s updated", ev.Order.ID)
	case domain.EventStatusUpdated:
		ch := ev.Change
		switch ch.Status {
		case domain.StatusServing:
			return fmt.Sprintf("Order %s marked %s", ch.OrderID, pick(ch.Value, "served", "pending"))
		case domain.StatusPayment:
			return fmt.Sprintf("Order %s marked %s", ch.OrderID, pick(ch.Value, "paid", "unpaid"))
		}
		return fmt.Sprintf("Order %s status changed", ch.OrderID)
	case domain.EventDeleted:
		return fmt.Sprintf("Order %s deleted", ev.OrderID)
	}
	return fmt.Sprintf("Unknown event for order %s", ev.Target())
}

func pick(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
