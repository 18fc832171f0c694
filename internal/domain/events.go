package domain

import (
	"strings"
	"time"
)

type EventKind string

const (
	EventCreated       EventKind = "created"
	EventUpdated       EventKind = "updated"
	EventStatusUpdated EventKind = "status_updated"
	EventDeleted       EventKind = "deleted"
)

const wirePrefix = "order_"

// WireName is the push channel event name, e.g. "order_status_updated".
func (k EventKind) WireName() string { return wirePrefix + string(k) }

// KindFromWire maps a push channel event name back to its kind.
func KindFromWire(name string) (EventKind, bool) {
	k := EventKind(strings.TrimPrefix(name, wirePrefix))
	switch k {
	case EventCreated, EventUpdated, EventStatusUpdated, EventDeleted:
		return k, strings.HasPrefix(name, wirePrefix)
	}
	return "", false
}

type StatusKind string

const (
	StatusServing StatusKind = "serving"
	StatusPayment StatusKind = "payment"
)

type StatusChange struct {
	OrderID ID         `json:"orderId"`
	Status  StatusKind `json:"status"`
	Value   bool       `json:"value"`
}

// OrderEvent is one order lifecycle event as delivered by the push channel.
// Order is set for created/updated, Change for status_updated, OrderID for deleted.
type OrderEvent struct {
	Kind       EventKind
	Order      Order
	Change     StatusChange
	OrderID    ID
	ReceivedAt time.Time
}

// Target returns the id of the order the event refers to.
func (e OrderEvent) Target() ID {
	switch e.Kind {
	case EventCreated, EventUpdated:
		return e.Order.ID
	case EventStatusUpdated:
		return e.Change.OrderID
	default:
		return e.OrderID
	}
}
