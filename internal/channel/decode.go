package channel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-dashboard/internal/domain"
)

type Event = domain.OrderEvent

// Envelope is how the broker and database transports frame an event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func DecodeEnvelope(b []byte, now time.Time) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Event{}, fmt.Errorf("decode envelope: %w", err)
	}
	return Decode(env.Event, env.Data, now)
}

// Decode turns a named push payload into an order event.
func Decode(name string, payload json.RawMessage, now time.Time) (Event, error) {
	kind, ok := domain.KindFromWire(name)
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	ev := Event{Kind: kind, ReceivedAt: now}
	switch kind {
	case domain.EventCreated, domain.EventUpdated:
		if err := json.Unmarshal(payload, &ev.Order); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", name, err)
		}
		if ev.Order.ID == "" {
			return Event{}, fmt.Errorf("decode %s: order without id", name)
		}
	case domain.EventStatusUpdated:
		if err := json.Unmarshal(payload, &ev.Change); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", name, err)
		}
		if ev.Change.Status != domain.StatusServing && ev.Change.Status != domain.StatusPayment {
			return Event{}, fmt.Errorf("decode %s: unknown status %q", name, ev.Change.Status)
		}
	case domain.EventDeleted:
		id, err := decodeDeletedID(payload)
		if err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", name, err)
		}
		ev.OrderID = id
	}
	return ev, nil
}

// decodeDeletedID accepts a bare id or an object carrying it.
func decodeDeletedID(payload json.RawMessage) (domain.ID, error) {
	p := bytes.TrimSpace(payload)
	if len(p) > 0 && p[0] == '{' {
		var obj struct {
			OrderID  domain.ID `json:"orderId"`
			WireID   domain.ID `json:"Order Id"`
			Fallback domain.ID `json:"id"`
		}
		if err := json.Unmarshal(p, &obj); err != nil {
			return "", err
		}
		for _, id := range []domain.ID{obj.OrderID, obj.WireID, obj.Fallback} {
			if id != "" {
				return id, nil
			}
		}
		return "", fmt.Errorf("no order id in %s", p)
	}
	var id domain.ID
	if err := json.Unmarshal(p, &id); err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("empty order id")
	}
	return id, nil
}
