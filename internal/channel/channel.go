package channel

import (
	"context"
	"errors"
)

// ErrUnknownEvent is returned for push events that are not order lifecycle events.
var ErrUnknownEvent = errors.New("channel: unknown event")

// Sink receives what a Source delivers. Connected is called once per
// connection, before any event of that connection.
type Sink interface {
	Connected()
	Event(ev Event)
}

// Source maintains one push connection. Run blocks until the connection
// drops or ctx is cancelled.
type Source interface {
	Name() string
	Run(ctx context.Context, sink Sink) error
}

// SinkFuncs adapts plain functions to Sink.
type SinkFuncs struct {
	OnConnected func()
	OnEvent     func(Event)
}

func (s SinkFuncs) Connected() {
	if s.OnConnected != nil {
		s.OnConnected()
	}
}

func (s SinkFuncs) Event(ev Event) {
	if s.OnEvent != nil {
		s.OnEvent(ev)
	}
}
