package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restaurant-dashboard/internal/common/logger"

	"github.com/gorilla/websocket"
)

// Engine.IO and Socket.IO packet types used by the client.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
	eioNoop    = '6'

	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioConnectError = '4'
)

// SocketIO is a Socket.IO v4 client over a plain websocket transport.
type SocketIO struct {
	URL    string
	Header http.Header
	Dialer *websocket.Dialer
	Log    *logger.Logger
}

func (s *SocketIO) Name() string { return "socketio" }

type openPacket struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

func (s *SocketIO) Run(ctx context.Context, sink Sink) error {
	endpoint, err := socketEndpoint(s.URL)
	if err != nil {
		return err
	}
	dialer := s.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, s.Header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	err = s.serve(conn, sink)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *SocketIO) serve(conn *websocket.Conn, sink Sink) error {
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read open packet: %w", err)
	}
	if len(msg) == 0 || msg[0] != eioOpen {
		return fmt.Errorf("unexpected first packet %q", msg)
	}
	var open openPacket
	if err := json.Unmarshal(msg[1:], &open); err != nil {
		return fmt.Errorf("decode open packet: %w", err)
	}
	deadline := time.Duration(open.PingInterval+open.PingTimeout) * time.Millisecond

	if err := conn.WriteMessage(websocket.TextMessage, []byte{eioMessage, sioConnect}); err != nil {
		return fmt.Errorf("namespace connect: %w", err)
	}

	for {
		if deadline > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(deadline))
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if len(msg) == 0 {
			continue
		}
		switch msg[0] {
		case eioPing:
			if err := conn.WriteMessage(websocket.TextMessage, []byte{eioPong}); err != nil {
				return fmt.Errorf("pong: %w", err)
			}
		case eioPong, eioNoop:
		case eioClose:
			return errors.New("server closed the connection")
		case eioMessage:
			if err := s.handleMessage(msg[1:], sink); err != nil {
				return err
			}
		}
	}
}

func (s *SocketIO) handleMessage(pkt []byte, sink Sink) error {
	if len(pkt) == 0 {
		return nil
	}
	body := skipNamespace(pkt[1:])
	switch pkt[0] {
	case sioConnect:
		sink.Connected()
	case sioDisconnect:
		return errors.New("namespace disconnected by server")
	case sioConnectError:
		return fmt.Errorf("connect error: %s", body)
	case sioEvent:
		name, payload, err := parseEventPacket(body)
		if err == nil {
			var ev Event
			if ev, err = Decode(name, payload, time.Now()); err == nil {
				sink.Event(ev)
				return nil
			}
		}
		if s.Log != nil {
			s.Log.Warn("socket_event_skipped", map[string]any{"packet": string(pkt), "reason": err.Error()})
		}
	}
	return nil
}

// skipNamespace drops an optional "/nsp," prefix and ack id.
func skipNamespace(b []byte) []byte {
	if len(b) > 0 && b[0] == '/' {
		i := 0
		for i < len(b) && b[i] != ',' {
			i++
		}
		if i == len(b) {
			return nil
		}
		b = b[i+1:]
	}
	for len(b) > 0 && b[0] >= '0' && b[0] <= '9' {
		b = b[1:]
	}
	return b
}

func parseEventPacket(b []byte) (string, json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return "", nil, err
	}
	if len(parts) == 0 {
		return "", nil, errors.New("empty event packet")
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, err
	}
	if len(parts) < 2 {
		return name, json.RawMessage("null"), nil
	}
	return name, parts[1], nil
}

// socketEndpoint turns an http(s) base URL into the Engine.IO websocket URL.
func socketEndpoint(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("socket url %q: %w", base, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("socket url %q: unsupported scheme", base)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/socket.io/"
	} else if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
