package channel

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/metrics"

	"golang.org/x/time/rate"
)

// Manager keeps at most one live connection and reconnects after drops,
// no faster than once per reconnect delay.
type Manager struct {
	log   *logger.Logger
	delay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	connected atomic.Bool
	attempts  atomic.Int64
}

func NewManager(log *logger.Logger, reconnectDelay time.Duration) *Manager {
	if reconnectDelay <= 0 {
		reconnectDelay = 2 * time.Second
	}
	return &Manager{log: log, delay: reconnectDelay}
}

// Start connects src in the background. A connection started earlier is
// closed and fully stopped before the new one is dialed. Concurrent calls
// are serialized so only the last one stays running.
func (m *Manager) Start(ctx context.Context, src Source, sink Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel, m.done = cancel, done
	go m.loop(runCtx, src, sink, done)
}

// Stop closes the current connection, if any, and waits for it to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel, m.done = nil, nil
}

// Run starts src and blocks until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, src Source, sink Sink) error {
	m.Start(ctx, src, sink)
	<-ctx.Done()
	m.Stop()
	return nil
}

func (m *Manager) Connected() bool { return m.connected.Load() }

// Attempts counts connection attempts since creation.
func (m *Manager) Attempts() int64 { return m.attempts.Load() }

func (m *Manager) loop(ctx context.Context, src Source, sink Sink, done chan struct{}) {
	defer close(done)
	limiter := rate.NewLimiter(rate.Every(m.delay), 1)
	tracked := SinkFuncs{
		OnConnected: func() {
			m.connected.Store(true)
			metrics.SetConnected(true)
			m.log.Info("event_channel_connected", map[string]any{"transport": src.Name()})
			sink.Connected()
		},
		OnEvent: sink.Event,
	}

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		m.attempts.Add(1)
		err := src.Run(ctx, tracked)
		m.connected.Store(false)
		metrics.SetConnected(false)
		if ctx.Err() != nil {
			return
		}
		m.log.Error("event_channel_disconnected", err, map[string]any{"transport": src.Name()})
	}
}
