package reconciler

import (
	"context"
	"sync"
	"time"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/metrics"
	"restaurant-dashboard/internal/store"
)

const maxBuffered = 4096

type OrderFetcher interface {
	FetchOrders(ctx context.Context) ([]domain.Order, error)
}

// Reconciler keeps the order store equal to the last full fetch plus the
// events received since. Every (re)connect triggers a fresh fetch; events
// that arrive while it is in flight are held back and replayed after it.
type Reconciler struct {
	store      *store.Store
	fetch      OrderFetcher
	log        *logger.Logger
	retryDelay time.Duration

	syncMu sync.Mutex // one resync at a time

	mu        sync.Mutex
	buffering bool
	buffer    []domain.OrderEvent
	dropped   int
	lastSync  time.Time
	lastErr   error

	trigger chan struct{}
}

func New(s *store.Store, fetch OrderFetcher, log *logger.Logger, retryDelay time.Duration) *Reconciler {
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	return &Reconciler{
		store:      s,
		fetch:      fetch,
		log:        log,
		retryDelay: retryDelay,
		trigger:    make(chan struct{}, 1),
	}
}

// Connected starts holding events back and schedules a resync.
func (r *Reconciler) Connected() {
	r.mu.Lock()
	r.buffering = true
	r.mu.Unlock()
	r.schedule()
}

func (r *Reconciler) schedule() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Event applies ev now, or queues it while a resync is pending.
func (r *Reconciler) Event(ev domain.OrderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buffering {
		if len(r.buffer) >= maxBuffered {
			r.buffer = r.buffer[1:]
			r.dropped++
		}
		r.buffer = append(r.buffer, ev)
		return
	}
	r.apply(ev)
}

// Run performs the resyncs requested by Connected until ctx is done.
// A failed resync is retried after the retry delay.
func (r *Reconciler) Run(ctx context.Context) error {
	var retry <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.trigger:
		case <-retry:
		}
		retry = nil
		if err := r.resync(ctx); err != nil && ctx.Err() == nil {
			retry = time.After(r.retryDelay)
		}
	}
}

// Refresh is the manual reload; it goes through the same path as a reconnect.
func (r *Reconciler) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.buffering = true
	r.mu.Unlock()
	return r.Resync(ctx)
}

// Resync fetches every order, replaces the snapshot and replays the held
// events in arrival order. On failure the held events are kept and Run
// takes over the retries.
func (r *Reconciler) Resync(ctx context.Context) error {
	err := r.resync(ctx)
	if err != nil {
		r.schedule()
	}
	return err
}

func (r *Reconciler) resync(ctx context.Context) error {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	r.mu.Lock()
	r.buffering = true
	r.mu.Unlock()

	started := time.Now()
	orders, err := r.fetch.FetchOrders(ctx)
	metrics.ObserveResync(err)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.lastErr = err
		r.log.Error("orders_resync_failed", err, map[string]any{"buffered": len(r.buffer)})
		return err
	}

	r.store.ReplaceAll(orders)
	replayed := len(r.buffer)
	for _, ev := range r.buffer {
		r.apply(ev)
	}
	if r.dropped > 0 {
		r.log.Warn("orders_resync_buffer_overflow", map[string]any{"dropped": r.dropped})
	}
	r.buffer, r.dropped, r.buffering = nil, 0, false
	r.lastSync, r.lastErr = time.Now(), nil

	r.log.Info("orders_resynced", map[string]any{
		"orders":      len(orders),
		"replayed":    replayed,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return nil
}

// apply must be called with mu held.
func (r *Reconciler) apply(ev domain.OrderEvent) {
	applied := r.store.Apply(ev)
	metrics.ObserveEvent(string(ev.Kind), applied)
	fields := map[string]any{"order_id": ev.Target().String(), "applied": applied}
	switch ev.Kind {
	case domain.EventCreated, domain.EventDeleted:
		r.log.Info(ev.Kind.WireName(), fields)
	default:
		r.log.Debug(ev.Kind.WireName(), fields)
	}
}

type Status struct {
	Buffering bool      `json:"buffering"`
	Buffered  int       `json:"buffered"`
	LastSync  time.Time `json:"last_sync"`
	LastError string    `json:"last_error,omitempty"`
}

func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := Status{Buffering: r.buffering, Buffered: len(r.buffer), LastSync: r.lastSync}
	if r.lastErr != nil {
		st.LastError = r.lastErr.Error()
	}
	return st
}
