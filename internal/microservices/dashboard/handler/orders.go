package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/metrics"
	"restaurant-dashboard/internal/microservices/dashboard/service"
	"restaurant-dashboard/internal/store"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type OrderHandler struct {
	service service.OrderServiceInterface
	orders  *store.Store
	log     *logger.Logger
}

func NewOrderHandler(s service.OrderServiceInterface, orders *store.Store, log *logger.Logger) *OrderHandler {
	return &OrderHandler{service: s, orders: orders, log: log}
}

func viewQuery(c *gin.Context) (store.Filter, store.Sort, bool) {
	cat, err := store.ParseCategory(c.Query("category"))
	if err != nil {
		writeProblem(c, http.StatusBadRequest, "bad_request", err.Error())
		return store.Filter{}, "", false
	}
	by, err := store.ParseSort(c.Query("sort"))
	if err != nil {
		writeProblem(c, http.StatusBadRequest, "bad_request", err.Error())
		return store.Filter{}, "", false
	}
	return store.Filter{Category: cat, Search: c.Query("search")}, by, true
}

func (h *OrderHandler) List(c *gin.Context) {
	f, by, ok := viewQuery(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, h.service.List(c.Request.Context(), f, by))
}

func (h *OrderHandler) Summary(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.service.Summary(c.Request.Context()))
}

func (h *OrderHandler) Dashboard(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.service.Dashboard(c.Request.Context()))
}

func (h *OrderHandler) Refresh(c *gin.Context) {
	f, by, ok := viewQuery(c)
	if !ok {
		return
	}
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.service.List(c.Request.Context(), f, by))
}

// statusBody sets the flag to Value; an empty body toggles it.
type statusBody struct {
	Value *bool `json:"value"`
}

func (h *OrderHandler) SetServing(c *gin.Context) {
	h.setStatus(c, h.service.SetServing)
}

func (h *OrderHandler) SetPayment(c *gin.Context) {
	h.setStatus(c, h.service.SetPayment)
}

func (h *OrderHandler) setStatus(c *gin.Context, set func(ctx context.Context, id domain.ID, v *bool) (domain.Order, error)) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		badBody(c, err)
		return
	}
	o, err := set(c.Request.Context(), domain.ID(c.Param("id")), body.Value)
	if err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

type streamFrame struct {
	Version uint64          `json:"version"`
	Stats   store.Aggregate `json:"stats"`
	Orders  []domain.Order  `json:"orders"`
}

// Stream pushes the derived order view every time the store changes.
// Query parameters are the same as for List.
func (h *OrderHandler) Stream(c *gin.Context) {
	f, by, ok := viewQuery(c)
	if !ok {
		return
	}
	log := requestLogger(c, h.log)
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("stream_upgrade_failed", map[string]any{"reason": err.Error()})
		return
	}
	defer ws.Close()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	changed, cancel := h.orders.Subscribe()
	defer cancel()

	// The reader only notices the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	var sent uint64
	send := func() error {
		v := h.service.List(c.Request.Context(), f, by)
		if sent != 0 && v.Version == sent {
			return nil
		}
		sent = v.Version
		_ = ws.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return ws.WriteJSON(streamFrame{Version: v.Version, Stats: v.Stats, Orders: v.Orders})
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-gone:
			return
		case <-changed:
			if err := send(); err != nil {
				log.Debug("stream_write_failed", map[string]any{"reason": err.Error()})
				return
			}
		case <-ping.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}
