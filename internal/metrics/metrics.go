package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_order_events_total",
			Help: "order events received from the push channel, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	Resyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_resyncs_total",
			Help: "full order reloads, by result",
		},
		[]string{"result"},
	)
	ChannelConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_event_channel_connected",
			Help: "1 while the push channel is connected",
		},
	)
	GatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_gateway_request_duration_seconds",
			Help:    "latency of backend API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource", "status"},
	)
	StreamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_stream_clients",
			Help: "browser clients attached to the order stream",
		},
	)
)

var once sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(EventsApplied, Resyncs, ChannelConnected, GatewayDuration, StreamClients)
	})
}

// ObserveEvent records one event; applied is false when it referred to an unknown order.
func ObserveEvent(kind string, applied bool) {
	outcome := "applied"
	if !applied {
		outcome = "ignored"
	}
	EventsApplied.WithLabelValues(kind, outcome).Inc()
}

func ObserveResync(err error) {
	if err != nil {
		Resyncs.WithLabelValues("error").Inc()
		return
	}
	Resyncs.WithLabelValues("ok").Inc()
}

func ObserveGateway(method, resource string, status int, started time.Time) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	GatewayDuration.WithLabelValues(method, resource, code).Observe(time.Since(started).Seconds())
}

func SetConnected(up bool) {
	if up {
		ChannelConnected.Set(1)
		return
	}
	ChannelConnected.Set(0)
}
