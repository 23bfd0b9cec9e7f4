package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     prometheus.Histogram
	RequestsInFlight    prometheus.Gauge
	Workers             prometheus.Gauge
	ConnectionsAccepted *prometheus.CounterVec
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct. A custom registry keeps tests
// isolated from prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served, by status code.",
		}, []string{"code"}),

		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent serving a request, from routing to last byte written.",
			Buckets: prometheus.DefBuckets,
		}),

		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of requests currently being served.",
		}),

		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "server_workers",
			Help: "Configured number of acceptor workers.",
		}),

		ConnectionsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_connections_accepted_total",
			Help: "Connections accepted, by the worker that accepted them.",
		}, []string{"worker"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.Workers,
		m.ConnectionsAccepted,
	)

	return m
}

// RequestHooks returns the callbacks expected by middleware.Instrument.
// Keeps prometheus imports out of the middleware package.
func (m *Metrics) RequestHooks() (
	onStart func(),
	onDone func(status int, latency time.Duration),
) {
	onStart = func() {
		m.RequestsInFlight.Inc()
	}
	onDone = func(status int, latency time.Duration) {
		m.RequestsInFlight.Dec()
		m.RequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
		m.RequestDuration.Observe(latency.Seconds())
	}
	return
}

// OnAccept returns the callback expected by worker.Pool.
func (m *Metrics) OnAccept() func(workerID int) {
	return func(workerID int) {
		m.ConnectionsAccepted.WithLabelValues(strconv.Itoa(workerID)).Inc()
	}
}
