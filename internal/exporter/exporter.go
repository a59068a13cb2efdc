// Package exporter publishes dashboard state over HTTP: Prometheus metrics
// for every tracked series, the current display board as JSON, and a
// websocket stream of settled poll cycles.
package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pulsestation/pulse/internal/dashboard"
	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/logger"
	"github.com/pulsestation/pulse/internal/stats"
)

const namespace = "pulse"

// Board is the display state the exporter serves.
type Board interface {
	Snapshot() display.Update
}

// Exporter turns settled cycles into Prometheus metrics and websocket
// messages. It implements dashboard.Observer.
type Exporter struct {
	registry *prometheus.Registry
	board    Board
	hub      *Hub
	log      logger.Logger

	latest      *prometheus.GaugeVec
	average     *prometheus.GaugeVec
	limit       *prometheus.GaugeVec
	alert       *prometheus.GaugeVec
	samples     prometheus.Gauge
	cycles      *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
	requests    *prometheus.CounterVec
}

// New creates an exporter with its own registry.
func New(board Board, log logger.Logger) *Exporter {
	if log == nil {
		log = logger.Noop()
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Exporter{
		registry: reg,
		board:    board,
		hub:      NewHub(log),
		log:      log,

		latest: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "metric_value",
			Help:      "Latest sample of each tracked metric",
		}, []string{"metric"}),
		average: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "metric_window_average",
			Help:      "Trailing-window average of each averaged metric",
		}, []string{"metric"}),
		limit: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "metric_limit",
			Help:      "Limit in effect for each classified metric",
		}, []string{"metric"}),
		alert: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "metric_alert",
			Help:      "1 when the value exceeds its limit",
		}, []string{"metric", "value"}),
		samples: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_samples",
			Help:      "Number of samples in the last applied snapshot",
		}),
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Settled poll cycles by result",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of poll cycles",
			Buckets:   prometheus.DefBuckets,
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last applied cycle",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exporter_http_requests_total",
			Help:      "HTTP requests served by the exporter",
		}, []string{"method", "route", "status"}),
	}
}

// Registry returns the exporter's Prometheus registry.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// Hub returns the websocket hub.
func (e *Exporter) Hub() *Hub { return e.hub }

// CycleDone records a settled cycle.
func (e *Exporter) CycleDone(c dashboard.Cycle) {
	e.duration.Observe(c.Duration.Seconds())

	if !c.OK() {
		e.cycles.WithLabelValues(dashboard.Kind(c.Err)).Inc()
		e.hub.Broadcast(cycleMessage(c, nil))
		return
	}
	e.cycles.WithLabelValues("ok").Inc()
	e.lastSuccess.Set(float64(c.Started.Add(c.Duration).Unix()))
	e.samples.Set(float64(c.Snapshot.Len()))

	s := c.Summary
	for key, v := range s.Latest {
		e.latest.WithLabelValues(key).Set(v)
	}
	for key, v := range s.Averages {
		e.average.WithLabelValues(key).Set(v)
	}
	for key, v := range s.Limits {
		e.limit.WithLabelValues(key).Set(v)
	}
	for key, st := range s.Status {
		e.alert.WithLabelValues(key, "current").Set(alertValue(st))
	}
	for key, st := range s.AverageStatus {
		e.alert.WithLabelValues(key, "average").Set(alertValue(st))
	}

	e.hub.Broadcast(cycleMessage(c, s.Display))
}

func alertValue(s stats.Status) float64 {
	if s == stats.StatusAlert {
		return 1
	}
	return 0
}
