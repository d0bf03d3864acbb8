package metrics

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "document_manager"

// Metrics exposes Prometheus collectors for storage and pipeline activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	storageOps     *prometheus.CounterVec
	storageLatency *prometheus.HistogramVec
	events         *prometheus.CounterVec
	renderDuration prometheus.Histogram
	deliveries     *prometheus.CounterVec
}

// MustNewMetrics constructs and registers the collectors on reg. A collector
// that is already registered is reused, so repeated construction against the
// same registry is safe.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		storageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Document store operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		storageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_duration_seconds",
			Help:      "Latency of document store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "events_total",
			Help:      "Appointment result events by outcome.",
		}, []string{"outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering appointment reports.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broker",
			Name:      "deliveries_total",
			Help:      "Broker deliveries by settlement (ack, requeue, drop).",
		}, []string{"settlement"}),
	}

	m.storageOps = register(reg, m.storageOps)
	m.storageLatency = register(reg, m.storageLatency)
	m.events = register(reg, m.events)
	m.renderDuration = register(reg, m.renderDuration)
	m.deliveries = register(reg, m.deliveries)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveStorage records one store operation.
func (m *Metrics) ObserveStorage(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.storageOps.WithLabelValues(op, outcome).Inc()
	m.storageLatency.WithLabelValues(op).Observe(d.Seconds())
}

// IncEvent counts one pipeline outcome.
func (m *Metrics) IncEvent(outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(outcome).Inc()
}

// ObserveRender records the duration of one render.
func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

// IncDelivery counts one broker settlement.
func (m *Metrics) IncDelivery(settlement string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(settlement).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) fiber.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
