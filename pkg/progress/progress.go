package progress

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/outofforest/bedrock/pkg/install"
)

const subscriberBuffer = 64

// New creates a new hub distributing sequence events to subscribers and
// recording step metrics.
func New() *Hub {
	m, gatherer := newMetrics()
	return &Hub{
		metrics:  m,
		gatherer: gatherer,
		subs:     map[chan install.Event]struct{}{},
	}
}

// Hub fans sequence events out to the UI feed and the metrics registry.
type Hub struct {
	metrics  *metrics
	gatherer prometheus.Gatherer

	mu       sync.Mutex
	subs     map[chan install.Event]struct{}
	lastStep string
	lastAt   time.Time
}

// Report receives a sequence event. It is registered as a reporter on the
// install configuration.
func (h *Hub) Report(e install.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	if h.lastStep != "" {
		h.metrics.StepFinished(h.lastStep, now.Sub(h.lastAt))
	}
	h.lastStep = e.Step
	h.lastAt = now

	if e.Final {
		h.lastStep = ""
		h.metrics.Result(e.Code)
	} else {
		h.metrics.Step(e.Ordinal, e.Total)
	}

	for sub := range h.subs {
		// Slow subscribers miss events rather than stall the sequence.
		select {
		case sub <- e:
		default:
		}
	}
}

// Subscribe returns a channel receiving events and a function unsubscribing
// it.
func (h *Hub) Subscribe() (<-chan install.Event, func()) {
	sub := make(chan install.Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub, func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	}
}

// Gatherer returns the metric gatherer of the hub.
func (h *Hub) Gatherer() prometheus.Gatherer {
	return h.gatherer
}

func newMetrics() (*metrics, prometheus.Gatherer) {
	r := prometheus.NewRegistry()
	return &metrics{
		registry: r,
		ordinal: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Namespace: "bedrock",
			Name:      "step_ordinal",
			Help:      "Ordinal of the running step",
		}),
		total: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Namespace: "bedrock",
			Name:      "steps_total",
			Help:      "Number of steps in the sequence",
		}),
		result: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Namespace: "bedrock",
			Name:      "result_code",
			Help:      "Result code of the sequence, 0 success, 256 failure",
		}),
		duration: promauto.With(r).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bedrock",
			Name:      "step_duration_seconds",
			Help:      "Time spent in each step",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
		}, []string{"step"}),
	}, r
}

type metrics struct {
	registry *prometheus.Registry
	ordinal  prometheus.Gauge
	total    prometheus.Gauge
	result   prometheus.Gauge
	duration *prometheus.HistogramVec
}

func (m *metrics) Step(ordinal, total int) {
	m.ordinal.Set(float64(ordinal))
	m.total.Set(float64(total))
}

func (m *metrics) StepFinished(step string, took time.Duration) {
	m.duration.WithLabelValues(step).Observe(took.Seconds())
}

func (m *metrics) Result(code int) {
	m.result.Set(float64(code))
}
