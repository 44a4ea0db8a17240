package observability

import (
	"errors"
	"time"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one model graph and its bus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	mutations     *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	published     prometheus.Counter
	dropped       prometheus.Counter
	subscribers   prometheus.Gauge
	nodes         prometheus.Gauge
	queryDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swerve",
				Name:      "mutations_total",
				Help:      "Accepted model graph mutations by kind",
			},
			[]string{"kind"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swerve",
				Name:      "rejections_total",
				Help:      "Rejected model graph operations by reason",
			},
			[]string{"reason"},
		),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swerve",
			Name:      "bus_events_published_total",
			Help:      "Change events handed to subscriber queues",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swerve",
			Name:      "bus_events_dropped_total",
			Help:      "Change events dropped from full subscriber queues",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swerve",
			Name:      "bus_subscribers",
			Help:      "Currently registered change bus subscribers",
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swerve",
			Name:      "graph_nodes",
			Help:      "Active nodes in the model graph",
		}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swerve",
			Name:      "transform_query_duration_seconds",
			Help:      "Latency of transform_between queries",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.mutations, m.rejections, m.published, m.dropped, m.subscribers, m.nodes, m.queryDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Reason maps an error to a stable, low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return "duplicate_identity"
	case errors.Is(err, domain.ErrUnknownIdentity):
		return "unknown_identity"
	case errors.Is(err, domain.ErrInvalidIdentity):
		return "invalid_identity"
	case errors.Is(err, domain.ErrUnknownParent):
		return "unknown_parent"
	case errors.Is(err, domain.ErrHasChildren):
		return "has_children"
	case errors.Is(err, domain.ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, domain.ErrDisconnected):
		return "disconnected"
	case errors.Is(err, domain.ErrNotJointed):
		return "not_jointed"
	case errors.Is(err, domain.ErrInvalidTransform):
		return "invalid_transform"
	case errors.Is(err, domain.ErrInternalInvariant):
		return "internal_invariant"
	}
	return "other"
}

func (m *Metrics) MutationApplied(kind domain.ChangeKind) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) MutationRejected(err error) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(Reason(err)).Inc()
}

func (m *Metrics) EventPublished() {
	if m == nil {
		return
	}
	m.published.Inc()
}

func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}

func (m *Metrics) SetNodes(n int) {
	if m == nil {
		return
	}
	m.nodes.Set(float64(n))
}

func (m *Metrics) ObserveQuery(d time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.Observe(d.Seconds())
}
