package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/riogod/router-sub000/internal/errors"
	"github.com/riogod/router-sub000/pkg/events"
	"github.com/riogod/router-sub000/pkg/routetree"
)

// MetricsConfig configures the Prometheus metrics attachment.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "router").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for transition duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics attachment.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "router",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for one attachment.
type metrics struct {
	transitionsTotal   *prometheus.CounterVec
	transitionDuration *prometheus.HistogramVec
	transitionErrors   *prometheus.CounterVec
	redirectsTotal     prometheus.Counter
	cancellationsTotal prometheus.Counter

	mu     sync.Mutex
	starts map[int64]time.Time
}

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transitions_total",
			Help:        "Total number of route transitions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		transitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transition_duration_seconds",
			Help:        "Route transition duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		transitionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transition_errors_total",
			Help:        "Total number of failed route transitions by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),

		redirectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "redirects_total",
			Help:        "Total number of transitions committed through a redirect",
			ConstLabels: config.ConstLabels,
		}),

		cancellationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cancellations_total",
			Help:        "Total number of cancelled route transitions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus returns an attachment that records transition metrics.
//
// Metrics collected:
//   - router_transitions_total: Counter of transitions by route and status
//   - router_transition_duration_seconds: Histogram of transition duration
//   - router_transition_errors_total: Counter of failures by error code
//   - router_redirects_total: Counter of redirected transitions
//   - router_cancellations_total: Counter of cancelled transitions
//
// Example:
//
//	r := router.New(routes,
//	    router.WithAttachment(middleware.Prometheus(
//	        middleware.WithNamespace("myapp"),
//	    )),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) events.Attachment {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	m := initMetrics(config)
	m.starts = map[int64]time.Time{}

	return func(bus *events.Bus) func() {
		unsubs := []func(){
			bus.Subscribe(events.TransitionStart, func(p events.Payload) {
				m.markStart(stateID(p.ToState))
			}),
			bus.Subscribe(events.TransitionSuccess, func(p events.Payload) {
				route := stateRoute(p.ToState)
				m.transitionsTotal.WithLabelValues(route, "success").Inc()
				if d, ok := m.takeStart(stateID(p.ToState)); ok {
					m.transitionDuration.WithLabelValues(route).Observe(d.Seconds())
				}
				if p.ToState != nil && p.ToState.Meta != nil && p.ToState.Meta.Redirected {
					m.redirectsTotal.Inc()
				}
			}),
			bus.Subscribe(events.TransitionError, func(p events.Payload) {
				route := stateRoute(p.ToState)
				m.transitionsTotal.WithLabelValues(route, "error").Inc()
				m.transitionErrors.WithLabelValues(route, errorCode(p.Err)).Inc()
				m.takeStart(stateID(p.ToState))
			}),
			bus.Subscribe(events.TransitionCancel, func(p events.Payload) {
				m.transitionsTotal.WithLabelValues(stateRoute(p.ToState), "cancelled").Inc()
				m.cancellationsTotal.Inc()
				m.takeStart(stateID(p.ToState))
			}),
		}
		return func() {
			for _, unsub := range unsubs {
				unsub()
			}
		}
	}
}

func (m *metrics) markStart(id int64) {
	if id == 0 {
		return
	}
	m.mu.Lock()
	m.starts[id] = time.Now()
	m.mu.Unlock()
}

func (m *metrics) takeStart(id int64) (time.Duration, bool) {
	if id == 0 {
		return 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	start, ok := m.starts[id]
	if !ok {
		return 0, false
	}
	delete(m.starts, id)
	return time.Since(start), true
}

func stateRoute(s *routetree.State) string {
	if s == nil || s.Name == "" {
		return "unknown"
	}
	return s.Name
}

func stateID(s *routetree.State) int64 {
	if s == nil || s.Meta == nil {
		return 0
	}
	return s.Meta.ID
}

// errorCode returns the structured code of a transition error. Uncoded
// errors are bucketed as "internal" to keep label cardinality bounded.
func errorCode(err error) string {
	if err == nil {
		return "none"
	}
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return "internal"
}
