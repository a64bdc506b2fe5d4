package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the client. A nil *Collector is
// valid and records nothing, which is how metrics are disabled.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Gateway metrics
	GatewayOperations *prometheus.CounterVec
	GatewayDuration   *prometheus.HistogramVec
	BreakerState      *prometheus.GaugeVec

	// Business metrics
	SessionTransitions *prometheus.CounterVec
	LikesToggled       *prometheus.CounterVec
	PromptsCreated     prometheus.Counter
	ViewsRecorded      *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		GatewayOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_operations_total",
				Help:      "Total number of remote gateway calls",
			},
			[]string{"operation", "table", "status"},
		),
		GatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_operation_duration_seconds",
				Help:      "Remote gateway call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gateway_breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
		SessionTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_transitions_total",
				Help:      "Session state transitions by target state",
			},
			[]string{"to"},
		),
		LikesToggled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prompt_likes_toggled_total",
				Help:      "Like toggles by direction",
			},
			[]string{"direction"},
		),
		PromptsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prompts_created_total",
				Help:      "Total number of prompts created",
			},
		),
		ViewsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prompt_views_recorded_total",
				Help:      "View counter increments by outcome",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.GatewayOperations,
		c.GatewayDuration,
		c.BreakerState,
		c.SessionTransitions,
		c.LikesToggled,
		c.PromptsCreated,
		c.ViewsRecorded,
	)
	return c
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordGatewayOperation(operation, table string, d time.Duration, err error) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.GatewayOperations.WithLabelValues(operation, table, status).Inc()
	c.GatewayDuration.WithLabelValues(operation, table).Observe(d.Seconds())
}

func (c *Collector) SetBreakerState(name string, state int) {
	if c == nil {
		return
	}
	c.BreakerState.WithLabelValues(name).Set(float64(state))
}

func (c *Collector) RecordSessionTransition(to string) {
	if c == nil {
		return
	}
	c.SessionTransitions.WithLabelValues(to).Inc()
}

func (c *Collector) RecordLikeToggle(liked bool) {
	if c == nil {
		return
	}
	direction := "unlike"
	if liked {
		direction = "like"
	}
	c.LikesToggled.WithLabelValues(direction).Inc()
}

func (c *Collector) RecordPromptCreated() {
	if c == nil {
		return
	}
	c.PromptsCreated.Inc()
}

func (c *Collector) RecordView(err error) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.ViewsRecorded.WithLabelValues(status).Inc()
}
