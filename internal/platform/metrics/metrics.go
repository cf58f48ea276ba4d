package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the process metrics on a private registry.
type Collector struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	decisions    *prometheus.CounterVec
	unknownRoles *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tikidan_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tikidan_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tikidan_authz_decisions_total",
			Help: "Authorization gate decisions by gate and outcome.",
		}, []string{"gate", "outcome"}),
		unknownRoles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tikidan_unknown_role_total",
			Help: "Permission resolutions that fell back because the stored role is not registered.",
		}, []string{"role"}),
	}
	c.registry.MustRegister(
		c.requests, c.duration, c.decisions, c.unknownRoles,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Record(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Decision counts one gate outcome, e.g. ("role", "forbidden").
func (c *Collector) Decision(gate, outcome string) {
	c.decisions.WithLabelValues(gate, outcome).Inc()
}

func (c *Collector) UnknownRole(role string) {
	c.unknownRoles.WithLabelValues(role).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
