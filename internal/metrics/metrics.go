// Package metrics exposes Prometheus counters for HTTP traffic and the leave
// request lifecycle.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frahmantamala/leave-approval/internal/core/events"
)

const namespace = "leave_approval"

// Collector is the Prometheus-backed metrics sink.
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	requestsCreated  *prometheus.CounterVec
	decisions        *prometheus.CounterVec
	requestsDeleted  *prometheus.CounterVec
	employeeChanges  *prometheus.CounterVec
	rateLimitRejects *prometheus.CounterVec
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leave_requests_created_total",
			Help:      "Leave requests submitted, by leave type.",
		}, []string{"leave_type"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leave_decisions_total",
			Help:      "Approval decisions recorded, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		requestsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leave_requests_deleted_total",
			Help:      "Leave requests deleted, by status at deletion.",
		}, []string{"status"}),
		employeeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "employee_changes_total",
			Help:      "Employees created or deleted.",
		}, []string{"action"}),
		rateLimitRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by a rate limiter.",
		}, []string{"limiter"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.requestsCreated,
		c.decisions,
		c.requestsDeleted,
		c.employeeChanges,
		c.rateLimitRejects,
	)

	return c
}

// RecordHTTPRequest records one served request. route is the chi pattern,
// not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordRateLimited(limiter string) {
	c.rateLimitRejects.WithLabelValues(limiter).Inc()
}

// Subscribe hooks the lifecycle counters onto the event bus.
func (c *Collector) Subscribe(bus *events.EventBus) {
	for _, eventType := range events.AllEventTypes {
		bus.Subscribe(eventType, c.handleEvent)
	}
}

func (c *Collector) handleEvent(_ context.Context, event events.Event) error {
	switch e := event.(type) {
	case *events.RequestCreatedEvent:
		c.requestsCreated.WithLabelValues(e.LeaveType).Inc()
	case *events.RequestDecidedEvent:
		outcome := "rejected"
		if e.Approved {
			outcome = "approved"
		}
		c.decisions.WithLabelValues(e.Stage, outcome).Inc()
	case *events.RequestDeletedEvent:
		c.requestsDeleted.WithLabelValues(e.Status).Inc()
	case *events.EmployeeCreatedEvent:
		c.employeeChanges.WithLabelValues("created").Inc()
	case *events.EmployeeDeletedEvent:
		c.employeeChanges.WithLabelValues("deleted").Inc()
	}
	return nil
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
