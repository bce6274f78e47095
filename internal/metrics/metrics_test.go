package metrics_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/frahmantamala/leave-approval/internal/core/events"
	"github.com/frahmantamala/leave-approval/internal/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// counterValue sums every series of name whose labels include want.
func counterValue(reg *prometheus.Registry, name string, want map[string]string) float64 {
	families, err := reg.Gather()
	Expect(err).NotTo(HaveOccurred())

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			match := true
			for k, v := range want {
				if labels[k] != v {
					match = false
					break
				}
			}
			if match {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

var _ = Describe("Collector", func() {
	var (
		reg       *prometheus.Registry
		collector *metrics.Collector
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		collector = metrics.NewCollector(reg)
	})

	It("counts HTTP requests by route pattern", func() {
		collector.RecordHTTPRequest(http.MethodGet, "/api/v1/requests/{id}", 200, 10*time.Millisecond)
		collector.RecordHTTPRequest(http.MethodGet, "/api/v1/requests/{id}", 200, 20*time.Millisecond)
		collector.RecordHTTPRequest(http.MethodGet, "", 404, time.Millisecond)

		Expect(counterValue(reg, "leave_approval_http_requests_total",
			map[string]string{"route": "/api/v1/requests/{id}", "status_code": "200"})).To(Equal(2.0))
		Expect(counterValue(reg, "leave_approval_http_requests_total",
			map[string]string{"route": "unmatched"})).To(Equal(1.0))
	})

	It("counts rate-limit rejections", func() {
		collector.RecordRateLimited("login")
		Expect(counterValue(reg, "leave_approval_rate_limit_rejections_total",
			map[string]string{"limiter": "login"})).To(Equal(1.0))
	})

	It("follows lifecycle events from the bus", func() {
		bus := events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		collector.Subscribe(bus)
		ctx := context.Background()

		Expect(bus.PublishSync(ctx, events.NewRequestCreatedEvent(1, 3, 2, "annual"))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewRequestDecidedEvent(1, 2, "mid", true, "approved_by_mid", 1))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewRequestDecidedEvent(1, 1, "top", false, "rejected_by_top", 1))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewRequestDeletedEvent(1, 1, "rejected_by_top"))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewEmployeeCreatedEvent(4, "base", 1))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewEmployeeDeletedEvent(4, 1, 0, 0))).To(Succeed())

		Expect(counterValue(reg, "leave_approval_leave_requests_created_total", map[string]string{"leave_type": "annual"})).To(Equal(1.0))
		Expect(counterValue(reg, "leave_approval_leave_decisions_total", map[string]string{"stage": "mid", "outcome": "approved"})).To(Equal(1.0))
		Expect(counterValue(reg, "leave_approval_leave_decisions_total", map[string]string{"stage": "top", "outcome": "rejected"})).To(Equal(1.0))
		Expect(counterValue(reg, "leave_approval_leave_requests_deleted_total", nil)).To(Equal(1.0))
		Expect(counterValue(reg, "leave_approval_employee_changes_total", map[string]string{"action": "created"})).To(Equal(1.0))
		Expect(counterValue(reg, "leave_approval_employee_changes_total", map[string]string{"action": "deleted"})).To(Equal(1.0))
	})

	It("serves the scrape endpoint", func() {
		collector.RecordHTTPRequest(http.MethodPost, "/api/v1/auth/login", 200, time.Millisecond)

		rec := httptest.NewRecorder()
		metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("leave_approval_http_requests_total"))
	})
})
