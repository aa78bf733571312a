// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"net/http"

	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "cliquepay"

// Recorder holds every collector and the registry they are registered on.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	expensesCreated  *prometheus.CounterVec
	paymentsRecorded prometheus.Counter
	amountApplied    prometheus.Counter
	amountLeftover   prometheus.Counter
}

var _ portssvc.MetricsRecorder = (*Recorder)(nil)

// NewRecorder creates a Recorder on a fresh registry that also carries the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		expensesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_created_total",
			Help:      "Expenses created by scope.",
		}, []string{"scope"}),
		paymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Payments recorded.",
		}),
		amountApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_amount_applied_total",
			Help:      "Money applied to outstanding splits.",
		}),
		amountLeftover: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_amount_leftover_total",
			Help:      "Money paid beyond what was owed.",
		}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpLatency,
		r.expensesCreated,
		r.paymentsRecorded,
		r.amountApplied,
		r.amountLeftover,
	)
	return r
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request.
func (r *Recorder) ObserveHTTP(route, method, status string, seconds float64) {
	r.httpRequests.WithLabelValues(route, method, status).Inc()
	r.httpLatency.WithLabelValues(route, method).Observe(seconds)
}

func (r *Recorder) ExpenseCreated(scope string) {
	r.expensesCreated.WithLabelValues(scope).Inc()
}

// PaymentRecorded counts a payment and the amounts it moved.
func (r *Recorder) PaymentRecorded(applied, leftover decimal.Decimal) {
	r.paymentsRecorded.Inc()
	r.amountApplied.Add(applied.InexactFloat64())
	r.amountLeftover.Add(leftover.InexactFloat64())
}
