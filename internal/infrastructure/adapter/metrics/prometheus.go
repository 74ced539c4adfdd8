package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	portmetrics "github.com/zazzles-app/credit-ledger/internal/domain/port/metrics"
)

const namespace = "zazzles"

// PrometheusRecorder exports ledger counters and HTTP request metrics
type PrometheusRecorder struct {
	registry *prometheus.Registry

	creditsDeducted     prometheus.Counter
	deductions          prometheus.Counter
	insufficientCredits prometheus.Counter
	creditsPurchased    prometheus.Counter
	topUpAttempts       *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

var _ portmetrics.Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder creates the collectors on a dedicated registry,
// together with the Go runtime and process collectors
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	r := &PrometheusRecorder{
		registry: registry,
		creditsDeducted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_deducted_total",
			Help:      "Credits consumed by successful deductions.",
		}),
		deductions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deductions_total",
			Help:      "Successful deductions.",
		}),
		insufficientCredits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_insufficient_total",
			Help:      "Deductions and checks refused for lack of credits.",
		}),
		creditsPurchased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_purchased_total",
			Help:      "Credits added by purchases and auto-top-ups.",
		}),
		topUpAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_top_up_attempts_total",
			Help:      "Auto-top-up evaluations by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.creditsDeducted,
		r.deductions,
		r.insufficientCredits,
		r.creditsPurchased,
		r.topUpAttempts,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Registerer exposes the registry to other collectors such as the database metrics
func (r *PrometheusRecorder) Registerer() prometheus.Registerer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// CreditsDeducted implements metrics.Recorder
func (r *PrometheusRecorder) CreditsDeducted(amount int) {
	r.deductions.Inc()
	r.creditsDeducted.Add(float64(amount))
}

// InsufficientCredits implements metrics.Recorder
func (r *PrometheusRecorder) InsufficientCredits() {
	r.insufficientCredits.Inc()
}

// TopUpAttempt implements metrics.Recorder
func (r *PrometheusRecorder) TopUpAttempt(outcome string) {
	r.topUpAttempts.WithLabelValues(outcome).Inc()
}

// CreditsPurchased implements metrics.Recorder
func (r *PrometheusRecorder) CreditsPurchased(amount int) {
	r.creditsPurchased.Add(float64(amount))
}

// ObserveRequest records one served HTTP request
func (r *PrometheusRecorder) ObserveRequest(route, method string, status int, seconds float64) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(seconds)
}
