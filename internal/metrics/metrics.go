// Package metrics collects Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OTP lifecycle outcomes
const (
	OTPIssued          = "issued"
	OTPResent          = "resent"
	OTPVerified        = "verified"
	OTPRejected        = "rejected"
	OTPDeliveryFailure = "delivery_failure"
)

// Recorder is what services and middleware write to.
type Recorder interface {
	RecordOTP(outcome, channel string)
	RecordIntakeUpsert(created bool)
	RecordIntakeDuplicateRetry()
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
}

type Collector struct {
	otpEvents        *prometheus.CounterVec
	intakeUpserts    *prometheus.CounterVec
	duplicateRetries prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		otpEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartcoach_otp_events_total",
			Help: "OTP lifecycle events by outcome and channel",
		}, []string{"outcome", "channel"}),
		intakeUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartcoach_intake_upserts_total",
			Help: "Daily intake writes by operation",
		}, []string{"op"}),
		duplicateRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heartcoach_intake_duplicate_retries_total",
			Help: "Concurrent first writes retried as updates",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartcoach_http_requests_total",
			Help: "HTTP responses by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heartcoach_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.otpEvents,
		c.intakeUpserts,
		c.duplicateRetries,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordOTP(outcome, channel string) {
	c.otpEvents.WithLabelValues(outcome, channel).Inc()
}

func (c *Collector) RecordIntakeUpsert(created bool) {
	op := "updated"
	if created {
		op = "created"
	}
	c.intakeUpserts.WithLabelValues(op).Inc()
}

func (c *Collector) RecordIntakeDuplicateRetry() {
	c.duplicateRetries.Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordOTP(string, string)                             {}
func (Nop) RecordIntakeUpsert(bool)                              {}
func (Nop) RecordIntakeDuplicateRetry()                          {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
