// Package metrics exposes prometheus collectors for the site.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LeadMetrics counts lead submissions and times the remote insert.
type LeadMetrics struct {
	submissions   *prometheus.CounterVec
	insertLatency *prometheus.HistogramVec
}

// NewLeadMetrics registers the lead collectors on reg (default registerer when nil).
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "muafin",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead form submissions by outcome and request type",
		}, []string{"outcome", "request_type"}),
		insertLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "muafin",
			Subsystem: "leads",
			Name:      "insert_duration_seconds",
			Help:      "Latency of the remote lead insert",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.insertLatency)
	return m
}

// ObserveSubmission counts one submission
func (m *LeadMetrics) ObserveSubmission(outcome, requestType string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome, requestType).Inc()
}

// ObserveInsert records how long the remote insert took
func (m *LeadMetrics) ObserveInsert(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.insertLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

// HTTPMetrics counts requests and their latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP collectors on reg (default registerer when nil).
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "muafin",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "muafin",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// ObserveRequest records one served request
func (m *HTTPMetrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}
