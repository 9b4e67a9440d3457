package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookcurator_ui_requests_total",
		Help: "Total number of HTTP requests to the web UI",
	}, []string{"method", "route", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookcurator_ui_request_duration_seconds",
		Help:    "Duration of web UI requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	BackendCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookcurator_backend_calls_total",
		Help: "Calls to the recommendation backend by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	BackendCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookcurator_backend_call_duration_seconds",
		Help:    "Latency of recommendation backend calls",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
	}, []string{"endpoint"})

	UIAlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookcurator_ui_alerts_total",
		Help: "Validation alerts shown instead of a backend call",
	}, []string{"action"})
)
