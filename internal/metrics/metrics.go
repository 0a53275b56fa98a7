package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ScoringFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_scoring_fallbacks_total",
			Help: "Total number of lead scores computed locally because the backend could not be used",
		},
		[]string{"reason"},
	)

	RemindersScheduled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_reminders_scheduled",
			Help: "Number of reminder timers currently pending",
		},
	)

	RemindersDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_reminders_dispatched_total",
			Help: "Total number of reminder deliveries by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	ChangeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_change_events_total",
			Help: "Total number of change feed events handled",
		},
		[]string{"table", "outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_cache_lookups_total",
			Help: "Total number of list cache lookups by table and result",
		},
		[]string{"table", "result"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_upstream_requests_total",
			Help: "Total number of calls to the backend service and generative text API",
		},
		[]string{"service", "outcome"},
	)
)
