package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jobscout"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	// CVRenders counts render attempts by outcome (ok, invalid, error).
	CVRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cv_renders_total", Help: "Number of CV render attempts by outcome."},
		[]string{"outcome"},
	)
	CVRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: namespace, Name: "cv_render_duration_seconds", Help: "Time spent laying out and encoding a CV.", Buckets: prometheus.ExponentialBuckets(0.001, 2, 12)},
	)
	CVPages = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: namespace, Name: "cv_pages", Help: "Page count of rendered CVs.", Buckets: []float64{1, 2, 3, 4, 6, 10}},
	)
	MailDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "mail_deliveries_total", Help: "Number of CV emails by outcome."},
		[]string{"outcome"},
	)
	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "job_search_requests_total", Help: "Number of job search requests by source (upstream, cache) and outcome."},
		[]string{"source", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(CVRenders)
	reg.MustRegister(CVRenderDuration)
	reg.MustRegister(CVPages)
	reg.MustRegister(MailDeliveries)
	reg.MustRegister(SearchRequests)
}
