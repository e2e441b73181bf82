package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_submissions_total",
			Help: "Submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	gateDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_gate_denied_total",
			Help: "Submissions denied by the submission gate",
		},
		[]string{"kind", "reason"},
	)

	aiVerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_ai_verdicts_total",
			Help: "AI pre-screen verdicts",
		},
		[]string{"kind", "verdict"},
	)

	humanDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_human_decisions_total",
			Help: "Human moderation decisions",
		},
		[]string{"kind", "verdict"},
	)

	scorerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_scorer_calls_total",
			Help: "AI scorer attempts",
		},
		[]string{"status"},
	)

	scorerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moderation_scorer_duration_seconds",
			Help:    "AI scorer call duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	queueSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moderation_queue_size",
			Help: "Records waiting for a human decision",
		},
		[]string{"kind"},
	)

	effectFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_effect_failures_total",
			Help: "Failed post-transition side effects",
		},
		[]string{"effect"},
	)
)

func RecordSubmission(kind string, outcome string) {
	submissionsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordGateDenied(kind string, reason string) {
	gateDeniedTotal.WithLabelValues(kind, reason).Inc()
}

func RecordAIVerdict(kind string, verdict string) {
	aiVerdictsTotal.WithLabelValues(kind, verdict).Inc()
}

func RecordHumanDecision(kind string, approved bool) {
	verdict := "reject"
	if approved {
		verdict = "approve"
	}
	humanDecisionsTotal.WithLabelValues(kind, verdict).Inc()
}

// RecordScorerCall 单次评分尝试
func RecordScorerCall(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	scorerCallsTotal.WithLabelValues(status).Inc()
	scorerDuration.Observe(duration.Seconds())
}

func SetQueueSize(kind string, size int64) {
	queueSize.WithLabelValues(kind).Set(float64(size))
}

func RecordEffectFailure(effect string) {
	effectFailuresTotal.WithLabelValues(effect).Inc()
}
