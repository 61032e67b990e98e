package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	chatRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "medassist_chat_requests_total",
		Help: "Chat requests by outcome (ok/emergency/booking/error)",
	}, []string{"outcome"})

	severityTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "medassist_severity_total",
		Help: "Reply severity labels",
	}, []string{"level"})

	emergencyTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "medassist_emergency_total",
		Help: "Messages that tripped the emergency short-circuit",
	})

	llmLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medassist_llm_request_seconds",
		Help:    "Latency of upstream completion calls",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
	}, []string{"provider"})

	llmErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "medassist_llm_errors_total",
		Help: "Upstream completion failures",
	}, []string{"provider"})

	retrieverLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medassist_retrieval_seconds",
		Help:    "Latency of retriever calls",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"type"})

	retrievalTopScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "medassist_retrieval_top_score",
		Help:    "Top-1 similarity score per retrieval",
		Buckets: []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 0.99, 1.0},
	})

	reportsAnalyzed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "medassist_reports_analyzed_total",
		Help: "Medical reports processed by the analysis pipeline",
	})

	reviewsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "medassist_reviews_submitted_total",
		Help: "Explanations queued for doctor review",
	})

	outboundLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medassist_outbound_request_seconds",
		Help:    "Latency of outbound HTTP requests by host",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
	}, []string{"host", "status"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medassist_http_request_seconds",
		Help:    "Inbound HTTP request latency",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
	}, []string{"route", "method", "status"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(
			chatRequests, severityTotal, emergencyTotal, llmLatency,
			llmErrors, retrieverLatency, retrievalTopScore, reportsAnalyzed,
			reviewsSubmitted, outboundLatency, httpLatency,
		)
	})
}

// IncChat counts a chat request outcome.
func IncChat(outcome string) {
	ensureRegistered()
	chatRequests.WithLabelValues(outcome).Inc()
}

// IncSeverity counts a severity label assigned to a reply.
func IncSeverity(level string) {
	ensureRegistered()
	severityTotal.WithLabelValues(level).Inc()
}

// IncEmergency counts a message that tripped the emergency short-circuit.
func IncEmergency() {
	ensureRegistered()
	emergencyTotal.Inc()
}

// ObserveLLM records one upstream completion call.
func ObserveLLM(provider string, start time.Time, err error) {
	ensureRegistered()
	llmLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		llmErrors.WithLabelValues(provider).Inc()
	}
}

// ObserveRetriever records latency for a retriever type.
func ObserveRetriever(typ string, start time.Time) {
	ensureRegistered()
	retrieverLatency.WithLabelValues(typ).Observe(time.Since(start).Seconds())
}

// ObserveTopScore records the best similarity score of a retrieval.
func ObserveTopScore(score float64) {
	ensureRegistered()
	if score >= 0 {
		retrievalTopScore.Observe(score)
	}
}

// IncReportAnalyzed counts a processed report.
func IncReportAnalyzed() {
	ensureRegistered()
	reportsAnalyzed.Inc()
}

// IncReviewSubmitted counts an explanation queued for doctor review.
func IncReviewSubmitted() {
	ensureRegistered()
	reviewsSubmitted.Inc()
}

// ObserveOutbound records an outbound HTTP request; status 0 means a
// transport error before any response.
func ObserveOutbound(host string, status int, seconds float64) {
	ensureRegistered()
	outboundLatency.WithLabelValues(host, strconv.Itoa(status)).Observe(seconds)
}

// ObserveHTTP records one handled inbound request.
func ObserveHTTP(route, method string, status int, seconds float64) {
	ensureRegistered()
	httpLatency.WithLabelValues(route, method, strconv.Itoa(status)).Observe(seconds)
}

// Collectors exposes all collectors for registration with a custom registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		chatRequests, severityTotal, emergencyTotal, llmLatency,
		llmErrors, retrieverLatency, retrievalTopScore, reportsAnalyzed,
		reviewsSubmitted, outboundLatency, httpLatency,
	}
}
