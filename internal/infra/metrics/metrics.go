package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	inboundMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnel_inbound_messages_total",
			Help: "Total number of inbound messages processed by the funnel engine",
		},
	)

	stageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_stage_transitions_total",
			Help: "Total number of lead stage transitions",
		},
		[]string{"from", "to"},
	)

	flowsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnel_flows_started_total",
			Help: "Total number of automated flows dispatched",
		},
	)

	flowStepsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnel_flow_steps_sent_total",
			Help: "Total number of flow steps delivered",
		},
	)

	generatorFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnel_generator_fallbacks_total",
			Help: "Total number of replies replaced by the fallback text after a generator failure",
		},
	)

	quotaBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_quota_blocks_total",
			Help: "Total number of operations halted by an exhausted quota",
		},
		[]string{"origin"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

func RecordInboundMessage() {
	inboundMessages.Inc()
}

func RecordStageTransition(from, to string) {
	stageTransitions.WithLabelValues(from, to).Inc()
}

func RecordFlowStarted() {
	flowsStarted.Inc()
}

func RecordFlowStepSent() {
	flowStepsSent.Inc()
}

func RecordGeneratorFallback() {
	generatorFallbacks.Inc()
}

// RecordQuotaBlock: origin é "inbound" ou "flow".
func RecordQuotaBlock(origin string) {
	quotaBlocks.WithLabelValues(origin).Inc()
}

// RecordIntegrationError: service é "gemini", "whatsapp" ou "mail".
func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
