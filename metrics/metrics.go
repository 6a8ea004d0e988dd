package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//go:generate mockgen -package=mock -source=metrics.go -destination=mock/metrics.go

type MetricsRecorder interface {
	RecordSelection(policy, keyID string)
	RecordSelectionError(policy, reason string)
	RecordDispatchAttempt(keyID, status string)
	IncrementRetries()
	UpdateKeyState(keyID, provider string, inFlight int64, failCount uint32)
	RecordConfigLoad(status string)
}

type NoopMetrics struct{}

func NewNoopMetrics() MetricsRecorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordSelection(policy, keyID string) {}

func (n *NoopMetrics) RecordSelectionError(policy, reason string) {}

func (n *NoopMetrics) RecordDispatchAttempt(keyID, status string) {}

func (n *NoopMetrics) IncrementRetries() {}

func (n *NoopMetrics) UpdateKeyState(keyID, provider string, inFlight int64, failCount uint32) {}

func (n *NoopMetrics) RecordConfigLoad(status string) {}

type PrometheusMetrics struct {
	selections       *prometheus.CounterVec
	selectionErrors  *prometheus.CounterVec
	dispatchAttempts *prometheus.CounterVec
	retries          prometheus.Counter
	keyInFlight      *prometheus.GaugeVec
	keyFailures      *prometheus.GaugeVec
	configLoads      *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorder {
	return &PrometheusMetrics{
		selections:       Selections,
		selectionErrors:  SelectionErrors,
		dispatchAttempts: DispatchAttempts,
		retries:          Retries,
		keyInFlight:      KeyInFlight,
		keyFailures:      KeyFailures,
		configLoads:      ConfigLoads,
	}
}

func (p *PrometheusMetrics) RecordSelection(policy, keyID string) {
	p.selections.WithLabelValues(policy, keyID).Inc()
}

func (p *PrometheusMetrics) RecordSelectionError(policy, reason string) {
	p.selectionErrors.WithLabelValues(policy, reason).Inc()
}

func (p *PrometheusMetrics) RecordDispatchAttempt(keyID, status string) {
	p.dispatchAttempts.WithLabelValues(keyID, status).Inc()
}

func (p *PrometheusMetrics) IncrementRetries() {
	p.retries.Inc()
}

func (p *PrometheusMetrics) UpdateKeyState(keyID, provider string, inFlight int64, failCount uint32) {
	p.keyInFlight.WithLabelValues(keyID, provider).Set(float64(inFlight))
	p.keyFailures.WithLabelValues(keyID, provider).Set(float64(failCount))
}

func (p *PrometheusMetrics) RecordConfigLoad(status string) {
	p.configLoads.WithLabelValues(status).Inc()
}

var (
	// Selections tracks keys handed out by the load balancer
	Selections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_key_selections_total",
		Help: "The total number of key selections",
	}, []string{"policy", "key_id"})

	// SelectionErrors tracks failed selections
	SelectionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_key_selection_errors_total",
		Help: "The total number of failed key selections",
	}, []string{"policy", "reason"}) // reason: "no_available_keys"

	// DispatchAttempts tracks upstream call attempts per key
	DispatchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_dispatch_attempts_total",
		Help: "The total number of upstream call attempts",
	}, []string{"key_id", "status"}) // status: "success", "error", "rate_limited", "unsupported_provider"

	// Retries tracks retried upstream calls
	Retries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatekeeper_dispatch_retries_total",
		Help: "The total number of upstream call retries",
	})

	KeyInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gatekeeper_key_in_flight",
		Help: "Upstream calls currently in flight per key",
	}, []string{"key_id", "provider"})

	KeyFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gatekeeper_key_failures",
		Help: "Failed upstream calls per key since startup",
	}, []string{"key_id", "provider"})

	// ConfigLoads tracks configuration loads
	ConfigLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_config_loads_total",
		Help: "The total number of configuration loads",
	}, []string{"status"}) // status: "success", "invalid"
)
