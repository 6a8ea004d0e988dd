package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()

	// These should not panic
	m.RecordSelection("ROUND_ROBIN", "k1")
	m.RecordSelectionError("ROUND_ROBIN", "no_available_keys")
	m.RecordDispatchAttempt("k1", "success")
	m.IncrementRetries()
	m.UpdateKeyState("k1", "openai", 3, 1)
	m.RecordConfigLoad("success")
}

func newTestMetrics(reg *prometheus.Registry) *PrometheusMetrics {
	m := &PrometheusMetrics{
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "test_selections_total", Help: "Test selections",
		}, []string{"policy", "key_id"}),
		selectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "test_selection_errors_total", Help: "Test selection errors",
		}, []string{"policy", "reason"}),
		dispatchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "test_dispatch_attempts_total", Help: "Test dispatch attempts",
		}, []string{"key_id", "status"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "test_dispatch_retries_total", Help: "Test retries",
		}),
		keyInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "test_key_in_flight", Help: "Test in flight",
		}, []string{"key_id", "provider"}),
		keyFailures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "test_key_failures", Help: "Test failures",
		}, []string{"key_id", "provider"}),
		configLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "test_config_loads_total", Help: "Test config loads",
		}, []string{"status"}),
	}

	reg.MustRegister(m.selections, m.selectionErrors, m.dispatchAttempts,
		m.retries, m.keyInFlight, m.keyFailures, m.configLoads)

	return m
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newTestMetrics(reg)

	m.RecordSelection("ROUND_ROBIN", "k1")
	m.RecordSelection("ROUND_ROBIN", "k1")
	m.RecordSelection("ROUND_ROBIN", "k2")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.selections.WithLabelValues("ROUND_ROBIN", "k1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.selections.WithLabelValues("ROUND_ROBIN", "k2")))

	m.RecordSelectionError("LEAST_PENDING", "no_available_keys")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.selectionErrors.WithLabelValues("LEAST_PENDING", "no_available_keys")))

	m.RecordDispatchAttempt("k1", "error")
	m.RecordDispatchAttempt("k1", "success")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dispatchAttempts.WithLabelValues("k1", "error")))

	m.IncrementRetries()
	m.IncrementRetries()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.retries))

	m.UpdateKeyState("k1", "openai", 4, 2)
	m.UpdateKeyState("k1", "openai", 1, 3)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.keyInFlight.WithLabelValues("k1", "openai")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.keyFailures.WithLabelValues("k1", "openai")))

	m.RecordConfigLoad("invalid")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.configLoads.WithLabelValues("invalid")))
}

func TestNewPrometheusMetricsUsesGlobals(t *testing.T) {
	m, ok := NewPrometheusMetrics().(*PrometheusMetrics)
	assert.True(t, ok)

	before := testutil.ToFloat64(Retries)
	m.IncrementRetries()
	assert.Equal(t, before+1, testutil.ToFloat64(Retries))
}
