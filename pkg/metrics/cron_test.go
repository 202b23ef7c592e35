package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.IncSuccess("balance-reconcile")
	m.IncSuccess("balance-reconcile")
	m.IncFailure("balance-reconcile")
	m.ObserveDuration("balance-reconcile", 250*time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(m.success.WithLabelValues("balance-reconcile")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.failure.WithLabelValues("balance-reconcile")))
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	assert.NotPanics(t, func() {
		m.IncSuccess("x")
		m.IncFailure("x")
		m.ObserveDuration("x", time.Second)
	})

	empty := NewCronJobMetrics(nil)
	assert.NotPanics(t, func() {
		empty.IncSuccess("")
	})
}

func TestLedgerMetricsRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.IncTransition("delivered")
	m.IncTransition("delivered")
	m.IncSettlement("merchant_payout")

	require.Equal(t, float64(2), testutil.ToFloat64(m.transitions.WithLabelValues("delivered")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.settlements.WithLabelValues("merchant_payout")))

	var nilMetrics *LedgerMetrics
	assert.NotPanics(t, func() {
		nilMetrics.IncTransition("delivered")
		nilMetrics.IncSettlement("")
	})
}
