package metrics_test

import (
	"strings"
	"testing"

	"github.com/nikolayk812/checkout-demo/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := metrics.New(reg)

	m.Callbacks.WithLabelValues(metrics.OutcomeConfirmed).Inc()
	m.Callbacks.WithLabelValues(metrics.OutcomeReplay).Add(2)

	expected := `
# HELP checkout_callbacks_total Gateway callbacks by outcome.
# TYPE checkout_callbacks_total counter
checkout_callbacks_total{outcome="confirmed"} 1
checkout_callbacks_total{outcome="replay"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "checkout_callbacks_total"))
}

func TestNop_IsUsable(t *testing.T) {
	m := metrics.Nop()

	m.PaymentsInitiated.WithLabelValues(metrics.ResultOK).Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(m.PaymentsInitiated.WithLabelValues(metrics.ResultOK)), 0)
}
