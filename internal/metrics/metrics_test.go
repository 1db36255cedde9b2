package metrics_test

import (
	"testing"

	"fulfillment/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()

	require.NotPanics(t, func() { metrics.Register(reg) })

	metrics.EscrowAwaitingRelease.Set(3)
	metrics.PaymentCallsTotal.WithLabelValues("submit", metrics.ResultOK).Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "escrow_awaiting_release")
	assert.Contains(t, names, "payment_gateway_calls_total")
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.EscrowAwaitingRelease), 0)

	assert.Panics(t, func() { metrics.Register(reg) }, "collectors register once per registry")
}
