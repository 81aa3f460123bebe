package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })

	ProductOperations.WithLabelValues("create", ResultSuccess).Inc()
	require.GreaterOrEqual(t, testutil.ToFloat64(ProductOperations.WithLabelValues("create", ResultSuccess)), 1.0)

	// a second registration on the same registry is a programming error
	require.Panics(t, func() { RegisterCollectors(reg) })
}
