package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg).(*PrometheusRecorder)

	rec.IncCounter(RouteTotal, map[string]string{"scheme": "wc"})
	rec.IncCounter(RouteTotal, map[string]string{"scheme": "wc"})
	rec.IncCounter(AlertTotal, map[string]string{"scheme": "ethereum", "action": "invalid_link"})
	rec.ObserveLatency(RouteLatency, 3*time.Millisecond, map[string]string{"scheme": "wc"})

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.counters.WithLabelValues(RouteTotal, "wc", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.counters.WithLabelValues(AlertTotal, "ethereum", "invalid_link")))

	n, err := testutil.GatherAndCount(reg, "walletlink_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
