package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	// Registering twice is harmless.
	require.NoError(t, Register(reg))

	ObserveReport("minimal")
	ObserveCapture(KindBacktrace)
	ObserveSkip(KindSpanTrace)

	n, err := testutil.GatherAndCount(reg,
		"report_reports_created_total",
		"report_context_captures_total",
		"report_context_captures_skipped_total",
	)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 3)
}

func TestObserve(t *testing.T) {
	before := testutil.ToFloat64(Captures.WithLabelValues(KindSpanTrace))
	ObserveCapture(KindSpanTrace)
	ObserveCapture(KindSpanTrace)
	assert.Equal(t, before+2, testutil.ToFloat64(Captures.WithLabelValues(KindSpanTrace)))
}
