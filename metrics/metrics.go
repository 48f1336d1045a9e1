// Package metrics exposes Prometheus counters describing how error reports
// are built: how many reports each handler produced and how many stack or
// span traces were captured.
//
// The counters are always updated; they only become visible once Register
// is called with a registry.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "report"

// Capture kinds.
const (
	KindBacktrace = "backtrace"
	KindSpanTrace = "spantrace"
)

var (
	// Reports counts reports created, by handler name.
	Reports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_created_total",
			Help:      "Total number of error reports created, by handler.",
		},
		[]string{"handler"},
	)

	// Captures counts auxiliary context captures, by kind.
	Captures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_captures_total",
			Help:      "Total number of stack or span traces captured for error reports.",
		},
		[]string{"kind"},
	)

	// Skipped counts captures skipped because the cause chain already
	// carried the same kind of trace.
	Skipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_captures_skipped_total",
			Help:      "Total number of captures skipped because a cause already carried one.",
		},
		[]string{"kind"},
	)
)

// Register adds all collectors to reg. Collectors that are already
// registered are ignored.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{Reports, Captures, Skipped} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveReport records a report created by handler.
func ObserveReport(handler string) {
	Reports.WithLabelValues(handler).Inc()
}

// ObserveCapture records a capture of the given kind.
func ObserveCapture(kind string) {
	Captures.WithLabelValues(kind).Inc()
}

// ObserveSkip records a capture that was not needed.
func ObserveSkip(kind string) {
	Skipped.WithLabelValues(kind).Inc()
}
