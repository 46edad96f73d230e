package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Card processing metrics.
var (
	ScanFieldsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_fields_total",
			Help:      "Contact fields recognized in scanned cards",
		},
		[]string{"field"},
	)

	ScanLines = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_lines",
			Help:      "Non-empty OCR lines per scanned card",
			Buckets:   []float64{1, 2, 4, 6, 8, 12, 16, 24, 32},
		},
	)

	ResolverDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_decisions_total",
			Help:      "Duplicate resolver outcomes on save",
		},
		[]string{"action"}, // create / update_existing / reject_duplicate / conflict
	)

	LockWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_duration_seconds",
			Help:      "Time spent acquiring the per-user save lock",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)

var scanMetricsRegistered bool

// RegisterScanMetrics registers card processing metrics. Must be called once from main.
func RegisterScanMetrics() {
	if scanMetricsRegistered {
		return
	}
	prometheus.MustRegister(ScanFieldsTotal)
	prometheus.MustRegister(ScanLines)
	prometheus.MustRegister(ResolverDecisionsTotal)
	prometheus.MustRegister(LockWaitDuration)
	scanMetricsRegistered = true
}
