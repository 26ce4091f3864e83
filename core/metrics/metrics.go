package metrics

import (
	"errors"
	"time"

	"court-compare/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Comparison outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeSchemaError = "schema_error"
	OutcomeError       = "error"
)

var (
	// comparisonsTotal counts comparisons by outcome
	comparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "court_compare_comparisons_total",
		Help: "Total comparisons by outcome",
	}, []string{"outcome"})

	// rowsTotal counts classified rows by result table
	rowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "court_compare_rows_total",
		Help: "Total classified rows by result table",
	}, []string{"class"})

	// comparisonDuration tracks end-to-end comparison latency
	comparisonDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "court_compare_comparison_duration_seconds",
		Help:    "Comparison duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})
)

// ObserveComparison records one finished comparison.
func ObserveComparison(result *reconcile.Result, outcome string, elapsed time.Duration) {
	comparisonsTotal.WithLabelValues(outcome).Inc()
	comparisonDuration.Observe(elapsed.Seconds())
	if result == nil {
		return
	}
	summary := result.Summary()
	rowsTotal.WithLabelValues(string(reconcile.LabelAdded)).Add(float64(summary.Added))
	rowsTotal.WithLabelValues(string(reconcile.LabelRemoved)).Add(float64(summary.Removed))
	rowsTotal.WithLabelValues(string(reconcile.LabelUpdated)).Add(float64(summary.Updated))
}

// Outcome maps a comparison error to its outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, reconcile.ErrSchema):
		return OutcomeSchemaError
	default:
		return OutcomeError
	}
}
