package metrics

import "github.com/prometheus/client_golang/prometheus"

// Translation outcomes.
const (
	ResultOK           = "ok"
	ResultInvalidField = "invalid_field"
	ResultTypeMismatch = "type_mismatch"
	ResultError        = "error"
)

// Search Prometheus metrics.
var (
	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "criteria",
			Name:      "translations_total",
			Help:      "Filter-to-predicate translations by outcome",
		},
		[]string{"entity", "result"},
	)

	PredicateConditions = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "criteria",
			Name:      "predicate_conditions",
			Help:      "Number of conditions in successfully built predicate sets",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 16, 32},
		},
		[]string{"entity"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "criteria",
			Name:      "query_duration_seconds",
			Help:      "Predicate query execution time in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"entity"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(TranslationsTotal)
	prometheus.MustRegister(PredicateConditions)
	prometheus.MustRegister(QueryDuration)
	searchMetricsRegistered = true
}
