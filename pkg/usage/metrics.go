package usage

import (
	"github.com/prometheus/client_golang/prometheus"
)

const prometheusMetricNamespace = "usage_metering"

var (
	credentialsProcessedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: prometheusMetricNamespace,
			Name:      "credentials_processed_total",
			Help:      "Number of usage plan credentials processed, by outcome.",
		},
		[]string{"outcome"},
	)

	previousLookupsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: prometheusMetricNamespace,
			Name:      "previous_lookups_total",
			Help:      "Number of previous cumulative value lookups, by status.",
		},
		[]string{"status"},
	)

	runDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: prometheusMetricNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a reconciliation run.",
			Buckets:   []float64{1.0, 10.0, 60.0, 300.0, 900.0},
		},
	)

	lastSuccessGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: prometheusMetricNamespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that processed every usage plan.",
		},
	)
)

func init() {
	prometheus.MustRegister(credentialsProcessedCounter)
	prometheus.MustRegister(previousLookupsCounter)
	prometheus.MustRegister(runDurationHistogram)
	prometheus.MustRegister(lastSuccessGauge)
}
