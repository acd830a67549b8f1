package services

import "github.com/prometheus/client_golang/prometheus"

var (
	documentsNormalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "report_documents_normalized_total",
			Help: "Total number of report documents normalized.",
		},
	)
	metricFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_metric_fallbacks_total",
			Help: "Metric fields that were not parsed from structured fields, by field.",
		},
		[]string{"field"},
	)
	pipelineFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_pipeline_failures_total",
			Help: "Failed fetch/normalize runs, by error kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(documentsNormalized, metricFallbacks, pipelineFailures)
}
