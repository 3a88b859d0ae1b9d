package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters exposed on the server's /metrics endpoint.
var (
	comparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "revx",
		Name:      "comparisons_total",
		Help:      "Completed comparison pipeline runs.",
	})

	comparisonsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "revx",
		Name:      "comparisons_failed_total",
		Help:      "Comparison runs rejected during schema validation or coercion.",
	})

	rowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "revx",
		Name:      "rows_processed_total",
		Help:      "Result rows validated and enriched.",
	})
)
