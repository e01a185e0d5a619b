package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insightx_queries_total",
			Help: "Total number of answered questions by handler route",
		},
		[]string{"route"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insightx_query_duration_seconds",
			Help:    "Duration of question answering in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"route"},
	)

	RebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insightx_rebuilds_total",
			Help: "Total number of knowledge base rebuilds by outcome",
		},
		[]string{"source", "outcome"},
	)

	RebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "insightx_rebuild_duration_seconds",
			Help: "Duration of knowledge base rebuilds in seconds",
		},
	)

	KnowledgeRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insightx_knowledge_rows",
			Help: "Number of transactions in the active knowledge base",
		},
	)

	SkippedDimensions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insightx_skipped_dimensions",
			Help: "Number of dimensions skipped in the active knowledge base",
		},
	)
)
