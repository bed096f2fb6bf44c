// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_documents_processed_total",
			Help: "Total number of documents run through the pipeline",
		},
		[]string{"outcome"},
	)

	PipelineStageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_pipeline_stage_failures_total",
			Help: "Total number of stage failures by stage name",
		},
		[]string{"stage"},
	)

	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_model_call_duration_seconds",
			Help:    "Duration of vision model calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ChecklistCompleteness = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intake_checklist_completeness",
			Help:    "Overall checklist completeness computed per refresh",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_queue_depth",
			Help: "Number of document ids waiting on the processing queue",
		},
	)
)
