package pipeline

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// pipelineMetrics holds the Prometheus instruments the orchestrator
// updates at every stage boundary. Grounded on kraklabs-cie's
// pkg/ingestion/metrics.go: a package-level, once-registered struct
// rather than per-Pipeline instances, so repeated Pipeline construction
// in tests doesn't attempt double registration.
type pipelineMetrics struct {
	once sync.Once

	progress      *prometheus.GaugeVec
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
}

var metrics pipelineMetrics

func (m *pipelineMetrics) init() {
	m.once.Do(func() {
		m.progress = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "codewiki_pipeline_progress",
			Help: "Current 0-100 progress of a wiki document's generation run.",
		}, []string{"document_id"})

		m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codewiki_pipeline_stage_seconds",
			Help:    "Wall-clock duration of one pipeline stage across all of its attempts.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"})

		m.stageFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codewiki_pipeline_stage_failures_total",
			Help: "Stages that failed after their final attempt.",
		}, []string{"stage"})

		prometheus.MustRegister(m.progress, m.stageDuration, m.stageFailures)
	})
}

func recordProgress(documentID string, percent int) {
	metrics.init()
	metrics.progress.WithLabelValues(documentID).Set(float64(percent))
}

func recordStageDuration(stage string, seconds float64) {
	metrics.init()
	metrics.stageDuration.WithLabelValues(stage).Observe(seconds)
}

func recordStageFailure(stage string) {
	metrics.init()
	metrics.stageFailures.WithLabelValues(stage).Inc()
}
