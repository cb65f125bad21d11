// Package observability supplies the pipeline's Prometheus instrumentation
// and structured stage-transition logging, the way the richer example
// repos expose a labelled counter/histogram pair per subsystem through
// promauto instead of hand-rolled counters.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/logging"
)

var (
	stageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_total",
			Help: "Total number of pipeline stage attempts, by stage and outcome.",
		},
		[]string{"stage", "outcome"},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stage attempts in seconds, by stage.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s .. ~17m
		},
		[]string{"stage"},
	)
)

// StageMetrics implements pipeline.Metrics: every call increments the
// counter and records the histogram observation, then logs one structured
// transition line carrying the fields an operator would grep for.
type StageMetrics struct{}

// NewStageMetrics returns a ready-to-use StageMetrics. There is no state to
// construct; the Prometheus collectors are process-global, registered once
// via promauto at package init.
func NewStageMetrics() StageMetrics {
	return StageMetrics{}
}

// ObserveStage satisfies pipeline.Metrics.
func (StageMetrics) ObserveStage(stage legislature.Status, legislatureCode, debateID, outcome string, elapsed time.Duration) {
	stageTotal.WithLabelValues(string(stage), outcome).Inc()
	stageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())

	logging.Infof("pipeline", "stage=%s debate_id=%s legislature_code=%s outcome=%s duration_ms=%d",
		stage, debateID, legislatureCode, outcome, elapsed.Milliseconds())
}

// Handler serves the process's metrics in the Prometheus text exposition
// format, for mounting at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
