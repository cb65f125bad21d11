package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestObserveStageIncrementsCounterAndHistogram(t *testing.T) {
	m := NewStageMetrics()

	before := testutil.ToFloat64(stageTotal.WithLabelValues(string(legislature.StatusProcessing), "success"))
	m.ObserveStage(legislature.StatusProcessing, "CA", "debate-1", "success", 750*time.Millisecond)
	after := testutil.ToFloat64(stageTotal.WithLabelValues(string(legislature.StatusProcessing), "success"))

	assert.Equal(t, before+1, after)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(stageDuration, "pipeline_stage_duration_seconds"), 1)
}

func TestHandlerServesPrometheusExposition(t *testing.T) {
	m := NewStageMetrics()
	m.ObserveStage(legislature.StatusPublishing, "ON", "debate-2", "error", time.Second)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "pipeline_stage_total")
}
