package pipeline

import (
	"time"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// defaultMaxRetries bounds the number of attempts a stage gets before the
// debate moves to the error terminal state.
const defaultMaxRetries = 3

const defaultBackoff = 60 * time.Second

// stageBackoff overrides the default retry delay for stages known to be
// slower or to hit flakier upstreams.
var stageBackoff = map[legislature.Status]time.Duration{
	legislature.StatusTranscribing:    120 * time.Second,
	legislature.StatusScrapingHansard: 120 * time.Second,
}

// BackoffFor returns the delay a worker should wait before redelivering a
// stage's retry, per the fixed per-stage backoff table.
func BackoffFor(status legislature.Status) time.Duration {
	if d, ok := stageBackoff[status]; ok {
		return d
	}
	return defaultBackoff
}
