package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestBackoffFor(t *testing.T) {
	assert.Equal(t, 120*time.Second, BackoffFor(legislature.StatusTranscribing))
	assert.Equal(t, 120*time.Second, BackoffFor(legislature.StatusScrapingHansard))
	assert.Equal(t, defaultBackoff, BackoffFor(legislature.StatusProcessing))
	assert.Equal(t, defaultBackoff, BackoffFor(legislature.StatusIngesting))
}
