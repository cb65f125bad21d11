package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(legislature.StatusPublished))
	assert.True(t, IsTerminal(legislature.StatusError))
	assert.False(t, IsTerminal(legislature.StatusDetected))
	assert.False(t, IsTerminal(legislature.StatusProcessing))
}

func TestHasStage(t *testing.T) {
	assert.True(t, HasStage(legislature.StatusProcessing))
	assert.True(t, HasStage(legislature.StatusPublishing))
	assert.False(t, HasStage(legislature.StatusDetected), "detected carries no work of its own")
	assert.False(t, HasStage(legislature.StatusPublished))
}
