package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/prompt"
)

func TestLoadRegistersAllBundledPrompts(t *testing.T) {
	require.NoError(t, Load())

	en, err := prompt.Get().GetSystemPrompt("summarize.en")
	require.NoError(t, err)
	assert.Contains(t, en, "civic engagement summarizer")

	fr, err := prompt.Get().GetSystemPrompt("summarize.fr")
	require.NoError(t, err)
	assert.Contains(t, fr, "résumeur d'engagement civique")

	topics, err := prompt.Get().GetSystemPrompt("categorize.topics")
	require.NoError(t, err)
	assert.Contains(t, topics, "parliamentary debate classifier")
}

func TestLoadIsIdempotent(t *testing.T) {
	require.NoError(t, Load())
	require.NoError(t, Load())
}
