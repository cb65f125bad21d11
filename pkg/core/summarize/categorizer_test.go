package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestKeywordClassifyScoresMatchedTopics(t *testing.T) {
	summary := legislature.Summary{SummaryText: "The debate focused on hospital funding and doctor shortages."}
	scores := keywordClassify(nil, summary, nil)

	require.Contains(t, scores, "healthcare")
	assert.Greater(t, scores["healthcare"], 0.0)
	assert.NotContains(t, scores, "housing")
}

func TestKeywordClassifyCombinesTranscriptsAndContributions(t *testing.T) {
	transcripts := []legislature.Transcript{{RawText: "we must address climate change and emissions"}}
	contributions := []legislature.Contribution{{Text: "renewable energy investment is overdue"}}

	scores := keywordClassify(transcripts, legislature.Summary{}, contributions)

	assert.Contains(t, scores, "climate")
}

func TestMergeClassificationsFallsBackToGeneral(t *testing.T) {
	categories := mergeClassifications("debate-1", map[string]float64{}, nil)

	require.Len(t, categories, 1)
	assert.Equal(t, "general", categories[0].TopicSlug)
	assert.True(t, categories[0].IsPrimary)
}

func TestMergeClassificationsRanksAndCapsAtThree(t *testing.T) {
	keywordScores := map[string]float64{
		"healthcare": 1.0,
		"economy":    0.9,
		"housing":    0.8,
		"climate":    0.7,
	}

	categories := mergeClassifications("debate-1", keywordScores, nil)

	require.Len(t, categories, 3)
	assert.Equal(t, "healthcare", categories[0].TopicSlug)
	assert.True(t, categories[0].IsPrimary)
	for _, c := range categories[1:] {
		assert.False(t, c.IsPrimary)
	}
}

func TestMergeClassificationsCombinesKeywordAndLLMWeights(t *testing.T) {
	keywordScores := map[string]float64{"healthcare": 1.0}
	llmCategories := []llmCategory{{TopicSlug: "healthcare", Confidence: 1.0}}

	categories := mergeClassifications("debate-1", keywordScores, llmCategories)

	require.Len(t, categories, 1)
	assert.InDelta(t, keywordWeight+llmWeight, categories[0].Confidence, 0.001)
}

func TestMergeClassificationsDropsBelowThreshold(t *testing.T) {
	categories := mergeClassifications("debate-1", map[string]float64{"housing": 0.01}, nil)

	require.Len(t, categories, 1)
	assert.Equal(t, "general", categories[0].TopicSlug, "a score below threshold should fall back to general")
}
