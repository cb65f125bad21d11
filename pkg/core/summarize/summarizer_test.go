package summarize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestClipRunesRespectsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "héllo", clipRunes("héllo world", 5))
	assert.Equal(t, "hi", clipRunes("hi", 10))
}

func TestBuildSummaryUserPromptIncludesVotesContributionsAndTranscript(t *testing.T) {
	debate := legislature.Debate{
		LegislatureCode: "CA",
		Title:           "Budget debate",
		Date:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		SessionKind:     legislature.SessionHouse,
	}
	votes := []legislature.Vote{
		{MotionText: "That Bill C-1 be read a second time", YeaTotal: 150, NayTotal: 100, Result: legislature.VotePassed},
	}
	contributions := []legislature.Contribution{
		{SpeakerName: "Jane Doe", Text: "I support this bill because it helps families."},
	}
	transcripts := []legislature.Transcript{
		{Language: "en", RawText: "Mr. Speaker, I rise today to discuss the budget."},
	}

	prompt := buildSummaryUserPrompt(debate, "House of Commons", transcripts, contributions, votes, "en")

	assert.Contains(t, prompt, "Budget debate")
	assert.Contains(t, prompt, "Bill C-1")
	assert.Contains(t, prompt, "Jane Doe")
	assert.Contains(t, prompt, "Mr. Speaker")
	assert.Contains(t, prompt, "Generate the summary in English")
}

func TestBuildSummaryUserPromptFrenchLabel(t *testing.T) {
	prompt := buildSummaryUserPrompt(legislature.Debate{}, "Assemblée nationale", nil, nil, nil, "fr")
	assert.Contains(t, prompt, "Generate the summary in French")
}
