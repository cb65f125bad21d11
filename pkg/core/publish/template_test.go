package publish

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestFormatDateEmptyWhenZero(t *testing.T) {
	assert.Equal(t, "", formatDate(legislature.Debate{}))
	assert.Equal(t, "March 1, 2026", formatDate(legislature.Debate{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "", formatDuration(nil))
	zero := 0
	assert.Equal(t, "", formatDuration(&zero))
	ninety := 90 * 60
	assert.Equal(t, "1h 30m", formatDuration(&ninety))
	fifteen := 15 * 60
	assert.Equal(t, "15 minutes", formatDuration(&fifteen))
}

func TestSessionTypeLabelFallsBackForUnknownKind(t *testing.T) {
	assert.Equal(t, "House Debate", sessionTypeLabel(legislature.SessionHouse))
	assert.Equal(t, "Session", sessionTypeLabel(legislature.SessionKind("unknown")))
}

func TestRenderDebatePostIncludesSummaryAndVotes(t *testing.T) {
	in := PostInput{
		Debate:      legislature.Debate{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), SessionKind: legislature.SessionHouse, HansardURL: "https://example.com/hansard"},
		Legislature: legislature.Legislature{Name: "House of Commons", Code: "CA"},
		EnSummary:   legislature.Summary{SummaryText: "A **bold** summary.", OutcomeText: "Passed"},
		Votes:       []legislature.Vote{{MotionText: "Second reading", YeaTotal: 100, NayTotal: 50, Result: legislature.VotePassed}},
	}

	html, err := RenderDebatePost(in)

	require.NoError(t, err)
	assert.Contains(t, html, "House of Commons")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "Second reading")
	assert.Contains(t, html, "Passed")
	assert.Contains(t, html, "https://example.com/hansard")
}

func TestRenderDebatePostOmitsEmptySections(t *testing.T) {
	in := PostInput{
		Debate:      legislature.Debate{},
		Legislature: legislature.Legislature{Name: "Test House"},
		EnSummary:   legislature.Summary{SummaryText: ""},
	}

	html, err := RenderDebatePost(in)

	require.NoError(t, err)
	assert.NotContains(t, html, "Key Participants")
	assert.NotContains(t, html, "<h3>Votes</h3>")
}
