package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/hansard"
	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestFromHansardSpeechesDropsShortFragmentsAndDedupesSpeakers(t *testing.T) {
	speeches := []hansard.Speech{
		{SpeakerName: "Jane Doe", Party: "Liberal", Riding: "Ottawa", Text: "I rise to speak to this bill today."},
		{SpeakerName: "Jane Doe", Text: "hear hear"},
		{SpeakerName: "John Roe", Text: "I thank the member for her intervention."},
	}

	speakers, contributions := FromHansardSpeeches("debate-1", speeches)

	require.Len(t, speakers, 2)
	assert.Equal(t, "Jane Doe", speakers[0].Name)
	assert.Equal(t, "jane doe", speakers[0].NormalisedName)
	assert.Equal(t, "Liberal", speakers[0].Party)

	require.Len(t, contributions, 2)
	assert.Equal(t, speakers[0].ID, contributions[0].SpeakerID)
	assert.Equal(t, 0, contributions[0].SequenceOrder)
}

func TestCoalesceSegmentsMergesConsecutiveSameSpeaker(t *testing.T) {
	ids := map[string]string{"Jane": "id-jane", "John": "id-john"}
	aligned := []AlignedSegment{
		{Segment: Segment{Start: 0, End: 5, Text: "first part of the statement"}, SpeakerName: "Jane"},
		{Segment: Segment{Start: 5, End: 10, Text: "second part continuing on"}, SpeakerName: "Jane"},
		{Segment: Segment{Start: 10, End: 12, Text: "ok"}, SpeakerName: "John"},
	}

	contributions := CoalesceSegments("debate-1", aligned, ids)

	require.Len(t, contributions, 1, "the trailing short John fragment should be dropped")
	assert.Equal(t, "id-jane", contributions[0].SpeakerID)
	assert.Contains(t, contributions[0].Text, "first part")
	assert.Contains(t, contributions[0].Text, "second part")
	assert.Equal(t, 0.0, *contributions[0].StartSeconds)
	assert.Equal(t, 10.0, *contributions[0].EndSeconds)
}

func TestAttachSecondaryLanguageOverlapping(t *testing.T) {
	start, end := 0.0, 10.0
	contributions := []legislature.Contribution{
		{StartSeconds: &start, EndSeconds: &end},
	}
	secondary := []AlignedSegment{
		{Segment: Segment{Start: 5, End: 8, Text: "texte francais"}},
		{Segment: Segment{Start: 20, End: 25, Text: "not overlapping"}},
	}

	AttachSecondaryLanguage(contributions, secondary)

	assert.Equal(t, "texte francais", contributions[0].TextFR)
}

func TestBuildSpeakersEnrichesFromAttribution(t *testing.T) {
	attributions := []Attribution{
		{Name: "Jane Doe", Party: "Liberal", Role: "MP"},
	}

	speakers, ids := BuildSpeakers("debate-1", []string{"Jane Doe", "", "John Roe"}, attributions)

	require.Len(t, speakers, 2)
	assert.Equal(t, "Liberal", speakers[0].Party)
	assert.Equal(t, "MP", speakers[0].RoleHint)
	assert.Equal(t, "", speakers[1].Party)
	assert.NotEmpty(t, ids["Jane Doe"])
	assert.NotEmpty(t, ids["John Roe"])
}

func TestOverlaps(t *testing.T) {
	assert.True(t, overlaps(0, 10, 5, 15))
	assert.False(t, overlaps(0, 10, 10, 20))
	assert.False(t, overlaps(0, 5, 10, 15))
}
