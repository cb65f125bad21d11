package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignSegmentsMatchesBySimilarityAndCarriesForward(t *testing.T) {
	interventions := []Intervention{
		{SpeakerName: "Jane Doe", Text: "I rise today to discuss the budget bill before us.", Order: 0},
		{SpeakerName: "John Roe", Text: "Thank you Madam Speaker, I will now address the motion.", Order: 1},
	}
	segments := []Segment{
		{Start: 0, End: 10, Text: "I rise today to discuss the budget bill before us."},
		{Start: 10, End: 15, Text: "hear hear"},
		{Start: 15, End: 25, Text: "Thank you Madam Speaker, I will now address the motion."},
	}

	out := AlignSegments(segments, interventions, nil)

	assert.Len(t, out, 3)
	assert.Equal(t, "Jane Doe", out[0].SpeakerName)
	assert.True(t, out[0].Matched)
	assert.Equal(t, "Jane Doe", out[1].SpeakerName, "unmatched filler carries forward the last speaker")
	assert.False(t, out[1].Matched)
	assert.Equal(t, "John Roe", out[2].SpeakerName)
	assert.True(t, out[2].Matched)
}

func TestAlignSegmentsInlinePrefixOverridesSimilarity(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 5, Text: "Mr. Smith: I have a question for the minister."},
	}
	known := []string{"Mr. Smith"}

	out := AlignSegments(segments, nil, known)

	assert.Equal(t, "Mr. Smith", out[0].SpeakerName)
	assert.True(t, out[0].Matched)
}

func TestResolveKnownSpeakerExactAndSubstring(t *testing.T) {
	known := []string{"Jean-Pierre Tremblay"}

	resolved, ok := resolveKnownSpeaker("Jean-Pierre Tremblay", known)
	assert.True(t, ok)
	assert.Equal(t, "Jean-Pierre Tremblay", resolved)

	resolved, ok = resolveKnownSpeaker("Tremblay", known)
	assert.True(t, ok)
	assert.Equal(t, "Jean-Pierre Tremblay", resolved)

	_, ok = resolveKnownSpeaker("Unknown Person", known)
	assert.False(t, ok)
}

func TestClipTruncatesByRune(t *testing.T) {
	assert.Equal(t, "abc", clip("abcdef", 3))
	assert.Equal(t, "abcdef", clip("abcdef", 10))
}
