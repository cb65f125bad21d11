package hansard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByTopicPlacesMultiTaggedSpeechInEverySection(t *testing.T) {
	speeches := []Speech{
		{SpeakerName: "Jane Doe", Party: "Lib.", Date: "2026-02-09", Time: "10:00", Section: "Government Orders",
			Topics: []Topic{{Title: "Bill C-10", ID: "10"}, {Title: "Bill C-20", ID: "20"}}},
		{SpeakerName: "John Roe", Party: "CPC", Date: "2026-02-09", Time: "09:00", Section: "Government Orders",
			Topics: []Topic{{Title: "Bill C-10", ID: "10"}}},
		{SpeakerName: "Amy Lee", Date: "2026-02-09", Time: "11:00", Section: "Routine Proceedings"},
	}

	groups := groupByTopic(speeches)

	require.Len(t, groups, 3)
	assert.Equal(t, "Bill C-10", groups[0].TopicTitle)
	assert.Len(t, groups[0].Speeches, 2)
	assert.Equal(t, "John Roe", groups[0].Speeches[0].SpeakerName, "speeches within a section sort chronologically")
	assert.Equal(t, []string{"CPC", "Lib."}, groups[0].PartiesInvolved)
}

func TestGroupByTopicOrdersBySectionPriorityThenSize(t *testing.T) {
	speeches := []Speech{
		{SpeakerName: "A", Date: "2026-02-09", Time: "09:00", Section: "Routine Proceedings"},
		{SpeakerName: "B", Date: "2026-02-09", Time: "09:00", Section: "Oral Question Period"},
		{SpeakerName: "C", Date: "2026-02-09", Time: "09:00", Section: "Government Orders"},
	}

	groups := groupByTopic(speeches)

	require.Len(t, groups, 3)
	assert.Equal(t, "Government Orders", groups[0].Section)
	assert.Equal(t, "Oral Question Period", groups[1].Section)
	assert.Equal(t, "Routine Proceedings", groups[2].Section)
}

func TestExtractUniqueSpeakersRanksBySpeechCount(t *testing.T) {
	speeches := []Speech{
		{SpeakerName: "Jane Doe", Party: "Lib.", Riding: "Calgary Centre"},
		{SpeakerName: "John Roe", Party: "CPC"},
		{SpeakerName: "Jane Doe", Party: "Lib."},
	}

	summaries := extractUniqueSpeakers(speeches)

	require.Len(t, summaries, 2)
	assert.Equal(t, "Jane Doe", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].SpeechCount)
	assert.Equal(t, "Calgary Centre", summaries[0].Riding)
	assert.Equal(t, 1, summaries[1].SpeechCount)
}
