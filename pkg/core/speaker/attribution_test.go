package speaker

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorsForLegislature(t *testing.T) {
	_, ok := selectorsForLegislature("CA")
	assert.True(t, ok)
	_, ok = selectorsForLegislature("ON")
	assert.True(t, ok)
	_, ok = selectorsForLegislature("QC")
	assert.True(t, ok)
	_, ok = selectorsForLegislature("XX")
	assert.False(t, ok)
}

func TestExtractParenthetical(t *testing.T) {
	assert.Equal(t, "Liberal", extractParenthetical("Jane Doe (Liberal)"))
	assert.Equal(t, "", extractParenthetical("no parens here"))
}

func TestParseAttributionListFederal(t *testing.T) {
	html := `
	<html><body>
	<div class="Intervention">
		<strong class="Affiliation">Jane Doe (Liberal)</strong>
		<p>I rise today to speak to this important bill.</p>
	</div>
	<div class="Intervention">
		<strong class="Affiliation">Mr. Speaker</strong>
		<p>Order. The honourable member has the floor.</p>
	</div>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	list := parseAttributionList(doc, federalSelectors)

	require.True(t, list.Available)
	require.Len(t, list.Speakers, 2)
	assert.Equal(t, "Jane Doe", list.Speakers[0].Name)
	assert.Equal(t, "Liberal", list.Speakers[0].Party)
	assert.Equal(t, "MP", list.Speakers[0].Role)
	assert.Equal(t, "Speaker", list.Speakers[1].Role)

	require.Len(t, list.Interventions, 2)
	assert.Contains(t, list.Interventions[0].Text, "important bill")
}

func TestFetchAttributionListReturnsUnavailableWithoutURL(t *testing.T) {
	list, err := FetchAttributionList("", "CA")
	require.NoError(t, err)
	assert.False(t, list.Available)
}

func TestFetchAttributionListReturnsUnavailableForUnknownLegislature(t *testing.T) {
	list, err := FetchAttributionList("https://example.invalid/hansard", "ZZ")
	require.NoError(t, err)
	assert.False(t, list.Available)
}
