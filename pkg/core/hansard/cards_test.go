package hansard

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByDateKeepsOnlyMatchingDate(t *testing.T) {
	speeches := []Speech{{Date: "2026-02-09"}, {Date: "2026-02-08"}, {Date: "2026-02-09"}}
	filtered := filterByDate(speeches, "2026-02-09")
	assert.Len(t, filtered, 2)
}

func TestAllEarlierTrueWhenEveryDateBeforeTarget(t *testing.T) {
	speeches := []Speech{{Date: "2026-02-01"}, {Date: "2026-02-05"}}
	assert.True(t, allEarlier(speeches, "2026-02-09"))

	speeches = append(speeches, Speech{Date: "2026-02-09"})
	assert.False(t, allEarlier(speeches, "2026-02-09"))
}

func TestParseSingleCardExtractsSpeakerDateAndTopics(t *testing.T) {
	html := `<div class="search-result">
		<a href="/members/en/12345">Jane Doe (Calgary Centre)</a>
		<span class="party">Lib. (AB)</span>
		<p>2026-02-09 10:30 [p.123]</p>
		<p>This is the substantive text of the speech being delivered today.</p>
		<a href="/PublicationSearch/en/?Topic=99">Budget Implementation Act</a>
	</div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	card := doc.Find(".search-result").First()
	speech, ok := parseSingleCard(card, "Government Orders")

	require.True(t, ok)
	assert.Equal(t, "Jane Doe", speech.SpeakerName)
	assert.Equal(t, "Calgary Centre", speech.Riding)
	assert.Equal(t, "12345", speech.MemberID)
	assert.Equal(t, "2026-02-09", speech.Date)
	assert.Equal(t, "10:30", speech.Time)
	assert.Equal(t, "123", speech.PageRef)
	assert.Equal(t, "Lib.", speech.Party)
	require.Len(t, speech.Topics, 1)
	assert.Equal(t, "Budget Implementation Act", speech.Topics[0].Title)
	assert.Equal(t, "99", speech.Topics[0].ID)
	assert.Contains(t, speech.Text, "substantive text")
}

func TestParseSingleCardRejectsCardWithoutMemberLink(t *testing.T) {
	html := `<div class="search-result"><p>2026-02-09 10:30</p><p>Some text here that is long enough.</p></div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	card := doc.Find(".search-result").First()
	_, ok := parseSingleCard(card, "Government Orders")

	assert.False(t, ok)
}

func TestParseSingleCardRejectsCardWithoutParseableDate(t *testing.T) {
	html := `<div class="search-result"><a href="/members/en/1">Jane Doe</a><p>no date here</p></div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	card := doc.Find(".search-result").First()
	_, ok := parseSingleCard(card, "Government Orders")

	assert.False(t, ok)
}

func TestHasNextPageDetectsPaginationLink(t *testing.T) {
	html := `<html><body><a href="?Page=2" title="Next page">Next</a></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.True(t, hasNextPage(doc))

	html = `<html><body><span>no pagination</span></body></html>`
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.False(t, hasNextPage(doc))
}
