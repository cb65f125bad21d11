package pollers

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsoluteAssnatPrependsOriginForRelativeHref(t *testing.T) {
	assert.Equal(t, "https://www.assnat.qc.ca/en/journal/2026-02-09", absoluteAssnat("/en/journal/2026-02-09"))
	assert.Equal(t, "https://example.com/journal", absoluteAssnat("https://example.com/journal"))
}

func TestExtractDatePrefersDataAttributeOverText(t *testing.T) {
	p := &QuebecPoller{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div data-date="2026-02-09T00:00:00Z">9 février 2026</div>`))
	require.NoError(t, err)

	assert.Equal(t, "2026-02-09", p.extractDate(doc.Find("div")))
}

func TestExtractDateParsesFrenchLongForm(t *testing.T) {
	p := &QuebecPoller{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div>Séance du 9 février 2026</div>`))
	require.NoError(t, err)

	assert.Equal(t, "2026-02-09", p.extractDate(doc.Find("div")))
}

func TestExtractDateEmptyWithoutRecognizedFormat(t *testing.T) {
	p := &QuebecPoller{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div>no date here</div>`))
	require.NoError(t, err)

	assert.Equal(t, "", p.extractDate(doc.Find("div")))
}
