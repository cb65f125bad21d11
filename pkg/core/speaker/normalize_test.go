package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNameStripsHonorificsAndDiacritics(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Hon. Jean-Élie Côté", "jean-elie cote"},
		{"  Mr. John Smith  ", "john smith"},
		{"The Right Honourable Justin Trudeau", "justin trudeau"},
		{"Mme Chantal Lacroix", "chantal lacroix"},
		{"Speaker", "speaker"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeName(c.name), c.name)
	}
}

func TestNormalizeNameCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "jean pierre", NormalizeName("Jean   \t Pierre"))
}

func TestTextSimilarityJaccard(t *testing.T) {
	assert.Equal(t, 0.0, textSimilarity("", "anything"))
	assert.Equal(t, 1.0, textSimilarity("the quick fox", "the quick fox"))
	assert.InDelta(t, 0.5, textSimilarity("the quick fox", "the quick dog"), 0.001)
}

func TestDetectInlineSpeaker(t *testing.T) {
	name, ok := detectInlineSpeaker("Mr. Smith: I rise on a point of order.")
	assert.True(t, ok)
	assert.Equal(t, "Mr. Smith", name)

	_, ok = detectInlineSpeaker("no colon prefix here")
	assert.False(t, ok)
}
