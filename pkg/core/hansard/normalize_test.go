package hansard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSpeakerNameStripsHonorificsAndParentheticals(t *testing.T) {
	cases := map[string]string{
		"Hon. Jane Doe":                    "Jane Doe",
		"Right Hon. Justin Trudeau":        "Justin Trudeau",
		"Mr. John Smith (Minister)":        "John Smith",
		"Mme Chantal Lacroix:":             "Chantal Lacroix",
		"L'honorable Pierre Tremblay":      "Pierre Tremblay",
		"Le très honorable Marc Bouchard":  "Marc Bouchard",
		"  Ms. Amy Lee  ":                  "Amy Lee",
	}
	for input, want := range cases {
		assert.Equal(t, want, CleanSpeakerName(input), "input: %q", input)
	}
}

func TestParseSpeakerRidingSplitsNameAndRiding(t *testing.T) {
	name, riding := parseSpeakerRiding("John Smith (Calgary Centre)")
	assert.Equal(t, "John Smith", name)
	assert.Equal(t, "Calgary Centre", riding)
}

func TestParseSpeakerRidingLeavesRidingEmptyWithoutParens(t *testing.T) {
	name, riding := parseSpeakerRiding("John Smith")
	assert.Equal(t, "John Smith", name)
	assert.Equal(t, "", riding)
}
