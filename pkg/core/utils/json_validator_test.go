package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type smartParseTarget struct {
	Summary string `json:"summary"`
	Outcome string `json:"outcome"`
}

func TestSmartParseAcceptsStrictJSON(t *testing.T) {
	var out smartParseTarget
	_, err := SmartParse(`{"summary":"A debate happened.","outcome":"Passed"}`, &out)

	require.NoError(t, err)
	assert.Equal(t, "A debate happened.", out.Summary)
}

func TestSmartParseRepairsTrailingCommaAndSingleQuotes(t *testing.T) {
	var out smartParseTarget
	_, err := SmartParse(`{'summary': 'A debate happened.', 'outcome': 'Passed',}`, &out)

	require.NoError(t, err)
	assert.Equal(t, "A debate happened.", out.Summary)
	assert.Equal(t, "Passed", out.Outcome)
}

func TestSmartParseFallsBackToHjsonForUnquotedKeys(t *testing.T) {
	var out smartParseTarget
	_, err := SmartParse("{\n  summary: A debate happened.\n  outcome: Passed\n}", &out)

	require.NoError(t, err)
	assert.Equal(t, "A debate happened.", out.Summary)
}

func TestSmartParseFailsOnTotallyUnstructuredText(t *testing.T) {
	var out smartParseTarget
	_, err := SmartParse("this is not json in any dialect !!! ###", &out)

	assert.Error(t, err)
}
