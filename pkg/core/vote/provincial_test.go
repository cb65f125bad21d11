package vote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestParseIntOrZero(t *testing.T) {
	assert.Equal(t, 42, parseIntOrZero("42"))
	assert.Equal(t, 0, parseIntOrZero("not-a-number"))
}

func TestFindBillInText(t *testing.T) {
	assert.Equal(t, "C-11", findBillInText("Second reading of Bill C-11, an act respecting..."))
	assert.Equal(t, "", findBillInText("no bill mentioned here"))
}

func TestExtractProvincialOntarioParsesDivisionBlocks(t *testing.T) {
	html := `
	<html><body>
	<p>Motion that Bill C-11 be now read a second time.</p>
	<div class="division">The committee divided: Ayes: 60, Nays: 40</div>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	defer server.Close()

	debate := legislature.Debate{HansardURL: server.URL, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}

	votes := extractProvincial(context.Background(), debate, ontarioDivisionSelectors)

	require.Len(t, votes, 1)
	assert.Equal(t, 60, votes[0].YeaTotal)
	assert.Equal(t, 40, votes[0].NayTotal)
	assert.Equal(t, legislature.VotePassed, votes[0].Result)
	assert.Equal(t, "C-11", votes[0].BillNumber)
	assert.Contains(t, votes[0].MotionText, "Bill C-11")
}

func TestExtractProvincialQuebecUsesFrenchLabelsAndAbstain(t *testing.T) {
	html := `<html><body><div class="vote">Pour: 30, Contre: 50, Abstentions: 5</div></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	defer server.Close()

	debate := legislature.Debate{HansardURL: server.URL, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}

	votes := extractProvincial(context.Background(), debate, quebecDivisionSelectors)

	require.Len(t, votes, 1)
	assert.Equal(t, 30, votes[0].YeaTotal)
	assert.Equal(t, 50, votes[0].NayTotal)
	assert.Equal(t, 5, votes[0].AbstainTotal)
	assert.Equal(t, legislature.VoteDefeated, votes[0].Result)
}

func TestExtractProvincialReturnsNilWithoutHansardURL(t *testing.T) {
	votes := extractProvincial(context.Background(), legislature.Debate{}, ontarioDivisionSelectors)
	assert.Nil(t, votes)
}
