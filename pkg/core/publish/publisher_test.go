package publish

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

type fakeForumClient struct {
	issue  Issue
	err    error
	nextID string
}

func (f *fakeForumClient) CreateIssue(ctx context.Context, issue Issue) (string, error) {
	f.issue = issue
	if f.err != nil {
		return "", f.err
	}
	return f.nextID, nil
}

func TestBuildPostTitleStripsDateSuffix(t *testing.T) {
	debate := legislature.Debate{Title: "Budget debate - 2026-03-01", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "[DEBATE] [CA] Budget debate", BuildPostTitle(debate, "CA"))
}

func TestBuildPostTitleLeavesTitleWithoutSuffixAlone(t *testing.T) {
	debate := legislature.Debate{Title: "Question Period", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "[DEBATE] [ON] Question Period", BuildPostTitle(debate, "ON"))
}

func TestSelectKeyQuotesDiversifiesByPartyThenSpeaker(t *testing.T) {
	long := func(s string, n int) string {
		out := s
		for len(out) < n {
			out += " " + s
		}
		return out
	}
	contributions := []legislature.Contribution{
		{SpeakerName: "Jane Doe", Metadata: map[string]interface{}{"party": "Liberal"}, Text: long("jane statement", 60)},
		{SpeakerName: "John Roe", Metadata: map[string]interface{}{"party": "Liberal"}, Text: long("john statement", 60)},
		{SpeakerName: "Amy Lee", Metadata: map[string]interface{}{"party": "NDP"}, Text: long("amy statement", 60)},
		{SpeakerName: "Short One", Text: "too short"},
	}

	quotes := SelectKeyQuotes(contributions, 2)

	require.Len(t, quotes, 2)
	parties := map[string]bool{quotes[0].Party: true, quotes[1].Party: true}
	assert.True(t, parties["Liberal"])
	assert.True(t, parties["NDP"])
}

func TestSelectKeyQuotesBackfillsWithoutParty(t *testing.T) {
	long := func(s string, n int) string {
		out := s
		for len(out) < n {
			out += " " + s
		}
		return out
	}
	contributions := []legislature.Contribution{
		{SpeakerName: "Jane Doe", Text: long("no party statement here", 60)},
	}

	quotes := SelectKeyQuotes(contributions, 3)

	require.Len(t, quotes, 1)
	assert.Equal(t, "Jane Doe", quotes[0].SpeakerName)
}

func TestPublisherPublishBuildsIssueAndReturnsCreatedPost(t *testing.T) {
	client := &fakeForumClient{nextID: "issue-123"}
	p := NewPublisher(client)

	debate := legislature.Debate{ID: "debate-1", Title: "Budget debate", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	leg := legislature.Legislature{Code: "ON", Level: legislature.LevelProvincial}
	summary := legislature.Summary{SummaryText: "A summary of the debate."}
	primary := &legislature.CategoryAssignment{TopicSlug: "budget"}

	post, err := p.Publish(context.Background(), debate, leg, summary, nil, nil, nil, nil, primary)

	require.NoError(t, err)
	assert.Equal(t, "issue-123", post.IssueID)
	assert.Equal(t, legislature.ForumPostCreated, post.Status)
	assert.Equal(t, "budget", client.issue.Topic)
	assert.Equal(t, "Ontario", client.issue.Province)
	assert.Contains(t, client.issue.Title, "Budget debate")
}

func TestPublisherPublishReturnsFailedPostOnClientError(t *testing.T) {
	client := &fakeForumClient{err: assert.AnError}
	p := NewPublisher(client)

	debate := legislature.Debate{ID: "debate-1", Title: "Debate"}
	leg := legislature.Legislature{Code: "CA", Level: legislature.LevelFederal}

	post, err := p.Publish(context.Background(), debate, leg, legislature.Summary{}, nil, nil, nil, nil, nil)

	require.Error(t, err)
	assert.Equal(t, legislature.ForumPostFailed, post.Status)
}
