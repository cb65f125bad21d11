package publish

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPForumClientCreateIssueReturnsID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/issues", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var issue Issue
		require.NoError(t, json.NewDecoder(r.Body).Decode(&issue))
		assert.Equal(t, "Debate", issue.Type)

		json.NewEncoder(w).Encode(createIssueResponse{ID: "issue-42"})
	}))
	defer server.Close()

	client := NewHTTPForumClient(server.URL, "test-key")
	id, err := client.CreateIssue(t.Context(), Issue{Title: "Test", Type: "Debate"})

	require.NoError(t, err)
	assert.Equal(t, "issue-42", id)
}

func TestHTTPForumClientCreateIssueErrorsWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(createIssueResponse{})
	}))
	defer server.Close()

	client := NewHTTPForumClient(server.URL, "test-key")
	_, err := client.CreateIssue(t.Context(), Issue{})

	assert.Error(t, err)
}

func TestHTTPForumClientCreateIssueErrorsOnRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPForumClient(server.URL, "test-key")
	_, err := client.CreateIssue(t.Context(), Issue{})

	assert.Error(t, err)
}
