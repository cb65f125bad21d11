package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Issue is the payload inserted into the forum's issues table.
type Issue struct {
	Title           string `json:"title"`
	Narrative       string `json:"narrative"`
	Type            string `json:"type"`
	Topic           string `json:"topic"`
	GovernmentLevel string `json:"government_level"`
	Province        string `json:"province,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
	MediaType       string `json:"media_type,omitempty"`
}

// ForumClient inserts a rendered debate as a forum issue, returning the
// created issue's identifier.
type ForumClient interface {
	CreateIssue(ctx context.Context, issue Issue) (string, error)
}

// HTTPForumClient posts an issue payload to the forum's REST endpoint,
// behind a circuit breaker since it is an outbound call the pipeline
// cannot control the availability of.
type HTTPForumClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

// NewHTTPForumClient builds an HTTPForumClient targeting baseURL, authorized
// with apiKey.
func NewHTTPForumClient(baseURL, apiKey string) *HTTPForumClient {
	return &HTTPForumClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        "forum-publish",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

type createIssueResponse struct {
	ID string `json:"id"`
}

func (c *HTTPForumClient) CreateIssue(ctx context.Context, issue Issue) (string, error) {
	body, err := json.Marshal(issue)
	if err != nil {
		return "", fmt.Errorf("forumclient: encoding issue: %w", err)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/issues", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.APIKey)

		resp, err := c.Client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("forum API returned status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return "", fmt.Errorf("forumclient: creating issue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("forumclient: issue creation rejected with status %d", resp.StatusCode)
	}

	var decoded createIssueResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("forumclient: decoding response: %w", err)
	}
	if decoded.ID == "" {
		return "", fmt.Errorf("forumclient: no issue id returned")
	}

	return decoded.ID, nil
}
