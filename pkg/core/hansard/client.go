package hansard

import (
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	pubSearchBase = "https://www.ourcommons.ca/PublicationSearch/en/"
	pubSearchXML  = "https://www.ourcommons.ca/Parliamentarians/en/PublicationSearch"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

var breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
	Name:        "hansard-publication-search",
	MaxRequests: 1,
	Interval:    60 * time.Second,
	Timeout:     30 * time.Second,
	ReadyToTrip: func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 5
	},
})

func browserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-CA,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", pubSearchBase)
}

// get fetches url with query, browser-like headers, and a circuit breaker
// around the round trip so a persistently failing upstream degrades to
// fast failure instead of blocking every worker on repeated timeouts.
func get(rawURL string, query url.Values) (*http.Response, error) {
	full := rawURL
	if len(query) > 0 {
		full = rawURL + "?" + query.Encode()
	}

	return breaker.Execute(func() (*http.Response, error) {
		req, err := http.NewRequest(http.MethodGet, full, nil)
		if err != nil {
			return nil, err
		}
		browserHeaders(req)

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, &httpStatusError{url: full, status: resp.StatusCode}
		}
		return resp, nil
	})
}

type httpStatusError struct {
	url    string
	status int
}

func (e *httpStatusError) Error() string {
	return "hansard: unexpected status " + http.StatusText(e.status) + " fetching " + e.url
}
