package pollers

import (
	"fmt"
	"net/http"
	"time"
)

const userAgent = "Vox.Vote Parliament Tracker/1.0 (civic engagement platform)"

var httpClient = &http.Client{Timeout: 30 * time.Second}

// fetch performs a GET with the shared poller User-Agent and follows
// redirects via the standard client's default policy.
func fetch(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}
	return resp, nil
}

// recentWeekdays returns the last n calendar days that fall on a weekday,
// used as a last-resort fallback when a legislature's own calendar feed
// cannot be parsed.
func recentWeekdays(from time.Time, n int) []time.Time {
	var out []time.Time
	for i := 1; i <= n; i++ {
		d := from.AddDate(0, 0, -i)
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, d)
		}
	}
	return out
}
