package vote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/logging"
)

const openParliamentAPI = "https://api.openparliament.ca"

var billURLRe = regexp.MustCompile(`/(C-\d+|S-\d+)/`)

type voteListing struct {
	Objects []struct {
		URL string `json:"url"`
	} `json:"objects"`
}

type voteDetail struct {
	Description struct {
		En string `json:"en"`
		Fr string `json:"fr"`
	} `json:"description"`
	BillURL    string `json:"bill_url"`
	YeaTotal   int    `json:"yea_total"`
	NayTotal   int    `json:"nay_total"`
	PairedTotal int   `json:"paired_total"`
	Result     string `json:"result"`
}

func extractFederal(ctx context.Context, debate legislature.Debate) []legislature.Vote {
	dateStr := debate.Date.Format("2006-01-02")

	listing, err := fetchJSON[voteListing](ctx, fmt.Sprintf("%s/votes/?date=%s&format=json", openParliamentAPI, dateStr))
	if err != nil {
		logging.Warnf("vote", "fetching federal vote listing for %s failed: %v", dateStr, err)
		return nil
	}

	var votes []legislature.Vote
	for _, v := range listing.Objects {
		detail, err := fetchJSON[voteDetail](ctx, fmt.Sprintf("%s%s?format=json", openParliamentAPI, v.URL))
		if err != nil {
			logging.Warnf("vote", "fetching federal vote detail %s failed: %v", v.URL, err)
			continue
		}

		result := legislature.VoteDefeated
		if detail.Result == "Agreed to" {
			result = legislature.VotePassed
		}

		votes = append(votes, legislature.Vote{
			DebateID:     debate.ID,
			MotionText:   detail.Description.En,
			MotionTextFR: detail.Description.Fr,
			BillNumber:   extractBillNumber(detail.BillURL),
			YeaTotal:     detail.YeaTotal,
			NayTotal:     detail.NayTotal,
			PairedTotal:  detail.PairedTotal,
			Result:       result,
			SourceID:     v.URL,
		})
	}

	return votes
}

func extractBillNumber(billURL string) string {
	if billURL == "" {
		return ""
	}
	if m := billURLRe.FindStringSubmatch(billURL); m != nil {
		return m[1]
	}
	return ""
}

func fetchJSON[T any](ctx context.Context, url string) (T, error) {
	var out T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decoding %s: %w", url, err)
	}
	return out, nil
}
