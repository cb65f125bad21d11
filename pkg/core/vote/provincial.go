package vote

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/logging"
)

type divisionSelectors struct {
	block      string
	yeaRe      *regexp.Regexp
	nayRe      *regexp.Regexp
	abstainRe  *regexp.Regexp
	sourcePrefix string
}

var ontarioDivisionSelectors = divisionSelectors{
	block:        ".division, .vote-result, [class*='division'], [class*='vote']",
	yeaRe:        regexp.MustCompile(`(?i)(?:Ayes|Yeas?|In favour)[:\s]*(\d+)`),
	nayRe:        regexp.MustCompile(`(?i)(?:Nays?|Against|Opposed)[:\s]*(\d+)`),
	sourcePrefix: "on-division",
}

var quebecDivisionSelectors = divisionSelectors{
	block:        ".vote, .division, [class*='vote'], [class*='scrutin']",
	yeaRe:        regexp.MustCompile(`(?i)(?:Pour|En faveur)[:\s]*(\d+)`),
	nayRe:        regexp.MustCompile(`(?i)(?:Contre|Opposé)[:\s]*(\d+)`),
	abstainRe:    regexp.MustCompile(`(?i)(?:Abstentions?)[:\s]*(\d+)`),
	sourcePrefix: "qc-scrutin",
}

var billInTextRe = regexp.MustCompile(`(?i)(?:Bill|Projet de loi)\s+(C-\d+|S-\d+|\d+)`)

func extractProvincial(ctx context.Context, debate legislature.Debate, sel divisionSelectors) []legislature.Vote {
	if debate.HansardURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, debate.HansardURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		logging.Warnf("vote", "fetching %s failed: %v", debate.HansardURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		logging.Warnf("vote", "parsing %s failed: %v", debate.HansardURL, err)
		return nil
	}

	var votes []legislature.Vote
	dateStr := debate.Date.Format("2006-01-02")
	divisionIndex := 0

	doc.Find(sel.block).Each(func(_ int, div *goquery.Selection) {
		text := strings.TrimSpace(div.Text())

		yeaMatch := sel.yeaRe.FindStringSubmatch(text)
		nayMatch := sel.nayRe.FindStringSubmatch(text)
		if yeaMatch == nil || nayMatch == nil {
			return
		}

		yea := parseIntOrZero(yeaMatch[1])
		nay := parseIntOrZero(nayMatch[1])
		abstain := 0
		if sel.abstainRe != nil {
			if m := sel.abstainRe.FindStringSubmatch(text); m != nil {
				abstain = parseIntOrZero(m[1])
			}
		}

		result := legislature.VoteDefeated
		if yea > nay {
			result = legislature.VotePassed
		}

		v := legislature.Vote{
			DebateID:     debate.ID,
			BillNumber:   findBillInText(text),
			YeaTotal:     yea,
			NayTotal:     nay,
			AbstainTotal: abstain,
			Result:       result,
			SourceID:     sel.sourcePrefix + "-" + dateStr + "-" + strconv.Itoa(divisionIndex),
		}
		motion := extractPrecedingMotion(div)
		if v.BillNumber == "" {
			v.BillNumber = findBillInText(motion)
		}
		if sel.sourcePrefix == "qc-scrutin" {
			v.MotionTextFR = motion
		} else {
			v.MotionText = motion
		}

		votes = append(votes, v)
		divisionIndex++
	})

	return votes
}

func extractPrecedingMotion(div *goquery.Selection) string {
	prev := div.Prev()
	if prev.Length() == 0 {
		return ""
	}
	text := strings.TrimSpace(prev.Text())
	if len(text) <= 10 {
		return ""
	}
	r := []rune(text)
	if len(r) > 500 {
		return string(r[:500])
	}
	return text
}

func findBillInText(text string) string {
	if m := billInTextRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func parseIntOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
