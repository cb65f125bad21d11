package pollers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

const (
	olaCalendarURL = "https://www.ola.org/en/legislative-business/house-calendar"
	olaHansardBase = "https://www.ola.org/en/legislative-business/house-documents"
)

var isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

type sittingDay struct {
	date      time.Time
	kind      legislature.SessionKind
	titleHint string
}

// OntarioPoller detects new sittings from the OLA house calendar, then
// checks for a matching Hansard transcript and video recording per day.
type OntarioPoller struct{}

// NewOntarioPoller creates a new poller instance.
func NewOntarioPoller() *OntarioPoller { return &OntarioPoller{} }

// DetectNewDebates scans the last week of OLA sitting days.
func (p *OntarioPoller) DetectNewDebates(ctx context.Context, leg *legislature.Legislature) ([]Candidate, error) {
	days := p.recentSittingDays()

	var out []Candidate
	for _, d := range days {
		c, ok := p.buildCandidate(d)
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (p *OntarioPoller) recentSittingDays() []sittingDay {
	resp, err := fetch(olaCalendarURL)
	if err != nil {
		return p.fallbackRecentDays()
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return p.fallbackRecentDays()
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	lookback := today.AddDate(0, 0, -7)

	var days []sittingDay
	doc.Find("table tr, .calendar-event, .sitting-day").Each(func(_ int, row *goquery.Selection) {
		dateText := ""
		row.Find("td, .date, time").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			if dt, ok := cell.Attr("datetime"); ok && len(dt) >= 10 {
				dateText = dt[:10]
				return false
			}
			if m := isoDateRe.FindString(cell.Text()); m != "" {
				dateText = m
				return false
			}
			return true
		})
		if dateText == "" {
			return
		}
		sittingDate, err := time.Parse("2006-01-02", dateText)
		if err != nil {
			return
		}
		if sittingDate.Before(lookback) || sittingDate.After(today) {
			return
		}

		rowText := strings.ToLower(strings.TrimSpace(row.Text()))
		kind := legislature.SessionHouse
		switch {
		case strings.Contains(rowText, "question period"):
			kind = legislature.SessionQuestionPeriod
		case strings.Contains(rowText, "committee"):
			kind = legislature.SessionCommittee
		}

		hint := strings.TrimSpace(row.Text())
		if len(hint) > 200 {
			hint = hint[:200]
		}
		days = append(days, sittingDay{date: sittingDate, kind: kind, titleHint: hint})
	})

	if len(days) == 0 {
		return p.fallbackRecentDays()
	}
	return days
}

func (p *OntarioPoller) fallbackRecentDays() []sittingDay {
	var out []sittingDay
	for _, d := range recentWeekdays(time.Now().UTC(), 7) {
		out = append(out, sittingDay{date: d, kind: legislature.SessionHouse})
	}
	return out
}

func (p *OntarioPoller) buildCandidate(d sittingDay) (Candidate, bool) {
	dateStr := d.date.Format("2006-01-02")
	externalID := fmt.Sprintf("on-%s-%s", d.kind, dateStr)

	hansardURL := p.findHansard(dateStr)
	videoURL := p.findVideo(dateStr)

	if hansardURL == "" && videoURL == "" {
		return Candidate{}, false
	}

	var sources []legislature.SourceURL
	if videoURL != "" {
		sources = append(sources, legislature.SourceURL{Kind: legislature.SourceKindVideo, URL: videoURL, Label: "OLA Video"})
	}
	if hansardURL != "" {
		sources = append(sources, legislature.SourceURL{Kind: legislature.SourceKindHansard, URL: hansardURL, Label: "OLA Hansard"})
	}

	title := fmt.Sprintf("Ontario Legislature - %s", dateStr)
	if strings.Contains(strings.ToLower(d.titleHint), "question period") {
		title = fmt.Sprintf("Ontario Question Period - %s", dateStr)
	}

	status := legislature.StatusScheduled
	if hansardURL != "" {
		status = legislature.StatusDetected
	}

	return Candidate{
		ExternalID:  externalID,
		Title:       title,
		Date:        d.date,
		SessionKind: d.kind,
		Status:      status,
		SourceURLs:  sources,
		HansardURL:  hansardURL,
		VideoURL:    videoURL,
		Metadata: map[string]interface{}{
			"source":   "ola.org",
			"province": "ON",
		},
	}, true
}

func (p *OntarioPoller) findHansard(dateStr string) string {
	url := fmt.Sprintf("%s?date=%s", olaHansardBase, dateStr)
	resp, err := fetch(url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	found := ""
	compact := strings.ReplaceAll(dateStr, "-", "")
	doc.Find("a[href*='hansard'], a[href*='transcript']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, compact) || strings.Contains(href, dateStr) {
			found = absoluteOLA(href)
			return false
		}
		return true
	})
	return found
}

func (p *OntarioPoller) findVideo(dateStr string) string {
	url := fmt.Sprintf("https://www.ola.org/en/legislative-business/video?date=%s", dateStr)
	resp, err := fetch(url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	found := ""
	compact := strings.ReplaceAll(dateStr, "-", "")
	doc.Find("a[href*='video'], a[href*='watch']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, dateStr) || strings.Contains(href, compact) {
			found = absoluteOLA(href)
			return false
		}
		return true
	})
	return found
}

func absoluteOLA(href string) string {
	if strings.HasPrefix(href, "/") {
		return "https://www.ola.org" + href
	}
	return href
}
