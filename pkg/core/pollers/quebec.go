package pollers

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

const (
	assnatCalendarURL = "https://www.assnat.qc.ca/en/travaux-parlementaires/calendrier-parlementaire.html"
	assnatVideoURL     = "https://www.assnat.qc.ca/en/video-audio/index.html"
	assnatJournalURL   = "https://www.assnat.qc.ca/en/travaux-parlementaires/journaux-debats.html"
)

var frDateRe = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:er)?\s+(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)\s+(\d{4})`)

var frMonths = map[string]int{
	"janvier": 1, "février": 2, "mars": 3, "avril": 4,
	"mai": 5, "juin": 6, "juillet": 7, "août": 8,
	"septembre": 9, "octobre": 10, "novembre": 11, "décembre": 12,
}

// QuebecPoller detects new sittings from the National Assembly's
// parliamentary calendar, then checks for a matching Journal des débats
// and video recording per day.
type QuebecPoller struct{}

// NewQuebecPoller creates a new poller instance.
func NewQuebecPoller() *QuebecPoller { return &QuebecPoller{} }

// DetectNewDebates scans the last week of National Assembly sitting days.
func (p *QuebecPoller) DetectNewDebates(ctx context.Context, leg *legislature.Legislature) ([]Candidate, error) {
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

func (p *QuebecPoller) recentSittingDays() []sittingDay {
	resp, err := fetch(assnatCalendarURL)
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
	doc.Find(".jour-seance, .calendar-day, td[class*='seance'], .event-item").Each(func(_ int, el *goquery.Selection) {
		dateText := p.extractDate(el)
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

		elText := strings.ToLower(strings.TrimSpace(el.Text()))
		kind := legislature.SessionHouse
		switch {
		case strings.Contains(elText, "commission") || strings.Contains(elText, "committee"):
			kind = legislature.SessionCommittee
		case strings.Contains(elText, "question"):
			kind = legislature.SessionQuestionPeriod
		}

		days = append(days, sittingDay{date: sittingDate, kind: kind})
	})

	if len(days) == 0 {
		return p.fallbackRecentDays()
	}
	return days
}

func (p *QuebecPoller) extractDate(el *goquery.Selection) string {
	for _, attr := range []string{"data-date", "datetime", "data-jour"} {
		if v, ok := el.Attr(attr); ok && len(v) >= 10 {
			return v[:10]
		}
	}

	text := strings.TrimSpace(el.Text())
	if m := isoDateRe.FindString(text); m != "" {
		return m
	}

	if m := frDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := frMonths[strings.ToLower(m[2])]
		year, _ := strconv.Atoi(m[3])
		if month > 0 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}
	return ""
}

func (p *QuebecPoller) fallbackRecentDays() []sittingDay {
	var out []sittingDay
	for _, d := range recentWeekdays(time.Now().UTC(), 7) {
		out = append(out, sittingDay{date: d, kind: legislature.SessionHouse})
	}
	return out
}

func (p *QuebecPoller) buildCandidate(d sittingDay) (Candidate, bool) {
	dateStr := d.date.Format("2006-01-02")
	externalID := fmt.Sprintf("qc-%s-%s", d.kind, dateStr)

	hansardURL := p.findJournal(dateStr)
	videoURL := p.findVideo(dateStr)

	if hansardURL == "" && videoURL == "" {
		return Candidate{}, false
	}

	var sources []legislature.SourceURL
	if videoURL != "" {
		sources = append(sources, legislature.SourceURL{Kind: legislature.SourceKindVideo, URL: videoURL, Label: "Assemblée nationale vidéo"})
	}
	if hansardURL != "" {
		sources = append(sources, legislature.SourceURL{Kind: legislature.SourceKindHansard, URL: hansardURL, Label: "Journal des débats"})
	}

	status := legislature.StatusScheduled
	if hansardURL != "" {
		status = legislature.StatusDetected
	}

	return Candidate{
		ExternalID:  externalID,
		Title:       fmt.Sprintf("National Assembly of Quebec - %s", dateStr),
		TitleFR:     fmt.Sprintf("Assemblée nationale du Québec - %s", dateStr),
		Date:        d.date,
		SessionKind: d.kind,
		Status:      status,
		SourceURLs:  sources,
		HansardURL:  hansardURL,
		VideoURL:    videoURL,
		Metadata: map[string]interface{}{
			"source":           "assnat.qc.ca",
			"province":         "QC",
			"primary_language": "fr",
		},
	}, true
}

func (p *QuebecPoller) findJournal(dateStr string) string {
	resp, err := fetch(assnatJournalURL)
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
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, dateStr) || strings.Contains(href, compact) {
			found = absoluteAssnat(href)
			return false
		}
		return true
	})
	return found
}

func (p *QuebecPoller) findVideo(dateStr string) string {
	resp, err := fetch(assnatVideoURL)
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
	doc.Find("a[href*='video'], a[href*='webdiffusion']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, dateStr) || strings.Contains(href, compact) {
			found = absoluteAssnat(href)
			return false
		}
		return true
	})
	return found
}

func absoluteAssnat(href string) string {
	if strings.HasPrefix(href, "/") {
		return "https://www.assnat.qc.ca" + href
	}
	return href
}
