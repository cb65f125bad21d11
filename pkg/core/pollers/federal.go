package pollers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

const (
	parliamentaryBusinessURL = "https://www.ourcommons.ca/en/parliamentary-business"
	hansardViewerBase        = "https://www.ourcommons.ca/DocumentViewer/en"
)

func buildDailyURL(forDate time.Time) string {
	dateStr := forDate.Format("2006-01-02")
	return fmt.Sprintf("%s/%s", parliamentaryBusinessURL, url.QueryEscape(dateStr+" -05:00"))
}

type hansardLink struct {
	date       string
	hansardURL string
	isCurrent  bool
	linkClass  string
}

// FederalPoller detects House of Commons sittings and committee meetings
// from the daily parliamentary-business page, preferring the Hansard
// transcript over video once it is published so that downstream stages
// can skip transcription entirely.
type FederalPoller struct{}

// NewFederalPoller creates a new poller instance.
func NewFederalPoller() *FederalPoller { return &FederalPoller{} }

// DetectNewDebates scans today and the previous three days for newly
// published Hansard, plus today's committee meeting schedule.
func (p *FederalPoller) DetectNewDebates(ctx context.Context, leg *legislature.Legislature) ([]Candidate, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var out []Candidate
	for i := 0; i < 4; i++ {
		checkDate := today.AddDate(0, 0, -i)
		day := p.scrapeDailyPage(checkDate)
		out = append(out, day...)
	}

	out = append(out, p.scrapeCommitteeMeetings(today)...)
	return out, nil
}

func (p *FederalPoller) scrapeDailyPage(forDate time.Time) []Candidate {
	resp, err := fetch(buildDailyURL(forDate))
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	house := doc.Find("section.block-in-the-chamber").First()
	if house.Length() == 0 {
		return nil
	}

	parlvuURL := p.extractParlvuLink(house)
	sittings := p.extractHansardLinks(house, forDate)
	agendaItems := p.extractAgendaItems(house)
	chamberStatus := p.extractChamberStatus(house)

	today := time.Now().UTC().Truncate(24 * time.Hour)

	var out []Candidate
	for _, sitting := range sittings {
		sittingDate, err := time.Parse("2006-01-02", sitting.date)
		if err != nil {
			continue
		}

		status := legislature.StatusScheduled
		hansardPublished := sitting.hansardURL != "" && strings.Contains(sitting.linkClass, "active-publication-link") && !strings.Contains(sitting.linkClass, "in-active-publication-link")

		switch {
		case hansardPublished:
			status = legislature.StatusDetected
		case sittingDate.After(today):
			status = legislature.StatusScheduled
		case sittingDate.Equal(today):
			if sitting.hansardURL == "" {
				status = legislature.StatusScheduled
			} else {
				status = legislature.StatusDetected
			}
		default:
			if sitting.hansardURL == "" {
				continue
			}
			status = legislature.StatusDetected
		}

		var sources []legislature.SourceURL
		sources = append(sources, legislature.SourceURL{Kind: legislature.SourceKindCalendar, URL: buildDailyURL(sittingDate), Label: "Parliament Calendar"})
		if sitting.hansardURL != "" {
			sources = append(sources, legislature.SourceURL{Kind: legislature.SourceKindHansard, URL: sitting.hansardURL, Label: "Official Hansard"})
		}
		if parlvuURL != "" {
			sources = append(sources, legislature.SourceURL{Kind: legislature.SourceKindVideo, URL: parlvuURL, Label: "ParlVU Recording"})
		}

		meta := map[string]interface{}{
			"source":         "ourcommons.ca",
			"scrape_method":  "hansard-first",
			"chamber_status": chamberStatus,
			"parlvu_url":     parlvuURL,
		}
		if sitting.isCurrent {
			meta["agenda_items"] = agendaItems
		} else {
			meta["agenda_items"] = []map[string]string{}
		}

		out = append(out, Candidate{
			ExternalID:  fmt.Sprintf("ca-house-%s", sitting.date),
			Title:       fmt.Sprintf("House of Commons Debate — %s", sitting.date),
			TitleFR:     fmt.Sprintf("Débat de la Chambre des communes — %s", sitting.date),
			Date:        sittingDate,
			SessionKind: legislature.SessionHouse,
			Status:      status,
			SourceURLs:  sources,
			HansardURL:  sitting.hansardURL,
			VideoURL:    parlvuURL,
			Metadata:    meta,
		})
	}
	return out
}

func (p *FederalPoller) extractParlvuLink(section *goquery.Selection) string {
	link := section.Find(".watch-previous a, a[href*='parlvu'], a[href*='ParlVU'], a[href*='PowerBrowser']").First()
	if link.Length() == 0 {
		return ""
	}
	href, _ := link.Attr("href")
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return "https://parlvu.parl.gc.ca" + href
	default:
		return href
	}
}

func (p *FederalPoller) extractHansardLinks(section *goquery.Selection, pageDate time.Time) []hansardLink {
	var results []hansardLink

	section.Find(".strong-text").Each(func(_ int, strongEl *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(strongEl.Text()))
		isCurrent := strings.Contains(text, "current")
		isPrevious := strings.Contains(text, "previous")
		if !isCurrent && !isPrevious {
			return
		}

		dateEl := strongEl.NextFiltered(".strong-text-date")
		sittingDate := p.parseSittingDate(dateEl, pageDate)
		if sittingDate == "" {
			return
		}

		ul := strongEl.NextAllFiltered("ul").First()
		if ul.Length() == 0 {
			return
		}

		hansardURL := ""
		linkClass := ""
		ul.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			link := li.Find("a").First()
			if link.Length() == 0 {
				return true
			}
			linkText := strings.ToLower(strings.TrimSpace(link.Text()))
			if !strings.Contains(linkText, "debates") && !strings.Contains(linkText, "hansard") {
				return true
			}
			href, _ := link.Attr("href")
			class, _ := link.Attr("class")
			linkClass = class

			if strings.Contains(class, "in-active-publication-link") {
				hansardURL = ""
			} else if href != "" && href != "#" {
				if strings.HasPrefix(href, "/") {
					hansardURL = "https://www.ourcommons.ca" + href
				} else {
					hansardURL = href
				}
			}
			return false
		})

		results = append(results, hansardLink{date: sittingDate, hansardURL: hansardURL, isCurrent: isCurrent, linkClass: linkClass})
	})

	return results
}

func (p *FederalPoller) parseSittingDate(dateEl *goquery.Selection, fallback time.Time) string {
	if dateEl.Length() == 0 {
		return fallback.Format("2006-01-02")
	}
	text := strings.Trim(strings.TrimSpace(dateEl.Text()), "()")
	for _, layout := range []string{"Monday, January 2, 2006", "January 2, 2006", "2006-01-02"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func (p *FederalPoller) extractAgendaItems(section *goquery.Selection) []map[string]string {
	var items []map[string]string
	section.Find(".agenda-items .row").Each(func(_ int, row *goquery.Selection) {
		class, _ := row.Attr("class")
		level := "1"
		switch {
		case strings.Contains(class, "agenda-lvl2"):
			level = "2"
		case strings.Contains(class, "agenda-lvl3"):
			level = "3"
		}

		timeText := strings.TrimSpace(row.Find(".the-time").First().Text())
		title := strings.TrimSpace(row.Find(".agenda-item-title div").First().Text())
		subtitle := strings.TrimSpace(row.Find(".item-content, .italic").First().Text())
		tooltip, _ := row.Find("[data-bs-original-title]").First().Attr("data-bs-original-title")

		if title == "" {
			return
		}
		items = append(items, map[string]string{
			"time":        timeText,
			"title":       title,
			"subtitle":    subtitle,
			"description": tooltip,
			"level":       level,
		})
	})
	return items
}

func (p *FederalPoller) extractChamberStatus(section *goquery.Selection) string {
	status := strings.TrimSpace(section.Find(".chamber-status").First().Text())
	if status == "" {
		return "unknown"
	}
	return status
}

func (p *FederalPoller) scrapeCommitteeMeetings(forDate time.Time) []Candidate {
	resp, err := fetch(buildDailyURL(forDate))
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	committeeSection := doc.Find("section.block-committees").First()
	if committeeSection.Length() == 0 {
		return nil
	}

	var out []Candidate
	committeeSection.Find(".panel-accordion, .accordion-item").Each(func(_ int, panel *goquery.Selection) {
		c, ok := p.parseCommitteePanel(panel, forDate)
		if ok {
			out = append(out, c)
		}
	})
	return out
}

func (p *FederalPoller) parseCommitteePanel(panel *goquery.Selection, forDate time.Time) (Candidate, bool) {
	acronymEl := panel.Find(".meeting-card-committee-acronym, .meeting-acronym").First()
	if acronymEl.Length() == 0 {
		return Candidate{}, false
	}
	acronym := strings.TrimSpace(acronymEl.Text())

	nameEl := panel.Find(".meeting-card-committee-details-name a, h2.meeting-card-committee-details-name a, h3.meeting-card-committee-details-name a").First()
	fullName := acronym
	if nameEl.Length() > 0 {
		fullName = strings.TrimSpace(nameEl.Text())
	}

	timeText := strings.TrimSpace(panel.Find(".the-time, .time").First().Text())
	location := strings.TrimSpace(panel.Find(".meeting-location span, .meeting-card-attribute.meeting-location span").First().Text())

	var studies []map[string]string
	panel.Find(".meeting-card-studies-list li, .meeting-widget-studies-list li, .studies-activities-item").Each(func(_ int, el *goquery.Selection) {
		studyText := strings.TrimSpace(el.Text())
		studyURL := ""
		if link := el.Find("a").First(); link.Length() > 0 {
			href, _ := link.Attr("href")
			switch {
			case strings.HasPrefix(href, "//"):
				studyURL = "https:" + href
			case strings.HasPrefix(href, "/"):
				studyURL = "https://www.ourcommons.ca" + href
			default:
				studyURL = href
			}
		}
		studies = append(studies, map[string]string{"title": studyText, "url": studyURL})
	})

	broadcastType := "none"
	switch {
	case panel.Find("[class*='icon-television']").Length() > 0:
		broadcastType = "televised"
	case panel.Find("[class*='laptop-play'], .hoc-icons-laptop-play, [class*='web-video-cast']").Length() > 0:
		broadcastType = "webcast"
	case panel.Find("[class*='icon-lock']").Length() > 0:
		broadcastType = "in_camera"
	}

	noticeURL := ""
	if noticeEl := panel.Find("a.btn-meeting-notice").First(); noticeEl.Length() > 0 {
		href, _ := noticeEl.Attr("href")
		switch {
		case strings.HasPrefix(href, "//"):
			noticeURL = "https:" + href
		case strings.HasPrefix(href, "/"):
			noticeURL = "https://www.ourcommons.ca" + href
		default:
			noticeURL = href
		}
	}

	meetingDate := forDate.Format("2006-01-02")
	var sources []legislature.SourceURL
	if noticeURL != "" {
		sources = append(sources, legislature.SourceURL{Kind: legislature.SourceKindNotice, URL: noticeURL, Label: "Notice of Meeting"})
	}

	var studyTitles []string
	for _, s := range studies {
		studyTitles = append(studyTitles, s["title"])
	}
	title := fmt.Sprintf("Committee: %s", fullName)
	if len(studyTitles) > 0 {
		shown := studyTitles
		if len(shown) > 2 {
			shown = shown[:2]
		}
		title += " — " + strings.Join(shown, "; ")
	}

	return Candidate{
		ExternalID:    fmt.Sprintf("ca-committee-%s-%s", acronym, meetingDate),
		Title:         title,
		Date:          forDate,
		SessionKind:   legislature.SessionCommittee,
		CommitteeName: fullName,
		Status:        legislature.StatusScheduled,
		SourceURLs:    sources,
		Metadata: map[string]interface{}{
			"source":         "ourcommons.ca",
			"scrape_method":  "hansard-first",
			"committee_code": acronym,
			"time":           timeText,
			"location":       location,
			"studies":        studies,
			"broadcast_type": broadcastType,
			"notice_url":     noticeURL,
		},
	}, true
}
