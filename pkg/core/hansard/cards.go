package hansard

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var orderOfBusiness = []struct {
	key   string
	label string
}{
	{"GovernmentOrders", "Government Orders"},
	{"OralQuestionPeriod", "Oral Question Period"},
	{"RoutineProceedings", "Routine Proceedings"},
	{"StatementsbyMembers", "Statements by Members"},
	{"PrivateMembersBusiness", "Private Members' Business"},
	{"AdjournmentProceedings", "Adjournment Proceedings"},
}

var dateTimeRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s+(\d{1,2}:\d{2})`)
var pageRefRe = regexp.MustCompile(`\[p\.(\d+)\]`)
var partyProvinceRe = regexp.MustCompile(`^(Lib\.|CPC|NDP|BQ|Green|Ind\.?)\s*\(([A-Z]{2})\)$`)
var memberIDRe = regexp.MustCompile(`/members/en/(\d+)`)
var topicIDRe = regexp.MustCompile(`Topic=(\d+)`)

// scrapeSection scrapes one Order of Business section, paginated, capped at
// 20 pages, stopping early once a page returns only earlier dates.
func scrapeSection(sittingDate, oobKey, oobLabel string) []Speech {
	var speeches []Speech

	for page := 1; page <= 20; page++ {
		query := url.Values{
			"View":    {"D"},
			"ParlSes": {"45-1"},
			"oob":     {oobKey},
			"RPP":     {"100"},
			"Page":    {strconv.Itoa(page)},
			"PubType": {"37"},
			"order":   {"chron"},
		}

		resp, err := get(pubSearchBase, query)
		if err != nil {
			break
		}
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			break
		}

		pageSpeeches := parseSpeechCards(doc, oobLabel)
		dateSpeeches := filterByDate(pageSpeeches, sittingDate)
		speeches = append(speeches, dateSpeeches...)

		if len(pageSpeeches) > 0 && len(dateSpeeches) == 0 && allEarlier(pageSpeeches, sittingDate) {
			break
		}

		if !hasNextPage(doc) {
			break
		}
	}

	return speeches
}

// scrapeBroad scrapes all sections without a filter, capped at 30 pages.
func scrapeBroad(sittingDate string) []Speech {
	var speeches []Speech

	for page := 1; page <= 30; page++ {
		query := url.Values{
			"View":    {"D"},
			"ParlSes": {"45-1"},
			"RPP":     {"100"},
			"Page":    {strconv.Itoa(page)},
			"PubType": {"37"},
			"order":   {"chron"},
		}

		resp, err := get(pubSearchBase, query)
		if err != nil {
			break
		}
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			break
		}

		pageSpeeches := parseSpeechCards(doc, "General")
		dateSpeeches := filterByDate(pageSpeeches, sittingDate)
		speeches = append(speeches, dateSpeeches...)

		if len(pageSpeeches) > 0 && len(dateSpeeches) == 0 && allEarlier(pageSpeeches, sittingDate) {
			break
		}
	}

	return speeches
}

func filterByDate(speeches []Speech, date string) []Speech {
	var out []Speech
	for _, s := range speeches {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

func allEarlier(speeches []Speech, date string) bool {
	for _, s := range speeches {
		if s.Date >= date {
			return false
		}
	}
	return true
}

func hasNextPage(doc *goquery.Document) bool {
	return doc.Find("a[href*='Page='][title*='Next'], .pagination a:last-child").Length() > 0
}

func parseSpeechCards(doc *goquery.Document, sectionLabel string) []Speech {
	var speeches []Speech

	doc.Find(".publication-search-result, .search-result, .result-card, .hansard-result, [class*='result-item'], [class*='search-item']").Each(func(_ int, card *goquery.Selection) {
		if s, ok := parseSingleCard(card, sectionLabel); ok {
			speeches = append(speeches, s)
		}
	})

	if len(speeches) == 0 {
		speeches = parseDetailView(doc, sectionLabel)
	}

	return speeches
}

func parseSingleCard(card *goquery.Selection, sectionLabel string) (Speech, bool) {
	speakerLink := card.Find("a[href*='/members/en/']").First()
	if speakerLink.Length() == 0 {
		return Speech{}, false
	}

	speakerText := strings.TrimSpace(speakerLink.Text())
	memberURL, _ := speakerLink.Attr("href")
	if strings.HasPrefix(memberURL, "/") {
		memberURL = "https://www.ourcommons.ca" + memberURL
	}

	name, riding := parseSpeakerRiding(speakerText)
	if name == "" {
		return Speech{}, false
	}

	memberID := ""
	if m := memberIDRe.FindStringSubmatch(memberURL); m != nil {
		memberID = m[1]
	}

	dateStr, timeStr, pageRef := "", "", ""
	fullText := card.Text()
	if m := dateTimeRe.FindStringSubmatch(fullText); m != nil {
		dateStr, timeStr = m[1], m[2]
	}
	if m := pageRefRe.FindStringSubmatch(fullText); m != nil {
		pageRef = m[1]
	}
	if dateStr == "" {
		return Speech{}, false
	}

	party, province := "", ""
	partyEl := card.Find(".party, .caucus, [class*='party'], [class*='caucus']").First()
	if partyEl.Length() > 0 {
		party = strings.TrimSpace(partyEl.Text())
		if m := partyProvinceRe.FindStringSubmatch(party); m != nil {
			party, province = m[1], m[2]
		}
	} else if m := partyProvinceRe.FindStringSubmatch(strings.TrimSpace(fullText)); m != nil {
		party, province = m[1], m[2]
	}

	speechText := ""
	card.Find("p, .speech-text, .content-text, [class*='speech'], [class*='content']").Each(func(_ int, el *goquery.Selection) {
		if el.Find("a[href*='/members/']").Length() > 0 {
			return
		}
		text := strings.TrimSpace(el.Text())
		if len(text) > 20 {
			speechText += text + "\n"
		}
	})

	var topics []Topic
	card.Find("a[href*='Topic=']").Each(func(_ int, a *goquery.Selection) {
		topicText := strings.TrimSpace(a.Text())
		if topicText == "" {
			return
		}
		href, _ := a.Attr("href")
		topicID := ""
		if m := topicIDRe.FindStringSubmatch(href); m != nil {
			topicID = m[1]
		}
		topicURL := href
		if !strings.HasPrefix(href, "http") {
			topicURL = "https://www.ourcommons.ca" + href
		}
		topics = append(topics, Topic{Title: topicText, ID: topicID, URL: topicURL})
	})

	return Speech{
		SpeakerName: name,
		Riding:      riding,
		MemberID:    memberID,
		MemberURL:   memberURL,
		Party:       party,
		Province:    province,
		Date:        dateStr,
		Time:        timeStr,
		PageRef:     pageRef,
		Text:        strings.TrimSpace(speechText),
		Topics:      topics,
		Section:     sectionLabel,
	}, true
}

func parseDetailView(doc *goquery.Document, sectionLabel string) []Speech {
	var speeches []Speech
	order := 0

	doc.Find("div[class*='result'], div[class*='item'], article").Each(func(_ int, block *goquery.Selection) {
		memberLink := block.Find("a[href*='/members/en/']").First()
		if memberLink.Length() == 0 {
			return
		}

		speakerText := strings.TrimSpace(memberLink.Text())
		name, riding := parseSpeakerRiding(speakerText)
		if name == "" {
			return
		}

		memberURL, _ := memberLink.Attr("href")
		if memberURL != "" && !strings.HasPrefix(memberURL, "http") {
			memberURL = "https://www.ourcommons.ca" + memberURL
		}
		memberID := ""
		if m := memberIDRe.FindStringSubmatch(memberURL); m != nil {
			memberID = m[1]
		}

		allText := strings.Join(strings.Fields(block.Text()), " ")
		dm := dateTimeRe.FindStringSubmatch(allText)
		if dm == nil {
			return
		}
		dateStr, timeStr := dm[1], dm[2]

		pageRef := ""
		if m := pageRefRe.FindStringSubmatch(allText); m != nil {
			pageRef = m[1]
		}

		party, province := "", ""
		if m := partyProvinceRe.FindStringSubmatch(allText); m != nil {
			party, province = m[1], m[2]
		} else if m := regexp.MustCompile(`(Lib\.|CPC|NDP|BQ|Green|Ind\.?)\s*\(([A-Z]{2})\)`).FindStringSubmatch(allText); m != nil {
			party, province = m[1], m[2]
		}

		speechText := ""
		block.Find("p").Each(func(_ int, p *goquery.Selection) {
			text := strings.TrimSpace(p.Text())
			if len(text) > 30 && !regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`).MatchString(text) {
				speechText += text + "\n"
			}
		})

		var topics []Topic
		block.Find("a[href*='Topic=']").Each(func(_ int, a *goquery.Selection) {
			topicText := strings.TrimSpace(a.Text())
			if topicText == "" {
				return
			}
			href, _ := a.Attr("href")
			topicID := ""
			if m := topicIDRe.FindStringSubmatch(href); m != nil {
				topicID = m[1]
			}
			topics = append(topics, Topic{Title: topicText, ID: topicID, URL: href})
		})

		speeches = append(speeches, Speech{
			SpeakerName: name,
			Riding:      riding,
			MemberID:    memberID,
			MemberURL:   memberURL,
			Party:       party,
			Province:    province,
			Date:        dateStr,
			Time:        timeStr,
			PageRef:     pageRef,
			Text:        strings.TrimSpace(speechText),
			Topics:      topics,
			Section:     sectionLabel,
			Order:       order,
		})
		order++
	})

	return speeches
}
