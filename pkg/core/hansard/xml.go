package hansard

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

type xmlFeed struct {
	Publications []xmlPublication `xml:"Publication"`
}

type xmlPublication struct {
	Date  string          `xml:"Date,attr"`
	Title string          `xml:"Title,attr"`
	Items []xmlPublicationItem `xml:"PublicationItem"`
}

type xmlPublicationItem struct {
	Date    string      `xml:"Date,attr"`
	Hour    string      `xml:"Hour,attr"`
	Minute  string       `xml:"Minute,attr"`
	Page    string      `xml:"Page,attr"`
	Person  *xmlPerson  `xml:"Person"`
	OOB     string      `xml:"OrderOfBusiness"`
	Subject string      `xml:"SubjectOfBusiness"`
	Content xmlContent  `xml:"XmlContent"`
}

type xmlPerson struct {
	ID           string `xml:"Id,attr"`
	ProfileURL   string `xml:"ProfileUrl"`
	FirstName    string `xml:"FirstName"`
	LastName     string `xml:"LastName"`
	Constituency string `xml:"Constituency"`
	Caucus       xmlCaucus `xml:"Caucus"`
	Province     xmlProvince `xml:"Province"`
}

type xmlCaucus struct {
	Abbr string `xml:"Abbr,attr"`
}

type xmlProvince struct {
	Code string `xml:"Code,attr"`
}

type xmlContent struct {
	ParaTexts []xmlParaText `xml:"ParaText"`
}

type xmlParaText struct {
	Text string `xml:",innerxml"`
}

var whitespaceRe = regexp.MustCompile(`\s+`)
var xmlTagRe = regexp.MustCompile(`<[^>]*>`)

// scrapeFromPublicationSearchXML attempts the structured feed first: a
// single request returns speech-per-item data with speaker attribution
// already resolved.
func scrapeFromPublicationSearchXML(sittingDate string) ([]Speech, error) {
	query := url.Values{
		"PubType": {"37"},
		"View":    {"L"},
		"xml":     {"1"},
		"RPP":     {"1000"},
		"Page":    {"1"},
		"ParlSes": {"45-1"},
		"order":   {"chron"},
	}

	resp, err := get(pubSearchXML, query)
	if err != nil {
		return nil, fmt.Errorf("fetching publication search XML: %w", err)
	}
	defer resp.Body.Close()

	var feed xmlFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding publication search XML: %w", err)
	}

	var speeches []Speech
	order := 0
	for _, pub := range feed.Publications {
		for _, item := range pub.Items {
			itemDate := item.Date
			if itemDate == "" {
				itemDate = pub.Date
			}
			if itemDate != sittingDate {
				continue
			}

			var memberID, profileURL, firstName, lastName, riding, party, province string
			if item.Person != nil {
				memberID = item.Person.ID
				profileURL = item.Person.ProfileURL
				switch {
				case strings.HasPrefix(profileURL, "//"):
					profileURL = "https:" + profileURL
				case strings.HasPrefix(profileURL, "/"):
					profileURL = "https://www.ourcommons.ca" + profileURL
				}
				firstName = strings.TrimSpace(item.Person.FirstName)
				lastName = strings.TrimSpace(item.Person.LastName)
				riding = strings.TrimSpace(item.Person.Constituency)
				party = strings.TrimSpace(item.Person.Caucus.Abbr)
				province = strings.TrimSpace(item.Person.Province.Code)
			}

			speakerName := strings.TrimSpace(firstName + " " + lastName)

			section := strings.TrimSpace(item.OOB)
			if section == "" {
				section = "General"
			}

			var topics []Topic
			if subject := strings.TrimSpace(item.Subject); subject != "" {
				topics = append(topics, Topic{Title: subject})
			}

			timeStr := ""
			if hour, err := strconv.Atoi(item.Hour); err == nil {
				if minute, err := strconv.Atoi(item.Minute); err == nil {
					timeStr = fmt.Sprintf("%02d:%02d", hour, minute)
				}
			}

			var parts []string
			for _, p := range item.Content.ParaTexts {
				text := whitespaceRe.ReplaceAllString(strings.TrimSpace(xmlTagRe.ReplaceAllString(p.Text, "")), " ")
				if text != "" {
					parts = append(parts, text)
				}
			}
			speechText := strings.TrimSpace(strings.Join(parts, "\n"))

			if speakerName == "" || speechText == "" {
				continue
			}

			speeches = append(speeches, Speech{
				SpeakerName: speakerName,
				Riding:      riding,
				MemberID:    memberID,
				MemberURL:   profileURL,
				Party:       party,
				Province:    province,
				Date:        itemDate,
				Time:        timeStr,
				PageRef:     item.Page,
				Text:        speechText,
				Topics:      topics,
				Section:     section,
				Order:       order,
			})
			order++
		}
	}
	return speeches, nil
}
