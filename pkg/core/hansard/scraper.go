package hansard

import "net/url"

// ScrapeForDate scrapes every speech from a federal Hansard sitting date.
// It prefers the structured XML feed; when that is unavailable or empty
// it falls back to the paginated HTML publication search, section by
// section, with a final broad scrape as a last resort.
func ScrapeForDate(sittingDate string, hansardNumber string) (*Result, error) {
	var allSpeeches []Speech

	xmlSpeeches, err := scrapeFromPublicationSearchXML(sittingDate)
	if err == nil && len(xmlSpeeches) > 0 {
		allSpeeches = xmlSpeeches
	} else {
		warmUp()

		for _, oob := range orderOfBusiness {
			allSpeeches = append(allSpeeches, scrapeSection(sittingDate, oob.key, oob.label)...)
		}

		if len(allSpeeches) == 0 {
			allSpeeches = scrapeBroad(sittingDate)
		}
	}

	sections := groupByTopic(allSpeeches)
	speakers := extractUniqueSpeakers(allSpeeches)

	return &Result{
		SittingDate:   sittingDate,
		HansardNumber: hansardNumber,
		Sections:      sections,
		AllSpeeches:   allSpeeches,
		Speakers:      speakers,
	}, nil
}

// warmUp establishes cookies/session state before deep links; some upstream
// WAF configurations block direct requests to filtered search pages.
func warmUp() {
	resp, err := get(pubSearchBase, url.Values{"PubType": {"37"}})
	if err != nil {
		return
	}
	resp.Body.Close()
}
