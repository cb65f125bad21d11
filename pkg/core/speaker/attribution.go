package speaker

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/voxvote/parliament-pipeline/pkg/core/hansard"
)

const userAgent = "Vox.Vote Parliament Tracker/1.0"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Intervention is one attributed speech turn read from an official
// attribution list (as opposed to a recognised transcript segment).
type Intervention struct {
	SpeakerName string
	Text        string
	Order       int
}

// Attribution is one known speaker surfaced by the official list, with
// enough context to seed a debate_speakers row.
type Attribution struct {
	Name  string
	Party string
	Role  string
	Order int
}

// AttributionList is the parsed official record for one debate: who spoke,
// in what order, and what they said, used to align against recognised
// audio segments when no direct transcript scrape is available.
type AttributionList struct {
	Speakers      []Attribution
	Interventions []Intervention
	Available     bool
}

type blockSelectors struct {
	block       string
	speakerName []string
	affiliation []string
	textEl      string
	speakerRole func(name string) string
}

var federalSelectors = blockSelectors{
	block:       ".Intervention, .intervention, [class*='intervention'], .HansardContent, .hansard-content",
	speakerName: []string{".Affiliation", ".PersonSpeaking", ".SpeakerName", "strong:first-child", "b:first-child", ".intervention-header"},
	affiliation: []string{".Affiliation", ".PartyAffiliation", ".riding"},
	textEl:      "p, .Paratext, .content",
	speakerRole: func(name string) string {
		lower := strings.ToLower(name)
		switch {
		case strings.Contains(lower, "speaker") || strings.Contains(lower, "président"):
			return "Speaker"
		case strings.Contains(lower, "minister") || strings.Contains(lower, "ministre"):
			return "Minister"
		default:
			return "MP"
		}
	},
}

var ontarioSelectors = blockSelectors{
	block:       ".hansard-block, .member-speech, .intervention, div[class*='speech'], div[class*='intervention']",
	speakerName: []string{".member-name", ".speaker-name", "strong:first-child", "b:first-child"},
	affiliation: []string{".party", ".affiliation"},
	textEl:      "p",
	speakerRole: func(name string) string {
		if strings.Contains(strings.ToLower(name), "speaker") {
			return "Speaker"
		}
		return "MPP"
	},
}

var quebecSelectors = blockSelectors{
	block:       ".intervention, .debat-block, div[class*='intervention'], div[class*='debat']",
	speakerName: []string{".orateur", ".locuteur", ".speaker", "strong:first-child", "b:first-child"},
	affiliation: []string{".parti", ".affiliation", ".formation"},
	textEl:      "p",
	speakerRole: func(name string) string {
		lower := strings.ToLower(name)
		switch {
		case strings.Contains(lower, "président"):
			return "Président"
		case strings.Contains(lower, "ministre") || strings.Contains(lower, "premier"):
			return "Ministre"
		default:
			return "MNA"
		}
	},
}

// FetchAttributionList fetches and parses the official Hansard/Journal
// page for a debate's legislature, used as the non-structured fallback
// speaker list in the recogniser-segment alignment path.
func FetchAttributionList(hansardURL, legislatureCode string) (*AttributionList, error) {
	if hansardURL == "" {
		return &AttributionList{Available: false}, nil
	}

	selectors, ok := selectorsForLegislature(legislatureCode)
	if !ok {
		return &AttributionList{Available: false}, nil
	}

	req, err := http.NewRequest(http.MethodGet, hansardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building attribution request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching attribution list from %s: %w", hansardURL, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing attribution list from %s: %w", hansardURL, err)
	}

	return parseAttributionList(doc, selectors), nil
}

func selectorsForLegislature(code string) (blockSelectors, bool) {
	switch code {
	case "CA":
		return federalSelectors, true
	case "ON":
		return ontarioSelectors, true
	case "QC":
		return quebecSelectors, true
	default:
		return blockSelectors{}, false
	}
}

func parseAttributionList(doc *goquery.Document, sel blockSelectors) *AttributionList {
	var speakers []Attribution
	var interventions []Intervention
	seen := map[string]bool{}
	order := 0

	doc.Find(sel.block).Each(func(_ int, block *goquery.Selection) {
		speakerEl := firstMatch(block, sel.speakerName)
		if speakerEl == nil {
			return
		}

		name := hansard.CleanSpeakerName(strings.TrimSpace(speakerEl.Text()))
		if len([]rune(name)) < 2 {
			return
		}

		party := ""
		if affEl := firstMatch(block, sel.affiliation); affEl != nil {
			party = extractParenthetical(strings.TrimSpace(affEl.Text()))
		}

		if !seen[name] {
			speakers = append(speakers, Attribution{
				Name:  name,
				Party: party,
				Role:  sel.speakerRole(name),
				Order: order,
			})
			seen[name] = true
		}

		var parts []string
		block.Find(sel.textEl).Each(func(_ int, p *goquery.Selection) {
			text := strings.TrimSpace(p.Text())
			if text != "" && text != name {
				parts = append(parts, text)
			}
		})

		if len(parts) > 0 {
			interventions = append(interventions, Intervention{
				SpeakerName: name,
				Text:        strings.Join(parts, " "),
				Order:       order,
			})
			order++
		}
	})

	return &AttributionList{Speakers: speakers, Interventions: interventions, Available: true}
}

func firstMatch(block *goquery.Selection, selectors []string) *goquery.Selection {
	for _, s := range selectors {
		if found := block.Find(s).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func extractParenthetical(text string) string {
	start := strings.Index(text, "(")
	end := strings.Index(text, ")")
	if start >= 0 && end > start {
		return strings.TrimSpace(text[start+1 : end])
	}
	return ""
}
