// Package speaker builds the canonical Speaker and Contribution records for
// a debate, either directly from Hansard speeches or by aligning recognised
// transcript segments against an official attribution list.
package speaker

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var titlePrefixRe = regexp.MustCompile(`(?i)^(the\s+)?(right\s+)?(honourable|hon\.?|mr\.?|mrs\.?|ms\.?|mme\.?|m\.?)\s+`)
var whitespaceRunRe = regexp.MustCompile(`\s+`)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName folds a speaker label down to a comparison key: strip
// diacritics, lower-case, strip a leading honorific, collapse whitespace.
// Used both to key the debate_speakers upsert and to compare a Hansard
// name against a name spoken inline in a transcript segment.
func NormalizeName(name string) string {
	ascii, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		ascii = name
	}
	normalized := strings.ToLower(strings.TrimSpace(ascii))
	normalized = titlePrefixRe.ReplaceAllString(normalized, "")
	normalized = whitespaceRunRe.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// textSimilarity is a Jaccard word-set similarity between two texts,
// case-insensitive, whitespace-tokenized.
func textSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}

var inlineSpeakerRe = regexp.MustCompile(`^([A-Z][^:]{2,40}):\s`)

// detectInlineSpeaker looks for a "Mr. Smith: ..." style prefix at the
// start of a segment's text.
func detectInlineSpeaker(text string) (string, bool) {
	m := inlineSpeakerRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
