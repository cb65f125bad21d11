package hansard

import (
	"regexp"
	"strings"
)

var honorificPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(the\s+)?right\s+honourable\s+`),
	regexp.MustCompile(`(?i)^(the\s+)?right\s+hon\.\s*`),
	regexp.MustCompile(`(?i)^(the\s+)?honourable\s+`),
	regexp.MustCompile(`(?i)^(the\s+)?hon\.\s*`),
	regexp.MustCompile(`(?i)^mr\.\s*`),
	regexp.MustCompile(`(?i)^mrs\.\s*`),
	regexp.MustCompile(`(?i)^ms\.\s*`),
	regexp.MustCompile(`(?i)^mme\s+`),
	regexp.MustCompile(`(?i)^m\.\s+`),
	regexp.MustCompile(`(?i)^l'honorable\s+`),
	regexp.MustCompile(`(?i)^le\s+très\s+honorable\s+`),
}

var trailingParenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// CleanSpeakerName strips honorific prefixes, trailing role parentheticals
// and a trailing colon from a raw Hansard speaker label. Shared with the
// speaker alignment package so both sides of a cross-reference agree on
// the same canonical form.
func CleanSpeakerName(raw string) string {
	name := strings.TrimSpace(raw)
	for _, re := range honorificPrefixes {
		name = strings.TrimSpace(re.ReplaceAllString(name, ""))
	}
	name = strings.TrimSpace(trailingParenRe.ReplaceAllString(name, ""))
	name = strings.TrimSpace(strings.TrimSuffix(name, ":"))
	return name
}

var speakerRidingRe = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*$`)

// parseSpeakerRiding splits a "Name (Riding)" label into its two parts.
func parseSpeakerRiding(text string) (name, riding string) {
	text = strings.TrimSpace(text)
	if m := speakerRidingRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return text, ""
}
