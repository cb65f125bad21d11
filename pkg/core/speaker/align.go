package speaker

import "strings"

const similarityThreshold = 0.30

// Segment is one recognised span of transcript text awaiting a speaker.
type Segment struct {
	Start int // seconds from start of recording
	End   int
	Text  string
}

// AlignedSegment is a Segment after a speaker has been attached.
type AlignedSegment struct {
	Segment
	SpeakerName string
	Matched     bool
}

// AlignSegments assigns a speaker to every recognised segment by walking an
// ordered list of known interventions alongside the segments and comparing
// text similarity, then overriding with any inline "Name: ..." prefix found
// directly in the segment text. The intervention cursor only ever advances,
// matching the linear reading order of a real debate.
func AlignSegments(segments []Segment, interventions []Intervention, knownSpeakers []string) []AlignedSegment {
	out := make([]AlignedSegment, len(segments))
	cursor := 0
	lastSpeaker := ""

	for i, seg := range segments {
		speaker := ""
		matched := false

		best, bestIdx, bestScore := bestIntervention(interventions, cursor, seg.Text)
		if best != nil && bestScore >= similarityThreshold {
			speaker = best.SpeakerName
			matched = true
			cursor = bestIdx + 1
		} else {
			speaker = lastSpeaker
		}

		if inline, ok := detectInlineSpeaker(seg.Text); ok {
			if resolved, ok := resolveKnownSpeaker(inline, knownSpeakers); ok {
				speaker = resolved
				matched = true
			}
		}

		out[i] = AlignedSegment{Segment: seg, SpeakerName: speaker, Matched: matched}
		if speaker != "" {
			lastSpeaker = speaker
		}
	}

	return out
}

// bestIntervention scans forward from cursor (never backward) for the
// intervention whose text best matches segment text, capping the lookahead
// window so one mis-ordered segment cannot derail the whole alignment.
func bestIntervention(interventions []Intervention, cursor int, text string) (*Intervention, int, float64) {
	const lookahead = 5
	var best *Intervention
	bestIdx := -1
	bestScore := 0.0

	end := cursor + lookahead
	if end > len(interventions) {
		end = len(interventions)
	}

	clippedText := clip(text, 200)
	for i := cursor; i < end; i++ {
		score := textSimilarity(clippedText, clip(interventions[i].Text, 200))
		if score > bestScore {
			bestScore = score
			best = &interventions[i]
			bestIdx = i
		}
	}

	return best, bestIdx, bestScore
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// resolveKnownSpeaker matches an inline-detected name against the known
// speaker list, first by exact normalized form then by substring.
func resolveKnownSpeaker(name string, known []string) (string, bool) {
	normalized := NormalizeName(name)

	for _, k := range known {
		if NormalizeName(k) == normalized {
			return k, true
		}
	}

	for _, k := range known {
		nk := NormalizeName(k)
		if nk != "" && (strings.Contains(normalized, nk) || strings.Contains(nk, normalized)) {
			return k, true
		}
	}

	return "", false
}
