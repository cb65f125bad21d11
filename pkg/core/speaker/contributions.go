package speaker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/voxvote/parliament-pipeline/pkg/core/hansard"
	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// minContributionWords drops fragments too short to be worth keeping as
// their own contribution (interjections, "hear, hear", procedural asides).
const minContributionWords = 3

// FromHansardSpeeches builds the Speaker and Contribution set directly from
// already-attributed Hansard speeches, the transcript-first path where no
// alignment is needed.
func FromHansardSpeeches(debateID string, speeches []hansard.Speech) ([]legislature.Speaker, []legislature.Contribution) {
	speakers := map[string]*legislature.Speaker{}
	var speakerOrder []string
	var contributions []legislature.Contribution

	for i, s := range speeches {
		if wordCount(s.Text) < minContributionWords {
			continue
		}

		if _, ok := speakers[s.SpeakerName]; !ok {
			speakers[s.SpeakerName] = &legislature.Speaker{
				ID:             uuid.NewString(),
				DebateID:       debateID,
				Name:           s.SpeakerName,
				NormalisedName: NormalizeName(s.SpeakerName),
				Party:          s.Party,
				Riding:         s.Riding,
				ExternalID:     s.MemberID,
			}
			speakerOrder = append(speakerOrder, s.SpeakerName)
		}

		contributions = append(contributions, legislature.Contribution{
			ID:            uuid.NewString(),
			DebateID:      debateID,
			SpeakerID:     speakers[s.SpeakerName].ID,
			SpeakerName:   s.SpeakerName,
			Text:          s.Text,
			SequenceOrder: i,
		})
	}

	out := make([]legislature.Speaker, 0, len(speakerOrder))
	for _, name := range speakerOrder {
		out = append(out, *speakers[name])
	}
	return out, contributions
}

// CoalesceSegments folds consecutive aligned segments by the same speaker
// into single contributions, dropping any whose combined text is too short
// to be meaningful on its own.
func CoalesceSegments(debateID string, aligned []AlignedSegment, speakerIDs map[string]string) []legislature.Contribution {
	var contributions []legislature.Contribution
	order := 0

	flush := func(speaker string, texts []string, start, end int) {
		text := strings.TrimSpace(strings.Join(texts, " "))
		if wordCount(text) < minContributionWords {
			return
		}
		startF, endF := float64(start), float64(end)
		contributions = append(contributions, legislature.Contribution{
			ID:            uuid.NewString(),
			DebateID:      debateID,
			SpeakerID:     speakerIDs[speaker],
			SpeakerName:   speaker,
			Text:          text,
			StartSeconds:  &startF,
			EndSeconds:    &endF,
			SequenceOrder: order,
		})
		order++
	}

	var curSpeaker string
	var curTexts []string
	curStart, curEnd := 0, 0
	open := false

	for _, seg := range aligned {
		if !open {
			curSpeaker, curTexts, curStart, curEnd, open = seg.SpeakerName, []string{seg.Text}, seg.Start, seg.End, true
			continue
		}
		if seg.SpeakerName == curSpeaker {
			curTexts = append(curTexts, seg.Text)
			curEnd = seg.End
			continue
		}
		flush(curSpeaker, curTexts, curStart, curEnd)
		curSpeaker, curTexts, curStart, curEnd = seg.SpeakerName, []string{seg.Text}, seg.Start, seg.End
	}
	if open {
		flush(curSpeaker, curTexts, curStart, curEnd)
	}

	return contributions
}

// AttachSecondaryLanguage appends the secondary-language text of any aligned
// segment that time-overlaps a contribution's span onto that contribution's
// TextFR field, for bilingual debates recognised in both languages.
func AttachSecondaryLanguage(contributions []legislature.Contribution, secondary []AlignedSegment) {
	for i := range contributions {
		c := &contributions[i]
		if c.StartSeconds == nil || c.EndSeconds == nil {
			continue
		}
		var parts []string
		for _, seg := range secondary {
			if overlaps(int(*c.StartSeconds), int(*c.EndSeconds), seg.Start, seg.End) {
				parts = append(parts, seg.Text)
			}
		}
		if len(parts) > 0 {
			c.TextFR = strings.TrimSpace(strings.Join(parts, " "))
		}
	}
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// BuildSpeakers produces deterministic Speaker records for a set of distinct
// speaker names, enriching each with attribution-list metadata when the
// normalised name matches a known attribution.
func BuildSpeakers(debateID string, names []string, attributions []Attribution) ([]legislature.Speaker, map[string]string) {
	byNormalized := map[string]Attribution{}
	for _, a := range attributions {
		byNormalized[NormalizeName(a.Name)] = a
	}

	speakers := make([]legislature.Speaker, 0, len(names))
	ids := make(map[string]string, len(names))

	for _, name := range names {
		if name == "" {
			continue
		}
		id := uuid.NewString()
		ids[name] = id
		speaker := legislature.Speaker{
			ID:             id,
			DebateID:       debateID,
			Name:           name,
			NormalisedName: NormalizeName(name),
		}
		if a, ok := byNormalized[speaker.NormalisedName]; ok {
			speaker.Party = a.Party
			speaker.RoleHint = a.Role
		}
		speakers = append(speakers, speaker)
	}

	return speakers, ids
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
