package hansard

import "sort"

var sectionPriority = map[string]int{
	"Government Orders":          0,
	"Oral Question Period":       1,
	"Routine Proceedings":        2,
	"Private Members' Business":  3,
	"Statements by Members":      4,
	"Adjournment Proceedings":    5,
	"General":                    6,
}

// groupByTopic buckets speeches under every topic tag they carry; speeches
// without a tag fall into a synthetic per-section bucket.
func groupByTopic(speeches []Speech) []TopicGroup {
	type accumulator struct {
		group    TopicGroup
		speakers map[string]struct{}
		parties  map[string]struct{}
	}

	groups := map[string]*accumulator{}

	ensure := func(key, title, topicID, section string) *accumulator {
		if acc, ok := groups[key]; ok {
			return acc
		}
		acc := &accumulator{
			group:    TopicGroup{TopicTitle: title, TopicID: topicID, Section: section},
			speakers: map[string]struct{}{},
			parties:  map[string]struct{}{},
		}
		groups[key] = acc
		return acc
	}

	add := func(acc *accumulator, s Speech) {
		acc.group.Speeches = append(acc.group.Speeches, s)
		acc.speakers[s.SpeakerName] = struct{}{}
		if s.Party != "" {
			acc.parties[s.Party] = struct{}{}
		}
	}

	for _, s := range speeches {
		if len(s.Topics) == 0 {
			key := "__section__" + s.Section
			acc := ensure(key, s.Section, "", s.Section)
			add(acc, s)
			continue
		}
		for _, t := range s.Topics {
			key := t.ID
			if key == "" {
				key = t.Title
			}
			acc := ensure(key, t.Title, t.ID, s.Section)
			add(acc, s)
		}
	}

	var result []TopicGroup
	for _, acc := range groups {
		var parties []string
		for p := range acc.parties {
			parties = append(parties, p)
		}
		sort.Strings(parties)
		acc.group.SpeakerCount = len(acc.speakers)
		acc.group.PartiesInvolved = parties
		sort.SliceStable(acc.group.Speeches, func(i, j int) bool {
			a, b := acc.group.Speeches[i], acc.group.Speeches[j]
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			return a.Time < b.Time
		})
		result = append(result, acc.group)
	}

	sort.SliceStable(result, func(i, j int) bool {
		pi, pj := sectionPriority[result[i].Section], sectionPriority[result[j].Section]
		if _, ok := sectionPriority[result[i].Section]; !ok {
			pi = 99
		}
		if _, ok := sectionPriority[result[j].Section]; !ok {
			pj = 99
		}
		if pi != pj {
			return pi < pj
		}
		return len(result[i].Speeches) > len(result[j].Speeches)
	})

	return result
}

// extractUniqueSpeakers collects one summary row per distinct speaker,
// ranked by how often they spoke.
func extractUniqueSpeakers(speeches []Speech) []SpeakerSummary {
	seen := map[string]*SpeakerSummary{}
	var order []string

	for _, s := range speeches {
		sum, ok := seen[s.SpeakerName]
		if !ok {
			sum = &SpeakerSummary{
				Name:      s.SpeakerName,
				Riding:    s.Riding,
				Party:     s.Party,
				Province:  s.Province,
				MemberID:  s.MemberID,
				MemberURL: s.MemberURL,
			}
			seen[s.SpeakerName] = sum
			order = append(order, s.SpeakerName)
		}
		sum.SpeechCount++
	}

	out := make([]SpeakerSummary, 0, len(order))
	for _, name := range order {
		out = append(out, *seen[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SpeechCount > out[j].SpeechCount })
	return out
}
