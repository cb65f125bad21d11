package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/voxvote/parliament-pipeline/pkg/core/hansard"
	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/mediafetch"
	"github.com/voxvote/parliament-pipeline/pkg/core/speaker"
	"github.com/voxvote/parliament-pipeline/pkg/core/summarize"
	"github.com/voxvote/parliament-pipeline/pkg/core/vote"
)

// StageFunc executes the work belonging to a debate's current status. The
// orchestrator has already written the entering status before calling it.
type StageFunc func(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error

var stageFuncs = map[legislature.Status]StageFunc{
	legislature.StatusScrapingHansard: stageScrapingHansard,
	legislature.StatusIngesting:       stageIngesting,
	legislature.StatusTranscribing:    stageTranscribing,
	legislature.StatusProcessing:      stageProcessing,
	legislature.StatusSummarizing:     stageSummarizing,
	legislature.StatusCategorizing:    stageCategorizing,
	legislature.StatusPublishing:      stagePublishing,
}

// stageScrapingHansard pulls the already speaker-attributed official
// transcript, producing speakers, contributions and topic sections in one
// pass. No alignment is needed: the source already resolved who said what.
func stageScrapingHansard(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error {
	switch leg.Code {
	case "CA":
		hansardNumber, _ := debate.Metadata["hansard_number"].(string)
		result, err := hansard.ScrapeForDate(debate.Date.Format("2006-01-02"), hansardNumber)
		if err != nil {
			return fmt.Errorf("scraping hansard feed: %w", err)
		}
		if len(result.AllSpeeches) == 0 {
			return fmt.Errorf("no speeches found for sitting %s", debate.Date.Format("2006-01-02"))
		}

		speakers, contributions := speaker.FromHansardSpeeches(debate.ID, result.AllSpeeches)
		for i := range speakers {
			if err := o.SpeakerRepo.Upsert(ctx, &speakers[i]); err != nil {
				return fmt.Errorf("storing speaker %q: %w", speakers[i].Name, err)
			}
		}
		if err := o.ContributionRepo.ReplaceAll(ctx, debate.ID, contributions); err != nil {
			return fmt.Errorf("storing contributions: %w", err)
		}

		for i, section := range result.Sections {
			topic := legislature.TopicSection{
				DebateID:        debate.ID,
				Title:           section.TopicTitle,
				ExternalTopicID: section.TopicID,
				Section:         section.Section,
				SpeechCount:     len(section.Speeches),
				SpeakerCount:    section.SpeakerCount,
				PartiesInvolved: section.PartiesInvolved,
				SequenceOrder:   i,
			}
			if err := o.TopicRepo.Upsert(ctx, &topic); err != nil {
				return fmt.Errorf("storing topic section %q: %w", topic.Title, err)
			}
		}

		transcript := legislature.Transcript{
			DebateID: debate.ID,
			Language: "en",
			RawText:  concatSpeeches(result.AllSpeeches),
			Model:    "hansard-scrape",
		}
		if err := o.TranscriptRepo.Upsert(ctx, &transcript); err != nil {
			return fmt.Errorf("storing scraped transcript: %w", err)
		}
		return nil

	default:
		if debate.HansardURL == "" {
			return fmt.Errorf("no hansard URL to scrape for debate %s", debate.ID)
		}
		list, err := speaker.FetchAttributionList(debate.HansardURL, leg.Code)
		if err != nil {
			return fmt.Errorf("fetching attribution list: %w", err)
		}
		if len(list.Interventions) == 0 {
			return fmt.Errorf("no interventions found at %s", debate.HansardURL)
		}

		speakers, contributions := contributionsFromInterventions(debate.ID, list.Interventions, list.Speakers)
		for i := range speakers {
			if err := o.SpeakerRepo.Upsert(ctx, &speakers[i]); err != nil {
				return fmt.Errorf("storing speaker %q: %w", speakers[i].Name, err)
			}
		}
		if err := o.ContributionRepo.ReplaceAll(ctx, debate.ID, contributions); err != nil {
			return fmt.Errorf("storing contributions: %w", err)
		}

		transcript := legislature.Transcript{
			DebateID: debate.ID,
			Language: primaryLanguage(leg),
			RawText:  concatInterventions(list.Interventions),
			Model:    "attribution-scrape",
		}
		if err := o.TranscriptRepo.Upsert(ctx, &transcript); err != nil {
			return fmt.Errorf("storing scraped transcript: %w", err)
		}
		return nil
	}
}

// stageIngesting downloads the debate's video or HLS feed and extracts a
// normalised audio file ready for recognition.
func stageIngesting(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error {
	asset, err := o.Fetcher.Fetch(ctx, *debate, leg.Code)
	if err != nil {
		return fmt.Errorf("acquiring media: %w", err)
	}
	if err := o.MediaRepo.Insert(ctx, &asset); err != nil {
		return fmt.Errorf("recording media asset: %w", err)
	}
	if asset.DurationSeconds > 0 {
		_ = o.DebateRepo.SetDuration(ctx, debate.ID, asset.DurationSeconds)
	}
	return nil
}

// stageTranscribing runs speech recognition over the acquired audio, once
// per language the legislature is expected to use.
func stageTranscribing(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error {
	asset, err := o.MediaRepo.LatestReady(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading ready media asset: %w", err)
	}

	recognizer := mediafetch.GetRecognizer()
	for _, lang := range mediafetch.ExpectedLanguages(leg.Code) {
		transcript, err := recognizer.Recognize(ctx, asset.LocalPath, lang)
		if err != nil {
			return fmt.Errorf("recognising %s audio: %w", lang, err)
		}
		transcript.DebateID = debate.ID
		transcript.Language = lang
		if err := o.TranscriptRepo.Upsert(ctx, &transcript); err != nil {
			return fmt.Errorf("storing %s transcript: %w", lang, err)
		}
	}
	return nil
}

// stageProcessing extracts votes for every variant, plus, for the
// audio-first variant, aligns recognised segments to speakers since that
// work was already done by stageScrapingHansard in the transcript-first
// case.
func stageProcessing(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error {
	if metadataVariant(*debate, leg) == VariantAudio {
		if err := alignAudioContributions(ctx, o, debate, leg); err != nil {
			return err
		}
	}

	votes := vote.Extract(ctx, *debate, leg)
	for i := range votes {
		votes[i].DebateID = debate.ID
		if err := o.VoteRepo.Upsert(ctx, &votes[i]); err != nil {
			return fmt.Errorf("storing vote: %w", err)
		}
	}
	return nil
}

func alignAudioContributions(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error {
	transcripts, err := o.TranscriptRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading transcripts: %w", err)
	}
	if len(transcripts) == 0 {
		return fmt.Errorf("no transcripts available to align for debate %s", debate.ID)
	}
	primary := transcripts[0]
	for _, t := range transcripts {
		if t.Language == primaryLanguage(leg) {
			primary = t
			break
		}
	}

	var attribution *speaker.AttributionList
	if debate.HansardURL != "" {
		if list, err := speaker.FetchAttributionList(debate.HansardURL, leg.Code); err == nil {
			attribution = list
		}
	}

	var knownSpeakers []string
	var interventions []speaker.Intervention
	if attribution != nil {
		interventions = attribution.Interventions
		for _, a := range attribution.Speakers {
			knownSpeakers = append(knownSpeakers, a.Name)
		}
	}

	segments := make([]speaker.Segment, len(primary.Segments))
	for i, s := range primary.Segments {
		segments[i] = speaker.Segment{Start: int(s.Start), End: int(s.End), Text: s.Text}
	}

	aligned := speaker.AlignSegments(segments, interventions, knownSpeakers)

	seen := map[string]bool{}
	var names []string
	for _, a := range aligned {
		if a.SpeakerName != "" && !seen[a.SpeakerName] {
			seen[a.SpeakerName] = true
			names = append(names, a.SpeakerName)
		}
	}

	var speakerAttributions []speaker.Attribution
	if attribution != nil {
		speakerAttributions = attribution.Speakers
	}
	speakers, speakerIDs := speaker.BuildSpeakers(debate.ID, names, speakerAttributions)
	for i := range speakers {
		if err := o.SpeakerRepo.Upsert(ctx, &speakers[i]); err != nil {
			return fmt.Errorf("storing speaker %q: %w", speakers[i].Name, err)
		}
	}

	contributions := speaker.CoalesceSegments(debate.ID, aligned, speakerIDs)
	for _, t := range transcripts {
		if t.Language == primary.Language {
			continue
		}
		secondarySegments := make([]speaker.Segment, len(t.Segments))
		for i, s := range t.Segments {
			secondarySegments[i] = speaker.Segment{Start: int(s.Start), End: int(s.End), Text: s.Text}
		}
		secondaryAligned := speaker.AlignSegments(secondarySegments, interventions, knownSpeakers)
		speaker.AttachSecondaryLanguage(contributions, secondaryAligned)
	}

	return o.ContributionRepo.ReplaceAll(ctx, debate.ID, contributions)
}

// stageSummarizing produces one lay-audience summary per language the
// legislature is tracked in.
func stageSummarizing(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error {
	transcripts, err := o.TranscriptRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading transcripts: %w", err)
	}
	contributions, err := o.ContributionRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading contributions: %w", err)
	}
	votes, err := o.VoteRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading votes: %w", err)
	}

	languages := leg.DefaultLanguages
	if len(languages) == 0 {
		languages = []string{"en"}
	}

	for _, lang := range languages {
		summary, err := summarize.GenerateSummary(ctx, o.AgentManager, *debate, leg.Name, transcripts, contributions, votes, lang)
		if err != nil {
			return fmt.Errorf("generating %s summary: %w", lang, err)
		}
		if err := o.SummaryRepo.Upsert(ctx, &summary); err != nil {
			return fmt.Errorf("storing %s summary: %w", lang, err)
		}
	}
	return nil
}

// stageCategorizing assigns 1-3 forum topic slugs using the English summary.
func stageCategorizing(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error {
	summaries, err := o.SummaryRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading summaries: %w", err)
	}
	var enSummary legislature.Summary
	for _, s := range summaries {
		if s.Language == "en" {
			enSummary = s
			break
		}
	}

	transcripts, err := o.TranscriptRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading transcripts: %w", err)
	}
	contributions, err := o.ContributionRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading contributions: %w", err)
	}

	categories := summarize.Categorize(ctx, o.AgentManager, *debate, transcripts, enSummary, contributions)
	if err := o.CategoryRepo.ReplaceAll(ctx, debate.ID, categories); err != nil {
		return fmt.Errorf("storing categories: %w", err)
	}
	return nil
}

// stagePublishing assembles and inserts the forum post.
func stagePublishing(ctx context.Context, o *Orchestrator, debate *legislature.Debate, leg legislature.Legislature) error {
	summaries, err := o.SummaryRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading summaries: %w", err)
	}
	var enSummary legislature.Summary
	var frSummary *legislature.Summary
	for i := range summaries {
		switch summaries[i].Language {
		case "en":
			enSummary = summaries[i]
		case "fr":
			frSummary = &summaries[i]
		}
	}

	votes, err := o.VoteRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading votes: %w", err)
	}
	topics, err := o.TopicRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading topics: %w", err)
	}
	contributions, err := o.ContributionRepo.ListForDebate(ctx, debate.ID)
	if err != nil {
		return fmt.Errorf("loading contributions: %w", err)
	}
	primary, err := o.CategoryRepo.Primary(ctx, debate.ID)
	if err != nil {
		primary = nil
	}

	post, err := o.Publisher.Publish(ctx, *debate, leg, enSummary, frSummary, votes, topics, contributions, primary)
	if upsertErr := o.ForumRepo.Upsert(ctx, &post); upsertErr != nil {
		return fmt.Errorf("recording forum post: %w", upsertErr)
	}
	if err != nil {
		return fmt.Errorf("publishing forum post: %w", err)
	}
	return nil
}

// contributionsFromInterventions builds speakers and contributions directly
// from an already speaker-attributed provincial transcript page, dropping
// fragments too short to stand on their own.
func contributionsFromInterventions(debateID string, interventions []speaker.Intervention, attributions []speaker.Attribution) ([]legislature.Speaker, []legislature.Contribution) {
	sorted := make([]speaker.Intervention, len(interventions))
	copy(sorted, interventions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	seen := map[string]bool{}
	var names []string
	for _, iv := range sorted {
		if iv.SpeakerName != "" && !seen[iv.SpeakerName] {
			seen[iv.SpeakerName] = true
			names = append(names, iv.SpeakerName)
		}
	}
	speakers, speakerIDs := speaker.BuildSpeakers(debateID, names, attributions)

	var contributions []legislature.Contribution
	order := 0
	for _, iv := range sorted {
		if len(strings.Fields(iv.Text)) < 3 {
			continue
		}
		contributions = append(contributions, legislature.Contribution{
			ID:            uuid.NewString(),
			DebateID:      debateID,
			SpeakerID:     speakerIDs[iv.SpeakerName],
			SpeakerName:   iv.SpeakerName,
			Text:          iv.Text,
			SequenceOrder: order,
		})
		order++
	}
	return speakers, contributions
}

func concatSpeeches(speeches []hansard.Speech) string {
	var b strings.Builder
	for _, s := range speeches {
		fmt.Fprintf(&b, "%s: %s\n", s.SpeakerName, s.Text)
	}
	return b.String()
}

func concatInterventions(interventions []speaker.Intervention) string {
	var b strings.Builder
	for _, iv := range interventions {
		fmt.Fprintf(&b, "%s: %s\n", iv.SpeakerName, iv.Text)
	}
	return b.String()
}

func primaryLanguage(leg legislature.Legislature) string {
	if len(leg.DefaultLanguages) > 0 {
		return leg.DefaultLanguages[0]
	}
	return "en"
}
