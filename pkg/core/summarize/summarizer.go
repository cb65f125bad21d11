// Package summarize turns a debate's transcripts, contributions and votes
// into a layperson-friendly summary, then assigns forum topic categories.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/voxvote/parliament-pipeline/pkg/core/agent"
	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/prompt"
	"github.com/voxvote/parliament-pipeline/pkg/core/summarize/prompts"
	"github.com/voxvote/parliament-pipeline/pkg/core/utils"
)

func init() {
	if err := prompts.Load(); err != nil {
		panic(fmt.Sprintf("summarize: failed to load bundled prompts: %v", err))
	}
}

const maxTranscriptChars = 80_000
const maxLeadingContributions = 50
const contributionPreviewChars = 300

// summaryResponse is the JSON shape the LLM is instructed to return.
type summaryResponse struct {
	Summary         string                          `json:"summary"`
	KeyParticipants []legislature.KeyParticipant     `json:"key_participants"`
	KeyIssues       []legislature.KeyIssue           `json:"key_issues"`
	Outcome         *string                          `json:"outcome"`
}

// GenerateSummary produces one language's summary of a debate. On malformed
// LLM output it degrades to a raw-text summary with empty participant/issue
// lists rather than failing the pipeline.
func GenerateSummary(
	ctx context.Context,
	manager *agent.Manager,
	debate legislature.Debate,
	legislatureName string,
	transcripts []legislature.Transcript,
	contributions []legislature.Contribution,
	votes []legislature.Vote,
	language string,
) (legislature.Summary, error) {
	systemPrompt, err := prompt.GetSummarizerPrompt(language)
	if err != nil {
		return legislature.Summary{}, fmt.Errorf("summarize: missing system prompt for %q: %w", language, err)
	}

	userPrompt := buildSummaryUserPrompt(debate, legislatureName, transcripts, contributions, votes, language)

	raw, err := manager.ExecutePrompt(ctx, "summarize", userPrompt, systemPrompt, map[string]interface{}{
		"temperature": 0.3,
		"max_tokens":  4000,
	})
	if err != nil {
		return legislature.Summary{}, fmt.Errorf("summarize: LLM call failed: %w", err)
	}

	var parsed summaryResponse
	if _, err := utils.SmartParse(utils.CleanMarkdown(raw), &parsed); err != nil {
		return legislature.Summary{
			DebateID:    debate.ID,
			Language:    language,
			SummaryText: raw,
			Model:       manager.GetActiveProvider(),
		}, nil
	}

	outcome := ""
	if parsed.Outcome != nil {
		outcome = *parsed.Outcome
	}

	return legislature.Summary{
		DebateID:        debate.ID,
		Language:        language,
		SummaryText:     parsed.Summary,
		KeyParticipants: parsed.KeyParticipants,
		KeyIssues:       parsed.KeyIssues,
		OutcomeText:     outcome,
		Model:           manager.GetActiveProvider(),
	}, nil
}

func buildSummaryUserPrompt(
	debate legislature.Debate,
	legislatureName string,
	transcripts []legislature.Transcript,
	contributions []legislature.Contribution,
	votes []legislature.Vote,
	language string,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Debate Information\n")
	fmt.Fprintf(&b, "Legislature: %s (%s)\n", legislatureName, debate.LegislatureCode)
	fmt.Fprintf(&b, "Title: %s\n", debate.Title)
	fmt.Fprintf(&b, "Date: %s\n", debate.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Type: %s\n", debate.SessionKind)

	if len(votes) > 0 {
		fmt.Fprintf(&b, "\n## Votes\n")
		for _, v := range votes {
			motion := v.MotionText
			if motion == "" {
				motion = v.MotionTextFR
			}
			if motion == "" {
				motion = "Unknown motion"
			}
			fmt.Fprintf(&b, "- Vote: %s - Yea: %d, Nay: %d - Result: %s\n", motion, v.YeaTotal, v.NayTotal, v.Result)
		}
	}

	if len(contributions) > 0 {
		limit := maxLeadingContributions
		if limit > len(contributions) {
			limit = len(contributions)
		}
		fmt.Fprintf(&b, "\n## Key Speaker Contributions (first %d)\n", limit)
		for _, c := range contributions[:limit] {
			preview := clipRunes(c.Text, contributionPreviewChars)
			fmt.Fprintf(&b, "[%s]: %s\n", c.SpeakerName, preview)
		}
	}

	if len(transcripts) > 0 {
		fmt.Fprintf(&b, "\n## Transcript Excerpt\n")
		perTranscript := maxTranscriptChars / len(transcripts)
		for _, t := range transcripts {
			if t.RawText == "" {
				continue
			}
			fmt.Fprintf(&b, "--- Transcript (%s) ---\n", t.Language)
			b.WriteString(clipRunes(t.RawText, perTranscript))
			b.WriteString("\n")
		}
	}

	langLabel := "English"
	if language == "fr" {
		langLabel = "French"
	}
	fmt.Fprintf(&b, "\n## Task\nGenerate the summary in %s. Respond with the JSON object only.\n", langLabel)

	return b.String()
}

func clipRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

