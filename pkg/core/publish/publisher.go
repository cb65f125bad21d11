// Package publish assembles a debate's summaries, votes, topics and key
// quotes into a forum post and inserts it through the forum interface.
package publish

import (
	"context"
	"fmt"
	"sort"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

const (
	maxKeyQuotes            = 6
	minQuoteChars           = 50
	quotePreviewChars       = 300
	maxContributionsInPost  = 100
)

// KeyQuote is one diverse, substantive excerpt surfaced in a published post.
type KeyQuote struct {
	SpeakerName string
	Party       string
	Riding      string
	Section     string
	Text        string
}

// CodeToProvince maps a provincial legislature code to its display name.
var CodeToProvince = map[string]string{
	"ON": "Ontario",
	"QC": "Quebec",
	"BC": "British Columbia",
	"AB": "Alberta",
}

// Publisher renders a debate into a forum post and inserts it through a
// ForumClient.
type Publisher struct {
	Client ForumClient
}

// NewPublisher builds a Publisher backed by the given forum client.
func NewPublisher(client ForumClient) *Publisher {
	return &Publisher{Client: client}
}

// Publish assembles, renders and inserts a debate's forum post, returning
// the created forum post record with its issue id populated.
func (p *Publisher) Publish(
	ctx context.Context,
	debate legislature.Debate,
	leg legislature.Legislature,
	enSummary legislature.Summary,
	frSummary *legislature.Summary,
	votes []legislature.Vote,
	topics []legislature.TopicSection,
	contributions []legislature.Contribution,
	primary *legislature.CategoryAssignment,
) (legislature.ForumPost, error) {
	if len(contributions) > maxContributionsInPost {
		contributions = contributions[:maxContributionsInPost]
	}

	quotes := SelectKeyQuotes(contributions, maxKeyQuotes)

	html, err := RenderDebatePost(PostInput{
		Debate:        debate,
		Legislature:   leg,
		EnSummary:     enSummary,
		FrSummary:     frSummary,
		Votes:         votes,
		Topics:        topics,
		KeyQuotes:     quotes,
	})
	if err != nil {
		return legislature.ForumPost{}, fmt.Errorf("publish: rendering post: %w", err)
	}

	topicSlug := "general"
	if primary != nil && primary.TopicSlug != "" {
		topicSlug = primary.TopicSlug
	}

	governmentLevel := string(leg.Level)
	province := ""
	if leg.Level == legislature.LevelProvincial {
		province = CodeToProvince[leg.Code]
	}

	issue := Issue{
		Title:           BuildPostTitle(debate, leg.Code),
		Narrative:       html,
		Type:            "Debate",
		Topic:           topicSlug,
		GovernmentLevel: governmentLevel,
		Province:        province,
		VideoURL:        debate.VideoURL,
	}

	issueID, err := p.Client.CreateIssue(ctx, issue)
	if err != nil {
		return legislature.ForumPost{
			DebateID: debate.ID,
			Status:   legislature.ForumPostFailed,
			PostHTML: html,
		}, fmt.Errorf("publish: creating forum issue: %w", err)
	}

	return legislature.ForumPost{
		DebateID: debate.ID,
		IssueID:  issueID,
		Status:   legislature.ForumPostCreated,
		PostHTML: html,
	}, nil
}

// BuildPostTitle formats the forum post title: "[DEBATE] [CODE] Title".
func BuildPostTitle(debate legislature.Debate, legislatureCode string) string {
	return fmt.Sprintf("[DEBATE] [%s] %s", legislatureCode, cleanTitle(debate))
}

func cleanTitle(debate legislature.Debate) string {
	title := debate.Title
	dateStr := debate.Date.Format("2006-01-02")
	suffix := " - " + dateStr
	if len(title) > len(suffix) && title[len(title)-len(suffix):] == suffix {
		title = title[:len(title)-len(suffix)]
	}
	return title
}

// SelectKeyQuotes filters contributions to substantive text, sorts by
// length descending, then greedily picks one per distinct party until max
// quotes are chosen, backfilling with distinct speakers if parties run out.
func SelectKeyQuotes(contributions []legislature.Contribution, max int) []KeyQuote {
	var candidates []KeyQuote
	for _, c := range contributions {
		if len(c.Text) < minQuoteChars {
			continue
		}
		candidates = append(candidates, KeyQuote{
			SpeakerName: c.SpeakerName,
			Party:       stringMeta(c.Metadata, "party"),
			Riding:      stringMeta(c.Metadata, "riding"),
			Section:     stringMeta(c.Metadata, "section"),
			Text:        previewText(c.Text, quotePreviewChars),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return len(candidates[i].Text) > len(candidates[j].Text) })

	var selected []KeyQuote
	seenSpeakers := map[string]bool{}
	seenParties := map[string]bool{}

	for _, q := range candidates {
		if q.Party != "" && !seenParties[q.Party] && !seenSpeakers[q.SpeakerName] {
			selected = append(selected, q)
			seenSpeakers[q.SpeakerName] = true
			seenParties[q.Party] = true
			if len(selected) >= max {
				return selected
			}
		}
	}

	if len(selected) < max {
		for _, q := range candidates {
			if !seenSpeakers[q.SpeakerName] {
				selected = append(selected, q)
				seenSpeakers[q.SpeakerName] = true
				if len(selected) >= max {
					break
				}
			}
		}
	}

	return selected
}

func previewText(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}

func stringMeta(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
