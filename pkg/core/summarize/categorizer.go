package summarize

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/voxvote/parliament-pipeline/pkg/core/agent"
	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/prompt"
	"github.com/voxvote/parliament-pipeline/pkg/core/utils"
)

const (
	keywordWeight          = 0.3
	llmWeight              = 0.7
	categoryThreshold       = 0.1
	maxCategories           = 3
	keywordTranscriptChars  = 20_000
	keywordContributionChars = 500
	keywordMaxContributions = 100
)

var validTopics = map[string]bool{
	"general": true, "healthcare": true, "economy": true, "housing": true,
	"climate": true, "education": true, "transit": true, "immigration": true,
	"indigenous": true, "defense": true, "justice": true, "childcare": true,
	"accessibility": true, "budget": true, "other": true,
}

var keywordMap = map[string][]string{
	"healthcare":    {"health", "hospital", "doctor", "nurse", "medical", "pharmaceutical", "drug", "patient", "santé", "hôpital", "médecin", "infirmière"},
	"economy":       {"economy", "jobs", "employment", "business", "trade", "tariff", "gdp", "inflation", "économie", "emploi", "commerce", "entreprise"},
	"housing":       {"housing", "rent", "mortgage", "affordable", "homeless", "shelter", "logement", "loyer", "hypothèque", "abordable", "itinérant"},
	"climate":       {"climate", "environment", "carbon", "emission", "pollution", "green", "renewable", "energy", "climat", "environnement", "carbone", "émission", "énergie"},
	"education":     {"education", "school", "university", "student", "teacher", "tuition", "éducation", "école", "université", "étudiant", "enseignant"},
	"transit":       {"transit", "transport", "infrastructure", "highway", "road", "bridge", "rail", "autoroute", "route", "pont", "ferroviaire"},
	"immigration":   {"immigration", "refugee", "asylum", "visa", "citizenship", "border", "réfugié", "asile", "citoyenneté", "frontière"},
	"indigenous":    {"indigenous", "first nations", "aboriginal", "treaty", "reconciliation", "autochtone", "premières nations", "traité", "réconciliation"},
	"defense":       {"defense", "military", "security", "nato", "armed forces", "terrorism", "défense", "militaire", "sécurité", "otan", "forces armées", "terrorisme"},
	"justice":       {"justice", "law", "court", "crime", "police", "prison", "criminal", "loi", "tribunal"},
	"childcare":     {"childcare", "child care", "daycare", "parental", "family", "children", "garde d'enfants", "garderie", "parental", "famille", "enfants"},
	"accessibility": {"accessibility", "disability", "disabled", "accommodation", "accessibilité", "handicap", "invalidité"},
	"budget":        {"budget", "tax", "fiscal", "spending", "deficit", "debt", "revenue", "impôt", "dépenses", "déficit", "dette", "revenus"},
}

type llmCategory struct {
	TopicSlug  string  `json:"topic_slug"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type categorizeResponse struct {
	Categories []llmCategory `json:"categories"`
}

// Categorize assigns 1-3 topic slugs to a debate, combining a keyword
// signal over the transcript/contribution text with an LLM classification
// call, each contributing a weighted score per topic.
func Categorize(
	ctx context.Context,
	manager *agent.Manager,
	debate legislature.Debate,
	transcripts []legislature.Transcript,
	enSummary legislature.Summary,
	contributions []legislature.Contribution,
) []legislature.CategoryAssignment {
	keywordScores := keywordClassify(transcripts, enSummary, contributions)
	llmCategories := llmClassify(ctx, manager, debate, enSummary)
	return mergeClassifications(debate.ID, keywordScores, llmCategories)
}

func keywordClassify(transcripts []legislature.Transcript, enSummary legislature.Summary, contributions []legislature.Contribution) map[string]float64 {
	text := strings.ToLower(enSummary.SummaryText)

	for _, t := range transcripts {
		text += " " + strings.ToLower(clipRunes(t.RawText, keywordTranscriptChars))
	}

	limit := keywordMaxContributions
	if limit > len(contributions) {
		limit = len(contributions)
	}
	for _, c := range contributions[:limit] {
		text += " " + strings.ToLower(clipRunes(c.Text, keywordContributionChars))
	}

	scores := map[string]float64{}
	for topic, keywords := range keywordMap {
		count := 0
		for _, kw := range keywords {
			count += strings.Count(text, strings.ToLower(kw))
		}
		if count > 0 {
			scores[topic] = math.Min(1.0, math.Log(1+float64(count))/5.0)
		}
	}
	return scores
}

func llmClassify(ctx context.Context, manager *agent.Manager, debate legislature.Debate, enSummary legislature.Summary) []llmCategory {
	systemPrompt, err := prompt.GetCategorizerPrompt()
	if err != nil {
		return nil
	}

	var issuesText strings.Builder
	for _, issue := range enSummary.KeyIssues {
		fmt.Fprintf(&issuesText, "- %s: %s\n", issue.Issue, issue.Description)
	}

	userPrompt := fmt.Sprintf(
		"Debate: %s\nDate: %s\n\nSummary: %s\n\nKey Issues:\n%s",
		debate.Title,
		debate.Date.Format("2006-01-02"),
		clipRunes(enSummary.SummaryText, 2000),
		issuesText.String(),
	)

	raw, err := manager.ExecutePrompt(ctx, "categorize", userPrompt, systemPrompt, map[string]interface{}{
		"temperature": 0.1,
		"max_tokens":  500,
	})
	if err != nil {
		return nil
	}

	var parsed categorizeResponse
	if _, err := utils.SmartParse(utils.CleanMarkdown(raw), &parsed); err != nil {
		return nil
	}

	var valid []llmCategory
	for _, c := range parsed.Categories {
		if !validTopics[c.TopicSlug] {
			continue
		}
		c.Confidence = math.Min(1.0, math.Max(0.0, c.Confidence))
		valid = append(valid, c)
	}
	return valid
}

func mergeClassifications(debateID string, keywordScores map[string]float64, llmCategories []llmCategory) []legislature.CategoryAssignment {
	merged := map[string]float64{}

	for topic, score := range keywordScores {
		merged[topic] = score * keywordWeight
	}
	for _, c := range llmCategories {
		merged[c.TopicSlug] += c.Confidence * llmWeight
	}

	if len(merged) == 0 {
		return []legislature.CategoryAssignment{{DebateID: debateID, TopicSlug: "general", Confidence: 0.5, IsPrimary: true}}
	}

	type scored struct {
		topic string
		score float64
	}
	var ranked []scored
	for topic, score := range merged {
		ranked = append(ranked, scored{topic, score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > maxCategories {
		ranked = ranked[:maxCategories]
	}

	var categories []legislature.CategoryAssignment
	for i, r := range ranked {
		if r.score < categoryThreshold {
			continue
		}
		categories = append(categories, legislature.CategoryAssignment{
			DebateID:   debateID,
			TopicSlug:  r.topic,
			Confidence: math.Min(1.0, r.score),
			IsPrimary:  i == 0,
		})
	}

	if len(categories) == 0 {
		return []legislature.CategoryAssignment{{DebateID: debateID, TopicSlug: "general", Confidence: 0.5, IsPrimary: true}}
	}

	return categories
}
