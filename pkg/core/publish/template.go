package publish

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// SessionTypeLabels maps a session kind to its display label in a post.
var SessionTypeLabels = map[legislature.SessionKind]string{
	legislature.SessionHouse:          "House Debate",
	legislature.SessionCommittee:      "Committee Meeting",
	legislature.SessionQuestionPeriod: "Question Period",
	legislature.SessionEmergency:      "Emergency Debate",
	legislature.SessionOther:          "Parliamentary Session",
}

// PostInput carries everything the debate post template needs.
type PostInput struct {
	Debate      legislature.Debate
	Legislature legislature.Legislature
	EnSummary   legislature.Summary
	FrSummary   *legislature.Summary
	Votes       []legislature.Vote
	Topics      []legislature.TopicSection
	KeyQuotes   []KeyQuote
}

type templateData struct {
	LegislatureName  string
	LegislatureCode  string
	SessionTypeLabel string
	DateFormatted    string
	DurationFormatted string
	SummaryHTML      template.HTML
	KeyParticipants  []legislature.KeyParticipant
	KeyIssues        []legislature.KeyIssue
	OutcomeText      string
	Votes            []legislature.Vote
	Topics           []legislature.TopicSection
	KeyQuotes        []KeyQuote
	FrSummaryHTML    template.HTML
	HansardURL       string
	VideoURL         string
	SourceURLs       []legislature.SourceURL
}

var postTemplate = template.Must(template.New("debate_post").Parse(`
<div class="debate-post">
  <p class="debate-meta">{{.LegislatureName}} ({{.LegislatureCode}}) &middot; {{.SessionTypeLabel}} &middot; {{.DateFormatted}}{{if .DurationFormatted}} &middot; {{.DurationFormatted}}{{end}}</p>

  {{.SummaryHTML}}

  {{if .KeyParticipants}}
  <h3>Key Participants</h3>
  <ul>
    {{range .KeyParticipants}}<li><strong>{{.Name}}</strong>{{if .Party}} ({{.Party}}{{if .Riding}}, {{.Riding}}{{end}}){{end}}: {{.Stance}}</li>
    {{end}}
  </ul>
  {{end}}

  {{if .KeyIssues}}
  <h3>Key Issues</h3>
  <ul>
    {{range .KeyIssues}}<li><strong>{{.Issue}}</strong>: {{.Description}}</li>
    {{end}}
  </ul>
  {{end}}

  {{if .OutcomeText}}<p><strong>Outcome:</strong> {{.OutcomeText}}</p>{{end}}

  {{if .Votes}}
  <h3>Votes</h3>
  <ul>
    {{range .Votes}}<li>{{if .MotionText}}{{.MotionText}}{{else}}{{.MotionTextFR}}{{end}} — Yea: {{.YeaTotal}}, Nay: {{.NayTotal}} — {{.Result}}</li>
    {{end}}
  </ul>
  {{end}}

  {{if .Topics}}
  <h3>Topics Discussed</h3>
  <ul>
    {{range .Topics}}<li>{{.Title}} ({{.SpeechCount}} speeches, {{.SpeakerCount}} speakers)</li>
    {{end}}
  </ul>
  {{end}}

  {{if .KeyQuotes}}
  <h3>Key Quotes</h3>
  {{range .KeyQuotes}}<blockquote><p>&ldquo;{{.Text}}&rdquo;</p><cite>{{.SpeakerName}}{{if .Party}}, {{.Party}}{{end}}</cite></blockquote>
  {{end}}
  {{end}}

  {{if .FrSummaryHTML}}<h3>Résumé (français)</h3>{{.FrSummaryHTML}}{{end}}

  <p class="debate-links">
    {{if .HansardURL}}<a href="{{.HansardURL}}">Official transcript</a>{{end}}
    {{if .VideoURL}} &middot; <a href="{{.VideoURL}}">Video</a>{{end}}
  </p>
</div>
`))

// RenderDebatePost renders a debate's assembled data into an HTML forum
// post body, converting any light markdown emphasis in the summary prose
// through goldmark.
func RenderDebatePost(in PostInput) (string, error) {
	data := templateData{
		LegislatureName:   in.Legislature.Name,
		LegislatureCode:   in.Legislature.Code,
		SessionTypeLabel:  sessionTypeLabel(in.Debate.SessionKind),
		DateFormatted:     formatDate(in.Debate),
		DurationFormatted: formatDuration(in.Debate.DurationSeconds),
		KeyParticipants:   in.EnSummary.KeyParticipants,
		KeyIssues:         in.EnSummary.KeyIssues,
		OutcomeText:       in.EnSummary.OutcomeText,
		Votes:             in.Votes,
		Topics:            in.Topics,
		KeyQuotes:         in.KeyQuotes,
		HansardURL:        in.Debate.HansardURL,
		VideoURL:          in.Debate.VideoURL,
		SourceURLs:        in.Debate.SourceURLs,
	}

	summaryHTML, err := markdownToHTML(in.EnSummary.SummaryText)
	if err != nil {
		return "", fmt.Errorf("rendering summary markdown: %w", err)
	}
	data.SummaryHTML = template.HTML(summaryHTML)

	if in.FrSummary != nil {
		frHTML, err := markdownToHTML(in.FrSummary.SummaryText)
		if err != nil {
			return "", fmt.Errorf("rendering french summary markdown: %w", err)
		}
		data.FrSummaryHTML = template.HTML(frHTML)
	}

	var buf bytes.Buffer
	if err := postTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing post template: %w", err)
	}
	return buf.String(), nil
}

func markdownToHTML(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sessionTypeLabel(kind legislature.SessionKind) string {
	if label, ok := SessionTypeLabels[kind]; ok {
		return label
	}
	return "Session"
}

func formatDate(debate legislature.Debate) string {
	if debate.Date.IsZero() {
		return ""
	}
	return debate.Date.Format("January 2, 2006")
}

func formatDuration(seconds *int) string {
	if seconds == nil || *seconds <= 0 {
		return ""
	}
	hours := *seconds / 3600
	minutes := (*seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%d minutes", minutes)
}
