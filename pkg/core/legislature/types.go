// Package legislature defines the plain data model shared by every stage of
// the debate pipeline: legislatures, debates, speakers, contributions, topic
// sections, votes, summaries, category assignments, forum posts, media
// assets and transcripts.
package legislature

import "time"

// GovernmentLevel distinguishes a federal legislature from a provincial one.
type GovernmentLevel string

const (
	LevelFederal    GovernmentLevel = "federal"
	LevelProvincial GovernmentLevel = "provincial"
)

// Legislature is a jurisdiction whose sittings are tracked (CA, ON, QC, ...).
type Legislature struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Level            GovernmentLevel `json:"level"`
	DefaultLanguages []string        `json:"default_languages"`
}

// Status is one of the wire-stable pipeline stage values.
type Status string

const (
	StatusScheduled        Status = "scheduled"
	StatusDetected         Status = "detected"
	StatusScrapingHansard  Status = "scraping_hansard"
	StatusIngesting        Status = "ingesting"
	StatusTranscribing     Status = "transcribing"
	StatusProcessing       Status = "processing"
	StatusSummarizing      Status = "summarizing"
	StatusCategorizing     Status = "categorizing"
	StatusPublishing       Status = "publishing"
	StatusPublished        Status = "published"
	StatusError            Status = "error"
)

// SessionKind is the closed set of sitting types.
type SessionKind string

const (
	SessionHouse          SessionKind = "house"
	SessionCommittee      SessionKind = "committee"
	SessionQuestionPeriod SessionKind = "question_period"
	SessionEmergency      SessionKind = "emergency"
	SessionOther          SessionKind = "other"
)

// SourceURLKind tags an entry in a Debate's source URL list.
type SourceURLKind string

const (
	SourceKindVideo    SourceURLKind = "video"
	SourceKindHansard  SourceURLKind = "hansard"
	SourceKindCalendar SourceURLKind = "calendar"
	SourceKindNotice   SourceURLKind = "notice"
)

// SourceURL is one discovered link for a debate, tagged by kind.
type SourceURL struct {
	Kind  SourceURLKind `json:"kind"`
	URL   string        `json:"url"`
	Label string        `json:"label,omitempty"`
}

// Debate is the pipeline's unit of work: one sitting or committee meeting.
type Debate struct {
	ID                string                 `json:"id"`
	LegislatureID     string                 `json:"legislature_id"`
	LegislatureCode   string                 `json:"legislature_code,omitempty"`
	ExternalID        string                 `json:"external_id"`
	Title             string                 `json:"title"`
	TitleFR           string                 `json:"title_fr,omitempty"`
	Date              time.Time              `json:"date"`
	SessionKind       SessionKind            `json:"session_type"`
	CommitteeName     string                 `json:"committee_name,omitempty"`
	Status            Status                 `json:"status"`
	RetryCount        int                    `json:"retry_count"`
	VideoURL          string                 `json:"video_url,omitempty"`
	HansardURL        string                 `json:"hansard_url,omitempty"`
	SourceURLs        []SourceURL            `json:"source_urls,omitempty"`
	ErrorMessage      string                 `json:"error_message,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	DurationSeconds   *int                   `json:"duration_seconds,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// Speaker is a per-debate attributed identity.
type Speaker struct {
	ID             string                 `json:"id"`
	DebateID       string                 `json:"debate_id"`
	Name           string                 `json:"name"`
	NormalisedName string                 `json:"normalised_name"`
	Party          string                 `json:"party,omitempty"`
	Riding         string                 `json:"riding,omitempty"`
	ExternalID     string                 `json:"external_id,omitempty"`
	RoleHint       string                 `json:"role_hint,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Contribution is one continuous speech turn.
type Contribution struct {
	ID              string                 `json:"id"`
	DebateID        string                 `json:"debate_id"`
	SpeakerID       string                 `json:"speaker_id,omitempty"`
	SpeakerName     string                 `json:"speaker_name"`
	Text            string                 `json:"text"`
	TextFR          string                 `json:"text_fr,omitempty"`
	StartSeconds    *float64               `json:"start_seconds,omitempty"`
	EndSeconds      *float64               `json:"end_seconds,omitempty"`
	SequenceOrder   int                    `json:"sequence_order"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// TopicSection groups contributions under one agenda item or bill.
type TopicSection struct {
	ID              string   `json:"id"`
	DebateID        string   `json:"debate_id"`
	Title           string   `json:"title"`
	ExternalTopicID string   `json:"topic_external_id,omitempty"`
	Section         string   `json:"section"`
	SpeechCount     int      `json:"speech_count"`
	SpeakerCount    int      `json:"speaker_count"`
	PartiesInvolved []string `json:"parties_involved"`
	SequenceOrder   int      `json:"sequence_order"`
}

// VoteResult is the outcome of a recorded division.
type VoteResult string

const (
	VotePassed   VoteResult = "passed"
	VoteDefeated VoteResult = "defeated"
)

// VoteDetail is one member's recorded position, when available.
type VoteDetail struct {
	MemberName string `json:"member_name"`
	Party      string `json:"party,omitempty"`
	Position   string `json:"position"`
}

// Vote is a recorded division attached to a debate.
type Vote struct {
	ID           string       `json:"id"`
	DebateID     string       `json:"debate_id"`
	MotionText   string       `json:"motion_text"`
	MotionTextFR string       `json:"motion_text_fr,omitempty"`
	BillNumber   string       `json:"bill_number,omitempty"`
	YeaTotal     int          `json:"yea_total"`
	NayTotal     int          `json:"nay_total"`
	PairedTotal  int          `json:"paired_total"`
	AbstainTotal int          `json:"abstain_total"`
	Result       VoteResult   `json:"result"`
	SourceID     string       `json:"source_id,omitempty"`
	Details      []VoteDetail `json:"details,omitempty"`
}

// KeyParticipant is one named figure surfaced in a summary.
type KeyParticipant struct {
	Name   string `json:"name"`
	Party  string `json:"party,omitempty"`
	Riding string `json:"riding,omitempty"`
	Stance string `json:"stance_summary"`
}

// KeyIssue is one debated topic surfaced in a summary.
type KeyIssue struct {
	Issue       string `json:"issue"`
	Description string `json:"description"`
}

// Summary is a per-language lay-audience rendering of a debate.
type Summary struct {
	ID              string           `json:"id"`
	DebateID        string           `json:"debate_id"`
	Language        string           `json:"language"`
	SummaryText     string           `json:"summary_text"`
	KeyParticipants []KeyParticipant `json:"key_participants"`
	KeyIssues       []KeyIssue       `json:"key_issues"`
	OutcomeText     string           `json:"outcome_text,omitempty"`
	Model           string           `json:"llm_model"`
}

// CategoryAssignment is one topic-slug assignment for a debate.
type CategoryAssignment struct {
	ID         string  `json:"id"`
	DebateID   string  `json:"debate_id"`
	TopicSlug  string  `json:"topic_slug"`
	Confidence float64 `json:"confidence"`
	IsPrimary  bool    `json:"is_primary"`
}

// ForumPostStatus tracks the outcome of a forum insertion attempt.
type ForumPostStatus string

const (
	ForumPostCreated ForumPostStatus = "created"
	ForumPostFailed  ForumPostStatus = "failed"
)

// ForumPost records the issue created from a published debate.
type ForumPost struct {
	ID       string          `json:"id"`
	DebateID string          `json:"debate_id"`
	IssueID  string          `json:"issue_id"`
	Status   ForumPostStatus `json:"status"`
	PostHTML string          `json:"post_html"`
}

// MediaAssetStatus tracks acquisition progress for one media file.
type MediaAssetStatus string

const (
	MediaAssetPending MediaAssetStatus = "pending"
	MediaAssetReady   MediaAssetStatus = "ready"
	MediaAssetFailed  MediaAssetStatus = "failed"
)

// MediaAsset is a downloaded/extracted audio file for a debate.
type MediaAsset struct {
	ID              string           `json:"id"`
	DebateID        string           `json:"debate_id"`
	SourceURL       string           `json:"source_url"`
	LocalPath       string           `json:"local_path"`
	Status          MediaAssetStatus `json:"status"`
	FileSizeBytes   int64            `json:"file_size_bytes,omitempty"`
	DurationSeconds int              `json:"duration_seconds,omitempty"`
	Language        string           `json:"language,omitempty"`
}

// TranscriptSegment is one timed, confidence-scored slice of recognised
// speech.
type TranscriptSegment struct {
	Start         float64  `json:"start"`
	End           float64  `json:"end"`
	Text          string   `json:"text"`
	Confidence    float64  `json:"confidence"`
	NoSpeechProb  float64  `json:"no_speech_prob,omitempty"`
	Words         []string `json:"words,omitempty"`
}

// Transcript is one language's recognised (or scraped) full text for a
// debate.
type Transcript struct {
	ID                     string               `json:"id"`
	DebateID               string               `json:"debate_id"`
	Language               string               `json:"language"`
	RawText                string               `json:"raw_text"`
	Segments               []TranscriptSegment  `json:"segments"`
	Model                  string               `json:"model"`
	AvgConfidence          float64              `json:"avg_confidence"`
	WordCount              int                  `json:"word_count"`
	ProcessingTimeSeconds  float64              `json:"processing_time_seconds"`
}
