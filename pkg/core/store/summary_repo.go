package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// SummaryRepo handles storage of per-language lay-audience summaries.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_summaries (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT NOT NULL,
//   language TEXT NOT NULL,
//   summary_text TEXT NOT NULL,
//   key_participants JSONB,
//   key_issues JSONB,
//   outcome_text TEXT,
//   llm_model TEXT,
//   UNIQUE (debate_id, language)
// );
type SummaryRepo struct{}

// NewSummaryRepo creates a new repository instance.
func NewSummaryRepo() *SummaryRepo { return &SummaryRepo{} }

// Upsert keys on (debate_id, language), so a re-run of summarization
// overwrites the previous pass cleanly.
func (r *SummaryRepo) Upsert(ctx context.Context, s *legislature.Summary) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	participantsJSON, err := json.Marshal(s.KeyParticipants)
	if err != nil {
		return fmt.Errorf("failed to marshal key_participants: %w", err)
	}
	issuesJSON, err := json.Marshal(s.KeyIssues)
	if err != nil {
		return fmt.Errorf("failed to marshal key_issues: %w", err)
	}
	query := `
		INSERT INTO debate_summaries (id, debate_id, language, summary_text, key_participants, key_issues, outcome_text, llm_model)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (debate_id, language) DO UPDATE SET
			summary_text = EXCLUDED.summary_text,
			key_participants = EXCLUDED.key_participants,
			key_issues = EXCLUDED.key_issues,
			outcome_text = EXCLUDED.outcome_text,
			llm_model = EXCLUDED.llm_model
		RETURNING id
	`
	return pool.QueryRow(ctx, query, s.ID, s.DebateID, s.Language, s.SummaryText, participantsJSON, issuesJSON, s.OutcomeText, s.Model).Scan(&s.ID)
}

// ListForDebate returns every language's summary for a debate.
func (r *SummaryRepo) ListForDebate(ctx context.Context, debateID string) ([]legislature.Summary, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	rows, err := pool.Query(ctx, `
		SELECT id, language, summary_text, key_participants, key_issues, outcome_text, llm_model
		FROM debate_summaries WHERE debate_id = $1
	`, debateID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.Summary
	for rows.Next() {
		var s legislature.Summary
		var participantsJSON, issuesJSON []byte
		if err := rows.Scan(&s.ID, &s.Language, &s.SummaryText, &participantsJSON, &issuesJSON, &s.OutcomeText, &s.Model); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		if len(participantsJSON) > 0 {
			_ = json.Unmarshal(participantsJSON, &s.KeyParticipants)
		}
		if len(issuesJSON) > 0 {
			_ = json.Unmarshal(issuesJSON, &s.KeyIssues)
		}
		s.DebateID = debateID
		out = append(out, s)
	}
	return out, nil
}

// CategoryRepo handles storage of topic-slug assignments.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_categories (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT NOT NULL,
//   topic_slug TEXT NOT NULL,
//   confidence DOUBLE PRECISION NOT NULL,
//   is_primary BOOLEAN NOT NULL DEFAULT FALSE,
//   UNIQUE (debate_id, topic_slug)
// );
type CategoryRepo struct{}

// NewCategoryRepo creates a new repository instance.
func NewCategoryRepo() *CategoryRepo { return &CategoryRepo{} }

// ReplaceAll clears any existing assignments for the debate and inserts the
// given set, keeping a re-run of categorization idempotent.
func (r *CategoryRepo) ReplaceAll(ctx context.Context, debateID string, assignments []legislature.CategoryAssignment) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return unavailable(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM debate_categories WHERE debate_id = $1`, debateID); err != nil {
		return unavailable(fmt.Errorf("failed to clear categories: %w", err))
	}

	for i := range assignments {
		a := &assignments[i]
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		a.DebateID = debateID
		_, err := tx.Exec(ctx, `
			INSERT INTO debate_categories (id, debate_id, topic_slug, confidence, is_primary)
			VALUES ($1, $2, $3, $4, $5)
		`, a.ID, a.DebateID, a.TopicSlug, a.Confidence, a.IsPrimary)
		if err != nil {
			return unavailable(fmt.Errorf("failed to insert category assignment: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return unavailable(fmt.Errorf("failed to commit categories: %w", err))
	}
	return nil
}

// ListForDebate returns every topic assignment for a debate.
func (r *CategoryRepo) ListForDebate(ctx context.Context, debateID string) ([]legislature.CategoryAssignment, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	rows, err := pool.Query(ctx, `
		SELECT id, topic_slug, confidence, is_primary FROM debate_categories WHERE debate_id = $1
	`, debateID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.CategoryAssignment
	for rows.Next() {
		var a legislature.CategoryAssignment
		if err := rows.Scan(&a.ID, &a.TopicSlug, &a.Confidence, &a.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		a.DebateID = debateID
		out = append(out, a)
	}
	return out, nil
}

// Primary returns the single category assignment marked primary, if any.
func (r *CategoryRepo) Primary(ctx context.Context, debateID string) (*legislature.CategoryAssignment, error) {
	assignments, err := r.ListForDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	for i := range assignments {
		if assignments[i].IsPrimary {
			return &assignments[i], nil
		}
	}
	return nil, ErrNotFound
}
