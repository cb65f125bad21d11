package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// SpeakerRepo handles storage of per-debate speaker identities.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_speakers (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT NOT NULL,
//   name TEXT NOT NULL,
//   normalised_name TEXT NOT NULL,
//   party TEXT,
//   riding TEXT,
//   external_id TEXT,
//   role_hint TEXT,
//   metadata JSONB,
//   UNIQUE (debate_id, name)
// );
type SpeakerRepo struct{}

// NewSpeakerRepo creates a new repository instance.
func NewSpeakerRepo() *SpeakerRepo { return &SpeakerRepo{} }

// Upsert keys on (debate_id, name); on conflict fields are last-writer-wins.
func (r *SpeakerRepo) Upsert(ctx context.Context, s *legislature.Speaker) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	metaJSON, err := json.Marshal(s.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal speaker metadata: %w", err)
	}
	query := `
		INSERT INTO debate_speakers (id, debate_id, name, normalised_name, party, riding, external_id, role_hint, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (debate_id, name) DO UPDATE SET
			normalised_name = EXCLUDED.normalised_name,
			party = EXCLUDED.party,
			riding = EXCLUDED.riding,
			external_id = EXCLUDED.external_id,
			role_hint = EXCLUDED.role_hint,
			metadata = EXCLUDED.metadata
		RETURNING id
	`
	return pool.QueryRow(ctx, query, s.ID, s.DebateID, s.Name, s.NormalisedName, s.Party, s.Riding, s.ExternalID, s.RoleHint, metaJSON).Scan(&s.ID)
}

// ListForDebate returns every speaker attributed within one debate.
func (r *SpeakerRepo) ListForDebate(ctx context.Context, debateID string) ([]legislature.Speaker, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	rows, err := pool.Query(ctx, `SELECT id, name, normalised_name, party, riding, external_id, role_hint, metadata FROM debate_speakers WHERE debate_id = $1`, debateID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.Speaker
	for rows.Next() {
		var s legislature.Speaker
		var metaJSON []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.NormalisedName, &s.Party, &s.Riding, &s.ExternalID, &s.RoleHint, &metaJSON); err != nil {
			return nil, fmt.Errorf("failed to scan speaker row: %w", err)
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &s.Metadata)
		}
		s.DebateID = debateID
		out = append(out, s)
	}
	return out, nil
}

// ContributionRepo handles storage of per-debate speech turns.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_contributions (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT NOT NULL,
//   speaker_id TEXT,
//   speaker_name TEXT NOT NULL,
//   text TEXT NOT NULL,
//   text_fr TEXT,
//   start_seconds DOUBLE PRECISION,
//   end_seconds DOUBLE PRECISION,
//   sequence_order INT NOT NULL,
//   metadata JSONB
// );
type ContributionRepo struct{}

// NewContributionRepo creates a new repository instance.
func NewContributionRepo() *ContributionRepo { return &ContributionRepo{} }

// ReplaceAll deletes any existing contributions for the debate and inserts
// the given set, keeping a re-run of the stage idempotent.
func (r *ContributionRepo) ReplaceAll(ctx context.Context, debateID string, contributions []legislature.Contribution) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return unavailable(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM debate_contributions WHERE debate_id = $1`, debateID); err != nil {
		return unavailable(fmt.Errorf("failed to clear contributions: %w", err))
	}

	for i := range contributions {
		c := &contributions[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		c.DebateID = debateID
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal contribution metadata: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO debate_contributions (id, debate_id, speaker_id, speaker_name, text, text_fr, start_seconds, end_seconds, sequence_order, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, c.ID, c.DebateID, c.SpeakerID, c.SpeakerName, c.Text, c.TextFR, c.StartSeconds, c.EndSeconds, c.SequenceOrder, metaJSON)
		if err != nil {
			return unavailable(fmt.Errorf("failed to insert contribution: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return unavailable(fmt.Errorf("failed to commit contributions: %w", err))
	}
	return nil
}

// ListForDebate returns contributions ordered by sequence_order ascending.
func (r *ContributionRepo) ListForDebate(ctx context.Context, debateID string) ([]legislature.Contribution, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	rows, err := pool.Query(ctx, `
		SELECT id, speaker_id, speaker_name, text, text_fr, start_seconds, end_seconds, sequence_order, metadata
		FROM debate_contributions WHERE debate_id = $1 ORDER BY sequence_order ASC
	`, debateID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.Contribution
	for rows.Next() {
		var c legislature.Contribution
		var metaJSON []byte
		if err := rows.Scan(&c.ID, &c.SpeakerID, &c.SpeakerName, &c.Text, &c.TextFR, &c.StartSeconds, &c.EndSeconds, &c.SequenceOrder, &metaJSON); err != nil {
			return nil, fmt.Errorf("failed to scan contribution row: %w", err)
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &c.Metadata)
		}
		c.DebateID = debateID
		out = append(out, c)
	}
	return out, nil
}

// TopicSectionRepo handles storage of per-debate agenda groupings.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_topics (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT NOT NULL,
//   title TEXT NOT NULL,
//   topic_external_id TEXT,
//   section TEXT,
//   speech_count INT,
//   speaker_count INT,
//   parties_involved JSONB,
//   sequence_order INT,
//   UNIQUE (debate_id, title)
// );
type TopicSectionRepo struct{}

// NewTopicSectionRepo creates a new repository instance.
func NewTopicSectionRepo() *TopicSectionRepo { return &TopicSectionRepo{} }

// Upsert keys on (debate_id, title).
func (r *TopicSectionRepo) Upsert(ctx context.Context, t *legislature.TopicSection) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	partiesJSON, err := json.Marshal(t.PartiesInvolved)
	if err != nil {
		return fmt.Errorf("failed to marshal parties_involved: %w", err)
	}
	query := `
		INSERT INTO debate_topics (id, debate_id, title, topic_external_id, section, speech_count, speaker_count, parties_involved, sequence_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (debate_id, title) DO UPDATE SET
			topic_external_id = EXCLUDED.topic_external_id,
			section = EXCLUDED.section,
			speech_count = EXCLUDED.speech_count,
			speaker_count = EXCLUDED.speaker_count,
			parties_involved = EXCLUDED.parties_involved,
			sequence_order = EXCLUDED.sequence_order
		RETURNING id
	`
	return pool.QueryRow(ctx, query, t.ID, t.DebateID, t.Title, t.ExternalTopicID, t.Section, t.SpeechCount, t.SpeakerCount, partiesJSON, t.SequenceOrder).Scan(&t.ID)
}

// ListForDebate returns topic sections ordered by sequence_order ascending.
func (r *TopicSectionRepo) ListForDebate(ctx context.Context, debateID string) ([]legislature.TopicSection, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	rows, err := pool.Query(ctx, `
		SELECT id, title, topic_external_id, section, speech_count, speaker_count, parties_involved, sequence_order
		FROM debate_topics WHERE debate_id = $1 ORDER BY sequence_order ASC
	`, debateID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.TopicSection
	for rows.Next() {
		var t legislature.TopicSection
		var partiesJSON []byte
		if err := rows.Scan(&t.ID, &t.Title, &t.ExternalTopicID, &t.Section, &t.SpeechCount, &t.SpeakerCount, &partiesJSON, &t.SequenceOrder); err != nil {
			return nil, fmt.Errorf("failed to scan topic section row: %w", err)
		}
		if len(partiesJSON) > 0 {
			_ = json.Unmarshal(partiesJSON, &t.PartiesInvolved)
		}
		t.DebateID = debateID
		out = append(out, t)
	}
	return out, nil
}
