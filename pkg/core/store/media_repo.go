package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// TranscriptRepo handles storage of per-language recognised or scraped full
// text for a debate.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_transcripts (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT NOT NULL,
//   language TEXT NOT NULL,
//   raw_text TEXT NOT NULL,
//   segments JSONB,
//   model TEXT,
//   avg_confidence DOUBLE PRECISION,
//   word_count INT,
//   processing_time_seconds DOUBLE PRECISION,
//   UNIQUE (debate_id, language)
// );
type TranscriptRepo struct{}

// NewTranscriptRepo creates a new repository instance.
func NewTranscriptRepo() *TranscriptRepo { return &TranscriptRepo{} }

// Upsert keys on (debate_id, language).
func (r *TranscriptRepo) Upsert(ctx context.Context, t *legislature.Transcript) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	segmentsJSON, err := json.Marshal(t.Segments)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript segments: %w", err)
	}
	query := `
		INSERT INTO debate_transcripts (id, debate_id, language, raw_text, segments, model, avg_confidence, word_count, processing_time_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (debate_id, language) DO UPDATE SET
			raw_text = EXCLUDED.raw_text,
			segments = EXCLUDED.segments,
			model = EXCLUDED.model,
			avg_confidence = EXCLUDED.avg_confidence,
			word_count = EXCLUDED.word_count,
			processing_time_seconds = EXCLUDED.processing_time_seconds
		RETURNING id
	`
	return pool.QueryRow(ctx, query, t.ID, t.DebateID, t.Language, t.RawText, segmentsJSON, t.Model, t.AvgConfidence, t.WordCount, t.ProcessingTimeSeconds).Scan(&t.ID)
}

// GetByLanguage fetches the transcript for one debate/language pair.
func (r *TranscriptRepo) GetByLanguage(ctx context.Context, debateID, language string) (*legislature.Transcript, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	var t legislature.Transcript
	var segmentsJSON []byte
	err := pool.QueryRow(ctx, `
		SELECT id, raw_text, segments, model, avg_confidence, word_count, processing_time_seconds
		FROM debate_transcripts WHERE debate_id = $1 AND language = $2
	`, debateID, language).Scan(&t.ID, &t.RawText, &segmentsJSON, &t.Model, &t.AvgConfidence, &t.WordCount, &t.ProcessingTimeSeconds)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, unavailable(err)
	}
	if len(segmentsJSON) > 0 {
		_ = json.Unmarshal(segmentsJSON, &t.Segments)
	}
	t.DebateID = debateID
	t.Language = language
	return &t, nil
}

// ListForDebate returns every recognised or scraped transcript for a debate.
func (r *TranscriptRepo) ListForDebate(ctx context.Context, debateID string) ([]legislature.Transcript, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	rows, err := pool.Query(ctx, `
		SELECT id, language, raw_text, segments, model, avg_confidence, word_count, processing_time_seconds
		FROM debate_transcripts WHERE debate_id = $1
	`, debateID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.Transcript
	for rows.Next() {
		var t legislature.Transcript
		var segmentsJSON []byte
		if err := rows.Scan(&t.ID, &t.Language, &t.RawText, &segmentsJSON, &t.Model, &t.AvgConfidence, &t.WordCount, &t.ProcessingTimeSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}
		if len(segmentsJSON) > 0 {
			_ = json.Unmarshal(segmentsJSON, &t.Segments)
		}
		t.DebateID = debateID
		out = append(out, t)
	}
	return out, nil
}

// MediaAssetRepo handles storage of downloaded/extracted audio files.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_media_assets (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT NOT NULL,
//   source_url TEXT NOT NULL,
//   local_path TEXT,
//   status TEXT NOT NULL,
//   file_size_bytes BIGINT,
//   duration_seconds INT,
//   language TEXT,
//   created_at TIMESTAMPTZ NOT NULL DEFAULT now()
// );
type MediaAssetRepo struct{}

// NewMediaAssetRepo creates a new repository instance.
func NewMediaAssetRepo() *MediaAssetRepo { return &MediaAssetRepo{} }

// Insert records a new acquisition attempt. Media assets are append-only:
// a failed attempt followed by a retry produces a second row rather than
// an overwrite, preserving the acquisition history for diagnostics.
func (r *MediaAssetRepo) Insert(ctx context.Context, m *legislature.MediaAsset) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO debate_media_assets (id, debate_id, source_url, local_path, status, file_size_bytes, duration_seconds, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return pool.QueryRow(ctx, query, m.ID, m.DebateID, m.SourceURL, m.LocalPath, m.Status, m.FileSizeBytes, m.DurationSeconds, m.Language).Scan(&m.ID)
}

// UpdateStatus transitions one media asset's acquisition status.
func (r *MediaAssetRepo) UpdateStatus(ctx context.Context, id string, status legislature.MediaAssetStatus) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	_, err := pool.Exec(ctx, `UPDATE debate_media_assets SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// LatestReady returns the most recently inserted ready asset for a debate.
func (r *MediaAssetRepo) LatestReady(ctx context.Context, debateID string) (*legislature.MediaAsset, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	var m legislature.MediaAsset
	err := pool.QueryRow(ctx, `
		SELECT id, source_url, local_path, status, file_size_bytes, duration_seconds, language
		FROM debate_media_assets
		WHERE debate_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1
	`, debateID, legislature.MediaAssetReady).Scan(&m.ID, &m.SourceURL, &m.LocalPath, &m.Status, &m.FileSizeBytes, &m.DurationSeconds, &m.Language)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, unavailable(err)
	}
	m.DebateID = debateID
	return &m, nil
}
