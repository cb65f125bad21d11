package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// DebateRepo handles storage of debate rows, the pipeline's unit of work.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debates (
//   id TEXT PRIMARY KEY,
//   legislature_id TEXT NOT NULL,
//   external_id TEXT NOT NULL,
//   title TEXT NOT NULL,
//   title_fr TEXT,
//   date DATE NOT NULL,
//   session_type TEXT NOT NULL,
//   committee_name TEXT,
//   status TEXT NOT NULL,
//   retry_count INT NOT NULL DEFAULT 0,
//   video_url TEXT,
//   hansard_url TEXT,
//   source_urls JSONB,
//   error_message TEXT,
//   metadata JSONB,
//   duration_seconds INT,
//   created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//   updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//   UNIQUE (legislature_id, external_id)
// );
type DebateRepo struct{}

// NewDebateRepo creates a new repository instance.
func NewDebateRepo() *DebateRepo {
	return &DebateRepo{}
}

// Create inserts a new debate, assigning it a fresh identifier. Returns
// ErrConflict on a unique-key violation, which callers treat as an
// idempotent re-detection rather than a failure.
func (r *DebateRepo) Create(ctx context.Context, d *legislature.Debate) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	urlsJSON, err := json.Marshal(d.SourceURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal source_urls: %w", err)
	}
	metaJSON, err := json.Marshal(d.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO debates (
			id, legislature_id, external_id, title, title_fr, date, session_type,
			committee_name, status, retry_count, video_url, hansard_url,
			source_urls, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, $13)
		ON CONFLICT (legislature_id, external_id) DO NOTHING
	`
	tag, err := pool.Exec(ctx, query,
		d.ID, d.LegislatureID, d.ExternalID, d.Title, d.TitleFR, d.Date, d.SessionKind,
		d.CommitteeName, d.Status, d.VideoURL, d.HansardURL, urlsJSON, metaJSON,
	)
	if err != nil {
		return unavailable(fmt.Errorf("failed to create debate: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// FindByExternalID looks up an existing debate by its natural key.
func (r *DebateRepo) FindByExternalID(ctx context.Context, legislatureID, externalID string) (*legislature.Debate, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}

	query := `SELECT id, status FROM debates WHERE legislature_id = $1 AND external_id = $2`
	var d legislature.Debate
	err := pool.QueryRow(ctx, query, legislatureID, externalID).Scan(&d.ID, &d.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, unavailable(err)
	}
	return &d, nil
}

// Get fetches a debate by identifier with its legislature code joined.
func (r *DebateRepo) Get(ctx context.Context, id string) (*legislature.Debate, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}

	query := `
		SELECT d.id, d.legislature_id, l.code, d.external_id, d.title, d.title_fr, d.date,
			d.session_type, d.committee_name, d.status, d.retry_count, d.video_url,
			d.hansard_url, d.source_urls, d.error_message, d.metadata, d.duration_seconds,
			d.created_at, d.updated_at
		FROM debates d
		JOIN legislatures l ON l.id = d.legislature_id
		WHERE d.id = $1
	`
	var d legislature.Debate
	var urlsJSON, metaJSON []byte
	err := pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.LegislatureID, &d.LegislatureCode, &d.ExternalID, &d.Title, &d.TitleFR, &d.Date,
		&d.SessionKind, &d.CommitteeName, &d.Status, &d.RetryCount, &d.VideoURL,
		&d.HansardURL, &urlsJSON, &d.ErrorMessage, &metaJSON, &d.DurationSeconds,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, unavailable(err)
	}
	if len(urlsJSON) > 0 {
		_ = json.Unmarshal(urlsJSON, &d.SourceURLs)
	}
	if len(metaJSON) > 0 {
		_ = json.Unmarshal(metaJSON, &d.Metadata)
	}
	return &d, nil
}

// ListFilter narrows List's results.
type ListFilter struct {
	Status          legislature.Status
	LegislatureCode string
	Limit           int
}

// List returns debates matching the filter, most recently created first.
func (r *DebateRepo) List(ctx context.Context, f ListFilter) ([]legislature.Debate, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT d.id, l.code, d.title, d.date, d.session_type, d.status, d.duration_seconds, d.created_at
		FROM debates d
		JOIN legislatures l ON l.id = d.legislature_id
		WHERE ($1 = '' OR d.status = $1) AND ($2 = '' OR l.code = $2)
		ORDER BY d.created_at DESC
		LIMIT $3
	`
	rows, err := pool.Query(ctx, query, string(f.Status), f.LegislatureCode, limit)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.Debate
	for rows.Next() {
		var d legislature.Debate
		if err := rows.Scan(&d.ID, &d.LegislatureCode, &d.Title, &d.Date, &d.SessionKind, &d.Status, &d.DurationSeconds, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debate row: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

// UpdateStatus writes the entering status for a stage transition, clearing
// the error message on success.
func (r *DebateRepo) UpdateStatus(ctx context.Context, id string, status legislature.Status) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	query := `UPDATE debates SET status = $2, error_message = NULL, updated_at = NOW() WHERE id = $1`
	_, err := pool.Exec(ctx, query, id, status)
	if err != nil {
		return unavailable(fmt.Errorf("failed to update debate status: %w", err))
	}
	return nil
}

// MarkError atomically increments retry_count and either keeps the current
// status (retryable) or moves the debate to the error terminal state once
// the retry budget is exhausted. Returns the resulting status and whether a
// retry is still available.
func (r *DebateRepo) MarkError(ctx context.Context, id string, message string, maxRetries int) (legislature.Status, bool, error) {
	pool := GetPool()
	if pool == nil {
		return "", false, unavailable(fmt.Errorf("database pool not initialized"))
	}

	var currentStatus legislature.Status
	var retryCount int
	err := pool.QueryRow(ctx, `SELECT status, retry_count FROM debates WHERE id = $1`, id).Scan(&currentStatus, &retryCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, ErrNotFound
		}
		return "", false, unavailable(err)
	}

	newCount := retryCount + 1
	if newCount > maxRetries {
		finalMessage := fmt.Sprintf("Max retries exceeded. Last error: %s", message)
		_, err := pool.Exec(ctx,
			`UPDATE debates SET status = $2, error_message = $3, retry_count = $4, updated_at = NOW() WHERE id = $1`,
			id, legislature.StatusError, finalMessage, newCount,
		)
		if err != nil {
			return "", false, unavailable(fmt.Errorf("failed to mark debate error: %w", err))
		}
		return legislature.StatusError, false, nil
	}

	_, err = pool.Exec(ctx,
		`UPDATE debates SET error_message = $2, retry_count = $3, updated_at = NOW() WHERE id = $1`,
		id, message, newCount,
	)
	if err != nil {
		return "", false, unavailable(fmt.Errorf("failed to mark debate error: %w", err))
	}
	return currentStatus, true, nil
}

// Retrigger writes from_stage back onto the debate and clears the error
// message, without touching retry_count (the resolved open question).
func (r *DebateRepo) Retrigger(ctx context.Context, id string, fromStage legislature.Status) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	_, err := pool.Exec(ctx, `UPDATE debates SET status = $2, error_message = NULL, updated_at = NOW() WHERE id = $1`, id, fromStage)
	if err != nil {
		return unavailable(fmt.Errorf("failed to retrigger debate: %w", err))
	}
	return nil
}

// ResetRetryBudget clears retry_count, the separate administrative action
// required to make an exhausted debate retryable again.
func (r *DebateRepo) ResetRetryBudget(ctx context.Context, id string) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	_, err := pool.Exec(ctx, `UPDATE debates SET retry_count = 0, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return unavailable(fmt.Errorf("failed to reset retry budget: %w", err))
	}
	return nil
}

// UpdateFromCandidate refreshes title, URLs and metadata on an existing
// row and transitions it to detected — the scheduled-to-detected update
// the poller dispatch applies in place.
func (r *DebateRepo) UpdateFromCandidate(ctx context.Context, id string, title string, videoURL, hansardURL string, sourceURLs []legislature.SourceURL, metadata map[string]interface{}) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}

	urlsJSON, err := json.Marshal(sourceURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal source_urls: %w", err)
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		UPDATE debates
		SET status = $2, title = $3, video_url = $4, hansard_url = $5,
			source_urls = $6, metadata = $7, updated_at = NOW()
		WHERE id = $1
	`
	_, err = pool.Exec(ctx, query, id, legislature.StatusDetected, title, videoURL, hansardURL, urlsJSON, metaJSON)
	if err != nil {
		return unavailable(fmt.Errorf("failed to update debate from candidate: %w", err))
	}
	return nil
}

// SetVariant overrides the acquisition variant recorded in a debate's
// metadata, merging rather than replacing the rest of the JSON document.
// Used when an administrator retriggers a debate through the opposite
// chain from the one it was originally detected on.
func (r *DebateRepo) SetVariant(ctx context.Context, id, variant string) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	_, err := pool.Exec(ctx, `
		UPDATE debates
		SET metadata = COALESCE(metadata, '{}'::jsonb) || jsonb_build_object('variant', $2::text), updated_at = NOW()
		WHERE id = $1
	`, id, variant)
	if err != nil {
		return unavailable(fmt.Errorf("failed to set variant: %w", err))
	}
	return nil
}

// SetDuration records the duration learned during media acquisition.
func (r *DebateRepo) SetDuration(ctx context.Context, id string, seconds int) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	_, err := pool.Exec(ctx, `UPDATE debates SET duration_seconds = $2, updated_at = NOW() WHERE id = $1`, id, seconds)
	if err != nil {
		return unavailable(fmt.Errorf("failed to set duration: %w", err))
	}
	return nil
}

// StatusCounts returns the number of debates currently in each status, for
// the admin aggregate status endpoint.
func (r *DebateRepo) StatusCounts(ctx context.Context) (map[legislature.Status]int, int, error) {
	pool := GetPool()
	if pool == nil {
		return nil, 0, unavailable(fmt.Errorf("database pool not initialized"))
	}

	rows, err := pool.Query(ctx, `SELECT status, COUNT(*) FROM debates GROUP BY status`)
	if err != nil {
		return nil, 0, unavailable(err)
	}
	defer rows.Close()

	counts := make(map[legislature.Status]int)
	total := 0
	for rows.Next() {
		var status legislature.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, 0, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
		total += n
	}
	return counts, total, nil
}

// RecentErrors returns the last n debates currently in the error state.
func (r *DebateRepo) RecentErrors(ctx context.Context, n int) ([]legislature.Debate, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	rows, err := pool.Query(ctx, `
		SELECT id, title, error_message, updated_at FROM debates
		WHERE status = $1 ORDER BY updated_at DESC LIMIT $2
	`, legislature.StatusError, n)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.Debate
	for rows.Next() {
		var d legislature.Debate
		if err := rows.Scan(&d.ID, &d.Title, &d.ErrorMessage, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent error: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}
