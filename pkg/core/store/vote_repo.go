package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// VoteRepo handles storage of recorded divisions attached to a debate.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_votes (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT NOT NULL,
//   motion_text TEXT NOT NULL,
//   motion_text_fr TEXT,
//   bill_number TEXT,
//   yea_total INT,
//   nay_total INT,
//   paired_total INT,
//   abstain_total INT,
//   result TEXT NOT NULL,
//   source_id TEXT,
//   details JSONB,
//   UNIQUE (debate_id, source_id)
// );
type VoteRepo struct{}

// NewVoteRepo creates a new repository instance.
func NewVoteRepo() *VoteRepo { return &VoteRepo{} }

// Upsert keys on (debate_id, source_id) when source_id is set, otherwise
// always inserts a new row (unattributed votes carry no stable identity).
func (r *VoteRepo) Upsert(ctx context.Context, v *legislature.Vote) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	detailsJSON, err := json.Marshal(v.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal vote details: %w", err)
	}

	if v.SourceID == "" {
		query := `
			INSERT INTO debate_votes (id, debate_id, motion_text, motion_text_fr, bill_number, yea_total, nay_total, paired_total, abstain_total, result, source_id, details)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		`
		return pool.QueryRow(ctx, query, v.ID, v.DebateID, v.MotionText, v.MotionTextFR, v.BillNumber, v.YeaTotal, v.NayTotal, v.PairedTotal, v.AbstainTotal, v.Result, v.SourceID, detailsJSON).Scan(&v.ID)
	}

	query := `
		INSERT INTO debate_votes (id, debate_id, motion_text, motion_text_fr, bill_number, yea_total, nay_total, paired_total, abstain_total, result, source_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (debate_id, source_id) DO UPDATE SET
			motion_text = EXCLUDED.motion_text,
			motion_text_fr = EXCLUDED.motion_text_fr,
			bill_number = EXCLUDED.bill_number,
			yea_total = EXCLUDED.yea_total,
			nay_total = EXCLUDED.nay_total,
			paired_total = EXCLUDED.paired_total,
			abstain_total = EXCLUDED.abstain_total,
			result = EXCLUDED.result,
			details = EXCLUDED.details
		RETURNING id
	`
	return pool.QueryRow(ctx, query, v.ID, v.DebateID, v.MotionText, v.MotionTextFR, v.BillNumber, v.YeaTotal, v.NayTotal, v.PairedTotal, v.AbstainTotal, v.Result, v.SourceID, detailsJSON).Scan(&v.ID)
}

// ListForDebate returns every vote recorded for a debate.
func (r *VoteRepo) ListForDebate(ctx context.Context, debateID string) ([]legislature.Vote, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	rows, err := pool.Query(ctx, `
		SELECT id, motion_text, motion_text_fr, bill_number, yea_total, nay_total, paired_total, abstain_total, result, source_id, details
		FROM debate_votes WHERE debate_id = $1
	`, debateID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []legislature.Vote
	for rows.Next() {
		var v legislature.Vote
		var detailsJSON []byte
		if err := rows.Scan(&v.ID, &v.MotionText, &v.MotionTextFR, &v.BillNumber, &v.YeaTotal, &v.NayTotal, &v.PairedTotal, &v.AbstainTotal, &v.Result, &v.SourceID, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan vote row: %w", err)
		}
		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &v.Details)
		}
		v.DebateID = debateID
		out = append(out, v)
	}
	return out, nil
}
