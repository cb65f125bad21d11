package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// LegislatureRepo handles storage of legislature rows.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS legislatures (
//   id TEXT PRIMARY KEY,
//   code TEXT UNIQUE NOT NULL,
//   name TEXT NOT NULL,
//   level TEXT NOT NULL,
//   default_languages JSONB
// );
type LegislatureRepo struct{}

// NewLegislatureRepo creates a new repository instance.
func NewLegislatureRepo() *LegislatureRepo {
	return &LegislatureRepo{}
}

// GetByCode fetches a legislature by its short code (CA, ON, QC, ...).
func (r *LegislatureRepo) GetByCode(ctx context.Context, code string) (*legislature.Legislature, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}

	query := `SELECT id, code, name, level, default_languages FROM legislatures WHERE code = $1`

	var l legislature.Legislature
	var langsJSON []byte
	err := pool.QueryRow(ctx, query, code).Scan(&l.ID, &l.Code, &l.Name, &l.Level, &langsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, unavailable(err)
	}
	if len(langsJSON) > 0 {
		if err := json.Unmarshal(langsJSON, &l.DefaultLanguages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal default_languages: %w", err)
		}
	}
	return &l, nil
}
