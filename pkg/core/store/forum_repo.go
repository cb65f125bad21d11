package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// ForumPostRepo handles storage of the issue created from a published
// debate.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS debate_forum_posts (
//   id TEXT PRIMARY KEY,
//   debate_id TEXT UNIQUE NOT NULL,
//   issue_id TEXT,
//   status TEXT NOT NULL,
//   post_html TEXT
// );
type ForumPostRepo struct{}

// NewForumPostRepo creates a new repository instance.
func NewForumPostRepo() *ForumPostRepo { return &ForumPostRepo{} }

// Upsert keys on debate_id: one debate publishes to at most one post.
func (r *ForumPostRepo) Upsert(ctx context.Context, p *legislature.ForumPost) error {
	pool := GetPool()
	if pool == nil {
		return unavailable(fmt.Errorf("database pool not initialized"))
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO debate_forum_posts (id, debate_id, issue_id, status, post_html)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (debate_id) DO UPDATE SET
			issue_id = EXCLUDED.issue_id,
			status = EXCLUDED.status,
			post_html = EXCLUDED.post_html
		RETURNING id
	`
	return pool.QueryRow(ctx, query, p.ID, p.DebateID, p.IssueID, p.Status, p.PostHTML).Scan(&p.ID)
}

// GetByDebate fetches the forum post created for a debate, if any.
func (r *ForumPostRepo) GetByDebate(ctx context.Context, debateID string) (*legislature.ForumPost, error) {
	pool := GetPool()
	if pool == nil {
		return nil, unavailable(fmt.Errorf("database pool not initialized"))
	}
	var p legislature.ForumPost
	err := pool.QueryRow(ctx, `
		SELECT id, issue_id, status, post_html FROM debate_forum_posts WHERE debate_id = $1
	`, debateID).Scan(&p.ID, &p.IssueID, &p.Status, &p.PostHTML)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, unavailable(err)
	}
	p.DebateID = debateID
	return &p, nil
}
