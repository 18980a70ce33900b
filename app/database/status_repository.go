package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ StatusRepository = (*StatusRepo)(nil)

// StatusRepo handles database operations for per-user post statuses.
type StatusRepo struct {
	db *DB
}

func NewStatusRepository(db *DB) *StatusRepo {
	return &StatusRepo{db: db}
}

// Set upserts the caller's status row for a post. Nil flags leave the stored
// value untouched; a missing row counts as read=false, star=false.
func (r *StatusRepo) Set(ctx context.Context, userID, postID string, read, star *bool) error {
	readVal := sql.NullBool{}
	if read != nil {
		readVal = sql.NullBool{Bool: *read, Valid: true}
	}
	starVal := sql.NullBool{}
	if star != nil {
		starVal = sql.NullBool{Bool: *star, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO status (userid, postid, read, star)
		VALUES ($1, $2, COALESCE($3, false), COALESCE($4, false))
		ON CONFLICT (userid, postid) DO UPDATE SET
			read = COALESCE($3, status.read),
			star = COALESCE($4, status.star)
	`, userID, postID, readVal, starVal)

	if err != nil {
		return fmt.Errorf("failed to set post status: %w", err)
	}

	return nil
}

func (r *StatusRepo) DeleteStarredForFeed(ctx context.Context, userID, feedID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM status
		WHERE userid = $1 AND star AND postid IN (
			SELECT postid FROM post WHERE feedid = $2
		)
	`, userID, feedID)

	if err != nil {
		return fmt.Errorf("failed to delete starred statuses for feed: %w", err)
	}

	return nil
}
