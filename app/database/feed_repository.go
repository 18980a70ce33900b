package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ FeedRepository = (*FeedRepo)(nil)

// FeedRepo handles database operations for feeds.
type FeedRepo struct {
	db *DB
}

func NewFeedRepository(db *DB) *FeedRepo {
	return &FeedRepo{db: db}
}

func (r *FeedRepo) GetByURL(ctx context.Context, url string) (*Feed, error) {
	var feed Feed
	err := r.db.QueryRowContext(ctx, `
		SELECT feedid, url, count FROM feed WHERE url = $1
	`, url).Scan(&feed.ID, &feed.URL, &feed.SubscriberCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed by URL: %w", err)
	}

	return &feed, nil
}

func (r *FeedRepo) Create(ctx context.Context, feed Feed) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feed (feedid, url, count) VALUES ($1, $2, $3)
	`, feed.ID, feed.URL, feed.SubscriberCount)

	if err != nil {
		return fmt.Errorf("failed to create feed: %w", err)
	}

	return nil
}

func (r *FeedRepo) IncrementSubscribers(ctx context.Context, feedID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE feed SET count = count + 1 WHERE feedid = $1
	`, feedID)

	if err != nil {
		return fmt.Errorf("failed to increment subscriber count: %w", err)
	}

	return nil
}

// Release decrements the subscriber count and deletes the feed row exactly
// when the count reaches zero. Posts of a deleted feed go with it via the
// foreign key cascade.
func (r *FeedRepo) Release(ctx context.Context, feedID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `
		UPDATE feed SET count = count - 1 WHERE feedid = $1 RETURNING count
	`, feedID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to decrement subscriber count: %w", err)
	}

	deleted := false
	if count <= 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM feed WHERE feedid = $1`, feedID); err != nil {
			return false, fmt.Errorf("failed to delete unreferenced feed: %w", err)
		}
		deleted = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit feed release: %w", err)
	}

	return deleted, nil
}

func (r *FeedRepo) ListForFolder(ctx context.Context, folderID string) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT feed.feedid, feed.url, feed.count
		FROM folder
		INNER JOIN subscription sub ON folder.folderid = sub.folderid
		INNER JOIN feed ON sub.feedid = feed.feedid
		WHERE folder.folderid = $1
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds for folder: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		var feed Feed
		if err := rows.Scan(&feed.ID, &feed.URL, &feed.SubscriberCount); err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}
