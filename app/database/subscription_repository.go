package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var _ SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo handles database operations for subscriptions.
type SubscriptionRepo struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

func (r *SubscriptionRepo) NameTaken(ctx context.Context, userID, name string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscription sub
			INNER JOIN folder ON sub.folderid = folder.folderid
			WHERE folder.userid = $1 AND sub.name = $2
		)
	`, userID, name).Scan(&taken)

	if err != nil {
		return false, fmt.Errorf("failed to check subscription name: %w", err)
	}

	return taken, nil
}

func (r *SubscriptionRepo) FolderHasFeed(ctx context.Context, folderID, feedID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscription WHERE folderid = $1 AND feedid = $2
		)
	`, folderID, feedID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check folder feed membership: %w", err)
	}

	return exists, nil
}

func (r *SubscriptionRepo) Create(ctx context.Context, sub Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscription (subid, folderid, feedid, name, refresh_date)
		VALUES ($1, $2, $3, $4, $5)
	`, sub.ID, sub.FolderID, sub.FeedID, sub.Name, sub.RefreshDate)

	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

func (r *SubscriptionRepo) GetByName(ctx context.Context, folderID, name string) (*Subscription, error) {
	var sub Subscription
	err := r.db.QueryRowContext(ctx, `
		SELECT subid, folderid, feedid, name, refresh_date FROM subscription
		WHERE folderid = $1 AND name = $2
	`, folderID, name).Scan(&sub.ID, &sub.FolderID, &sub.FeedID, &sub.Name, &sub.RefreshDate)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by name: %w", err)
	}

	return &sub, nil
}

func (r *SubscriptionRepo) Delete(ctx context.Context, subID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM subscription WHERE subid = $1
	`, subID)

	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return nil
}

func (r *SubscriptionRepo) ListForFolder(ctx context.Context, folderID string) ([]Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT subid, folderid, feedid, name, refresh_date FROM subscription
		WHERE folderid = $1
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for folder: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		err := rows.Scan(&sub.ID, &sub.FolderID, &sub.FeedID, &sub.Name, &sub.RefreshDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}

	return subs, nil
}

// TouchFolderFeeds advances the watermark for the folder's subscriptions to
// the given feeds in a single batched update. The watermark never moves
// backwards.
func (r *SubscriptionRepo) TouchFolderFeeds(ctx context.Context, folderID string, feedIDs []string, now time.Time) error {
	if len(feedIDs) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE subscription SET refresh_date = $3
		WHERE folderid = $1 AND feedid = ANY($2) AND refresh_date < $3
	`, folderID, pq.Array(feedIDs), now)

	if err != nil {
		return fmt.Errorf("failed to update refresh dates: %w", err)
	}

	return nil
}

func (r *SubscriptionRepo) OldestRefreshDate(ctx context.Context, feedID string) (time.Time, bool, error) {
	var oldest sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT MIN(refresh_date) FROM subscription WHERE feedid = $1
	`, feedID).Scan(&oldest)

	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get oldest refresh date: %w", err)
	}
	if !oldest.Valid {
		return time.Time{}, false, nil
	}

	return oldest.Time, true, nil
}

func (r *SubscriptionRepo) CountForUserAndFeed(ctx context.Context, userID, feedID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM subscription sub
		INNER JOIN folder ON sub.folderid = folder.folderid
		WHERE folder.userid = $1 AND sub.feedid = $2
	`, userID, feedID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("failed to count user subscriptions to feed: %w", err)
	}

	return count, nil
}
