package database

import (
	"context"
	"time"
)

type AccountRepository interface {
	// Ensure upserts the opaque caller id so foreign keys have a target.
	// Account registration itself is handled by the auth collaborator.
	Ensure(ctx context.Context, userID string) error
}

type FolderRepository interface {
	GetByName(ctx context.Context, userID, name string) (*Folder, error)
	ListNames(ctx context.Context, userID string) ([]string, error)
	ListAll(ctx context.Context) ([]Folder, error)
	Exists(ctx context.Context, userID, name string) (bool, error)
	Create(ctx context.Context, folder Folder) error
	Delete(ctx context.Context, folderID, userID string) error
}

type FeedRepository interface {
	GetByURL(ctx context.Context, url string) (*Feed, error)
	Create(ctx context.Context, feed Feed) error
	IncrementSubscribers(ctx context.Context, feedID string) error
	// Release decrements the subscriber count and removes the feed row when
	// the count reaches zero, in a single transaction. Reports whether the
	// feed row was deleted.
	Release(ctx context.Context, feedID string) (bool, error)
	ListForFolder(ctx context.Context, folderID string) ([]Feed, error)
}

type SubscriptionRepository interface {
	NameTaken(ctx context.Context, userID, name string) (bool, error)
	FolderHasFeed(ctx context.Context, folderID, feedID string) (bool, error)
	Create(ctx context.Context, sub Subscription) error
	GetByName(ctx context.Context, folderID, name string) (*Subscription, error)
	Delete(ctx context.Context, subID string) error
	ListForFolder(ctx context.Context, folderID string) ([]Subscription, error)
	// TouchFolderFeeds advances the refresh watermark for every subscription
	// in the folder whose feed is in feedIDs.
	TouchFolderFeeds(ctx context.Context, folderID string, feedIDs []string, now time.Time) error
	// OldestRefreshDate returns the minimum refresh date among all
	// subscriptions (across all users) referencing the feed.
	OldestRefreshDate(ctx context.Context, feedID string) (time.Time, bool, error)
	CountForUserAndFeed(ctx context.Context, userID, feedID string) (int, error)
}

type PostRepository interface {
	// Insert stores a post, treating a repeated id as "already exists".
	// Reports whether a new row was created.
	Insert(ctx context.Context, post Post) (bool, error)
	ListForSubscription(ctx context.Context, userID, feedID string, after, before time.Time, readOnly, starOnly bool, limit int) ([]UserPost, error)
	ListPrunable(ctx context.Context, feedID string) ([]PrunablePost, error)
	Delete(ctx context.Context, postIDs []string) (int64, error)
	CountForFeed(ctx context.Context, feedID string) (int, error)
}

type StatusRepository interface {
	Set(ctx context.Context, userID, postID string, read, star *bool) error
	// DeleteStarredForFeed removes the user's starred status rows for posts of
	// the feed. Used when the user's last subscription to the feed goes away.
	DeleteStarredForFeed(ctx context.Context, userID, feedID string) error
}
