package aggregator

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/feedden/feedden/app/database"
)

// AddSubscription subscribes a folder to a feed URL. The feed row is shared
// across users: created on first subscription, reference-counted afterwards.
func (s *Service) AddSubscription(ctx context.Context, userID, folderName, subName, feedURL string) (string, error) {
	taken, err := s.subs.NameTaken(ctx, userID, subName)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrSubscriptionExists
	}

	folder, err := s.folders.GetByName(ctx, userID, folderName)
	if err != nil {
		return "", err
	}
	if folder == nil {
		return "", ErrFolderNotFound
	}

	canonical, err := canonicalFeedURL(feedURL)
	if err != nil {
		return "", err
	}

	fd, err := s.feeds.GetByURL(ctx, canonical)
	if err != nil {
		return "", err
	}

	var feedID string
	if fd != nil {
		duplicate, err := s.subs.FolderHasFeed(ctx, folder.ID, fd.ID)
		if err != nil {
			return "", err
		}
		if duplicate {
			return "", ErrFeedDuplicate
		}

		if err := s.feeds.IncrementSubscribers(ctx, fd.ID); err != nil {
			return "", err
		}
		feedID = fd.ID
	} else {
		feedID = uuid.NewString()
		if err := s.feeds.Create(ctx, database.Feed{ID: feedID, URL: canonical, SubscriberCount: 1}); err != nil {
			return "", err
		}
	}

	sub := database.Subscription{
		ID:          uuid.NewString(),
		FolderID:    folder.ID,
		FeedID:      feedID,
		Name:        subName,
		RefreshDate: epoch,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		// Compensate the reference taken above, or the count stays inflated
		// (and a freshly created feed row would be orphaned).
		if _, rerr := s.feeds.Release(ctx, feedID); rerr != nil {
			slog.Error("Failed to release feed after subscription create failure", "feed_id", feedID, "error", rerr)
		}
		return "", err
	}

	s.cache.InvalidateFolder(ctx, userID, folder.ID)

	return sub.ID, nil
}

// RemoveSubscription deletes a subscription, decrements the feed's
// subscriber count (removing the feed and its posts at zero), and cleans up
// orphaned star annotations.
func (s *Service) RemoveSubscription(ctx context.Context, userID, folderName, subName string) error {
	folder, err := s.folders.GetByName(ctx, userID, folderName)
	if err != nil {
		return err
	}
	if folder == nil {
		return ErrFolderNotFound
	}

	sub, err := s.subs.GetByName(ctx, folder.ID, subName)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	if err := s.subs.Delete(ctx, sub.ID); err != nil {
		return err
	}
	if err := s.releaseFeed(ctx, userID, sub.FeedID); err != nil {
		return err
	}

	s.cache.InvalidateFolder(ctx, userID, folder.ID)

	return nil
}

// SetStatus records the caller's read/star annotation on a post. Nil flags
// keep the stored value.
func (s *Service) SetStatus(ctx context.Context, userID, postID string, read, star *bool) error {
	return s.statuses.Set(ctx, userID, postID, read, star)
}

// canonicalFeedURL reduces a feed URL to origin + path, so query strings and
// fragments never split one feed into several rows.
func canonicalFeedURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidFeedURL
	}

	return u.Scheme + "://" + u.Host + u.Path, nil
}
