package aggregator

import (
	"context"

	"github.com/google/uuid"

	"github.com/feedden/feedden/app/database"
)

// AddFolder creates a folder for the caller. Folder names are unique per
// owner.
func (s *Service) AddFolder(ctx context.Context, userID, name string) error {
	exists, err := s.folders.Exists(ctx, userID, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrFolderExists
	}

	folder := database.Folder{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return err
	}

	s.cache.InvalidateFolderList(ctx, userID)

	return nil
}

// RemoveFolder deletes a folder and its subscriptions, releasing each
// subscription's feed reference and cleaning up star annotations the caller
// can no longer reach.
func (s *Service) RemoveFolder(ctx context.Context, userID, name string) error {
	folder, err := s.folders.GetByName(ctx, userID, name)
	if err != nil {
		return err
	}
	if folder == nil {
		return ErrFolderNotFound
	}

	subs, err := s.subs.ListForFolder(ctx, folder.ID)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if err := s.subs.Delete(ctx, sub.ID); err != nil {
			return err
		}
		if err := s.releaseFeed(ctx, userID, sub.FeedID); err != nil {
			return err
		}
	}

	if err := s.folders.Delete(ctx, folder.ID, userID); err != nil {
		return err
	}

	s.cache.InvalidateFolder(ctx, userID, folder.ID)
	s.cache.InvalidateFolderList(ctx, userID)

	return nil
}

// ListFolders returns the caller's folder names, read through the cache.
func (s *Service) ListFolders(ctx context.Context, userID string) ([]string, error) {
	if names, ok := s.cache.GetFolderList(ctx, userID); ok {
		return names, nil
	}

	names, err := s.folders.ListNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.SetFolderList(ctx, userID, names)

	return names, nil
}

// releaseFeed drops one subscription's reference to a feed. If the feed row
// survives (other subscribers remain) but this was the caller's last
// subscription to it, the caller's starred statuses for the feed's posts are
// removed: they are unreachable from any remaining subscription and would
// otherwise shield those posts from retention forever.
func (s *Service) releaseFeed(ctx context.Context, userID, feedID string) error {
	deleted, err := s.feeds.Release(ctx, feedID)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}

	remaining, err := s.subs.CountForUserAndFeed(ctx, userID, feedID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return s.statuses.DeleteStarredForFeed(ctx, userID, feedID)
	}

	return nil
}
