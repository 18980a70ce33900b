package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/feedden/feedden/app/database"
	"github.com/feedden/feedden/app/feed"
)

// Refresh fetches every feed subscribed in the folder, ingests unseen posts,
// advances the watermark for successfully fetched feeds, prunes per the
// retention policy, and invalidates the folder's cached pages. Individual
// fetch or parse failures are logged and skipped; partial success is the
// norm, not an error.
func (s *Service) Refresh(ctx context.Context, userID, folderName string) error {
	folder, err := s.folders.GetByName(ctx, userID, folderName)
	if err != nil {
		return err
	}
	if folder == nil {
		return ErrFolderNotFound
	}

	feeds, err := s.feeds.ListForFolder(ctx, folder.ID)
	if err != nil {
		return err
	}

	// Feeds are independent: fetch and ingest concurrently, one goroutine
	// per feed. Post ids are content-addressed, so concurrent refreshes of
	// the same folder are idempotent concurrent writers.
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		fetched []string
	)

	for _, fd := range feeds {
		wg.Add(1)
		go func(fd database.Feed) {
			defer wg.Done()

			if err := s.ingestFeed(ctx, fd); err != nil {
				slog.Warn("Feed refresh failed, skipping", "url", fd.URL, "error", err)
				return
			}

			mu.Lock()
			fetched = append(fetched, fd.ID)
			mu.Unlock()
		}(fd)
	}
	wg.Wait()

	// Watermark and retention only cover feeds whose fetch succeeded, and
	// retention runs strictly after all insertions and the watermark update:
	// both the post set and refresh_date feed its predicate.
	if len(fetched) > 0 {
		now := time.Now().UTC()
		if err := s.subs.TouchFolderFeeds(ctx, folder.ID, fetched, now); err != nil {
			return err
		}

		for _, feedID := range fetched {
			if err := s.pruneFeed(ctx, feedID); err != nil {
				slog.Error("Retention pruning failed", "feed_id", feedID, "error", err)
			}
		}
	}

	// Invalidation goes out after the storage mutations commit, so a
	// concurrent reader cannot repopulate the cache with pre-refresh data.
	s.cache.InvalidateFolder(ctx, userID, folder.ID)

	return nil
}

func (s *Service) ingestFeed(ctx context.Context, fd database.Feed) error {
	entries, err := s.fetcher.Fetch(ctx, fd.URL)
	if err != nil {
		return err
	}

	inserted := 0
	for _, entry := range entries {
		ok, err := s.posts.Insert(ctx, buildPost(fd.ID, entry))
		if err != nil {
			return fmt.Errorf("failed to ingest entry %q: %w", entry.CanonicalLink(), err)
		}
		if ok {
			inserted++
		}
	}

	slog.Info("Feed ingested", "url", fd.URL, "total", len(entries), "new", inserted)

	return nil
}

func buildPost(feedID string, entry feed.Entry) database.Post {
	link := entry.CanonicalLink()
	return database.Post{
		ID:         feed.PostID(feedID, link),
		FeedID:     feedID,
		Title:      entry.Title,
		Date:       entry.Published,
		Content:    entry.Description,
		URL:        link,
		Author:     entry.Author,
		ImageTitle: entry.ImageTitle,
		ImageURL:   entry.ImageURL,
	}
}
