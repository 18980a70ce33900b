package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/feedden/feedden/app/database"
)

// pruneFeed applies the retention policy to one feed. The anchor is the
// oldest refresh date among all subscriptions of the feed, across all users:
// a subscriber that has not caught up yet keeps the window open for everyone.
func (s *Service) pruneFeed(ctx context.Context, feedID string) error {
	oldest, ok, err := s.subs.OldestRefreshDate(ctx, feedID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	posts, err := s.posts.ListPrunable(ctx, feedID)
	if err != nil {
		return err
	}

	victims := discard(posts, oldest, s.ageLimit, s.subPostLimit)
	if len(victims) == 0 {
		return nil
	}

	deleted, err := s.posts.Delete(ctx, victims)
	if err != nil {
		return err
	}

	remaining, err := s.posts.CountForFeed(ctx, feedID)
	if err != nil {
		return err
	}

	slog.Info("Retention pruned posts", "feed_id", feedID, "deleted", deleted, "remaining", remaining)

	return nil
}

// discard computes the union of two independent discard sets:
//
//   - age cap: posts older than oldest − ageLimit;
//   - count cap: among posts dated at or before oldest (already seen by
//     every subscriber), everything beyond the `keep` most recent.
//
// Posts starred by any user are exempt from both caps. Relative order of
// equal dates is unspecified.
func discard(posts []database.PrunablePost, oldest time.Time, ageLimit time.Duration, keep int) []string {
	cutoff := oldest.Add(-ageLimit)
	victims := make(map[string]struct{})

	var seen []database.PrunablePost
	for _, post := range posts {
		if post.Starred {
			continue
		}
		if post.Date.Before(cutoff) {
			victims[post.ID] = struct{}{}
		}
		if !post.Date.After(oldest) {
			seen = append(seen, post)
		}
	}

	sort.Slice(seen, func(i, j int) bool {
		return seen[i].Date.After(seen[j].Date)
	})
	for i := keep; i < len(seen); i++ {
		victims[seen[i].ID] = struct{}{}
	}

	ids := make([]string, 0, len(victims))
	for id := range victims {
		ids = append(ids, id)
	}

	return ids
}
