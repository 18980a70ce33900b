package aggregator

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/feedden/feedden/app/cache"
	"github.com/feedden/feedden/app/database"
	"golang.org/x/text/cases"
)

// ListPosts answers a folder-scoped, sorted, paginated post listing. The
// returned payload is the serialized page; a cache hit returns the cached
// payload verbatim without touching storage.
func (s *Service) ListPosts(ctx context.Context, userID, folderName string, mode SortMode, readOnly, starOnly bool, page int) ([]byte, error) {
	folder, err := s.folders.GetByName(ctx, userID, folderName)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, ErrFolderNotFound
	}

	if page < 1 {
		page = 1
	}

	field := cache.FieldKey(string(mode), readOnly, starOnly, page)
	if payload, ok := s.cache.GetPage(ctx, userID, folder.ID, field); ok {
		slog.Debug("Post listing cache hit", "folder", folderName, "field", field)
		return []byte(payload), nil
	}
	slog.Debug("Post listing cache miss", "folder", folderName, "field", field)

	subs, err := s.subs.ListForFolder(ctx, folder.ID)
	if err != nil {
		return nil, err
	}

	// Each subscription contributes at most subPostLimit posts from the age
	// window anchored at its own watermark; posts newer than the watermark
	// belong to a not-yet-refreshed era and stay hidden.
	var posts []database.UserPost
	for _, sub := range subs {
		chunk, err := s.posts.ListForSubscription(ctx, userID, sub.FeedID,
			sub.RefreshDate.Add(-s.ageLimit), sub.RefreshDate,
			readOnly, starOnly, s.subPostLimit)
		if err != nil {
			return nil, err
		}
		posts = append(posts, chunk...)
	}

	sortPosts(posts, mode)

	records := make([]PostRecord, 0, s.pageLimit)
	for _, post := range paginate(posts, page, s.pageLimit) {
		records = append(records, PostRecord{
			Title:      post.Title,
			Date:       post.Date,
			Content:    post.Content,
			URL:        post.URL,
			Author:     post.Author,
			ImageTitle: post.ImageTitle,
			ImageURL:   post.ImageURL,
			Read:       post.Read,
			Star:       post.Star,
		})
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	s.cache.SetPage(ctx, userID, folder.ID, field, string(payload))

	return payload, nil
}

// sortPosts orders the combined result set. Alphabetic modes compare
// case-folded titles; relative order of ties is unspecified.
func sortPosts(posts []database.UserPost, mode SortMode) {
	switch mode {
	case SortAlphaAsc:
		caser := cases.Fold()
		sort.Slice(posts, func(i, j int) bool {
			return caser.String(posts[i].Title) < caser.String(posts[j].Title)
		})
	case SortAlphaDesc:
		caser := cases.Fold()
		sort.Slice(posts, func(i, j int) bool {
			return caser.String(posts[i].Title) > caser.String(posts[j].Title)
		})
	case SortDateAsc:
		sort.Slice(posts, func(i, j int) bool {
			return posts[i].Date.Before(posts[j].Date)
		})
	default: // SortDateDesc
		sort.Slice(posts, func(i, j int) bool {
			return posts[i].Date.After(posts[j].Date)
		})
	}
}

// paginate returns the 1-based page slice. Pages beyond the result length
// are empty, never an error.
func paginate(posts []database.UserPost, page, limit int) []database.UserPost {
	start := (page - 1) * limit
	if start >= len(posts) {
		return nil
	}

	end := start + limit
	if end > len(posts) {
		end = len(posts)
	}

	return posts[start:end]
}
