package database

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var _ PostRepository = (*PostRepo)(nil)

// PostRepo handles database operations for posts.
type PostRepo struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// Insert stores a post. Post ids are content-addressed, so a conflicting id
// means the entry was ingested before; the insert is a no-op, not an error.
func (r *PostRepo) Insert(ctx context.Context, post Post) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO post (postid, feedid, title, date, content, url, author, image_title, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (postid) DO NOTHING
	`, post.ID, post.FeedID, post.Title, post.Date, post.Content, post.URL,
		post.Author, post.ImageTitle, post.ImageURL)

	if err != nil {
		return false, fmt.Errorf("failed to insert post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return rows > 0, nil
}

func (r *PostRepo) ListForSubscription(ctx context.Context, userID, feedID string, after, before time.Time, readOnly, starOnly bool, limit int) ([]UserPost, error) {
	query := `
		SELECT post.postid, post.feedid, post.title, post.date, COALESCE(post.content, ''),
		       post.url, COALESCE(post.author, ''), COALESCE(post.image_title, ''),
		       COALESCE(post.image_url, ''),
		       COALESCE(status.read, false), COALESCE(status.star, false)
		FROM post
		LEFT OUTER JOIN status ON post.postid = status.postid AND status.userid = $1
		WHERE post.feedid = $2
		  AND post.date > $3
		  AND post.date < $4`
	if readOnly {
		query += `
		  AND status.read`
	}
	if starOnly {
		query += `
		  AND status.star`
	}
	query += `
		ORDER BY post.date DESC
		LIMIT $5`

	rows, err := r.db.QueryContext(ctx, query, userID, feedID, after, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for subscription: %w", err)
	}
	defer rows.Close()

	var posts []UserPost
	for rows.Next() {
		var post UserPost
		err := rows.Scan(
			&post.ID, &post.FeedID, &post.Title, &post.Date, &post.Content,
			&post.URL, &post.Author, &post.ImageTitle, &post.ImageURL,
			&post.Read, &post.Star,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// ListPrunable returns every post of the feed together with a flag marking
// posts starred by any user. The retention engine decides which to discard.
func (r *PostRepo) ListPrunable(ctx context.Context, feedID string) ([]PrunablePost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT post.postid, post.date,
		       EXISTS (SELECT 1 FROM status WHERE status.postid = post.postid AND status.star) AS starred
		FROM post
		WHERE post.feedid = $1
	`, feedID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prunable posts: %w", err)
	}
	defer rows.Close()

	var posts []PrunablePost
	for rows.Next() {
		var post PrunablePost
		if err := rows.Scan(&post.ID, &post.Date, &post.Starred); err != nil {
			return nil, fmt.Errorf("failed to scan prunable post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prunable post rows: %w", err)
	}

	return posts, nil
}

func (r *PostRepo) Delete(ctx context.Context, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM post WHERE postid = ANY($1)
	`, pq.Array(postIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete posts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	return rows, nil
}

func (r *PostRepo) CountForFeed(ctx context.Context, feedID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM post WHERE feedid = $1", feedID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}
