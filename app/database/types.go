package database

import (
	"time"
)

type Folder struct {
	ID     string // Database UUID
	UserID string // Opaque caller identifier resolved by the auth collaborator
	Name   string
}

type Feed struct {
	ID              string // Database UUID
	URL             string // Canonicalized feed URL (origin + path)
	SubscriberCount int    // Reference count of live subscriptions
}

type Subscription struct {
	ID          string // Database UUID
	FolderID    string
	FeedID      string
	Name        string
	RefreshDate time.Time // Watermark of the last successful ingestion; epoch means never refreshed
}

type Post struct {
	ID         string // Content-addressed: truncated sha256 of feed id + canonical link
	FeedID     string
	Title      string
	Date       time.Time
	Content    string
	URL        string
	Author     string
	ImageTitle string
	ImageURL   string
}

// UserPost is a post augmented with the caller's status flags.
type UserPost struct {
	Post
	Read bool
	Star bool
}

// PrunablePost is the retention engine's view of a stored post.
type PrunablePost struct {
	ID      string
	Date    time.Time
	Starred bool // true if any user starred the post
}
