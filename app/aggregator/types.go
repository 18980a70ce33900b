package aggregator

import (
	"context"
	"time"

	"github.com/feedden/feedden/app/database"
	"github.com/feedden/feedden/app/feed"
)

type SortMode string

const (
	SortAlphaAsc  SortMode = "alpha_asc"
	SortAlphaDesc SortMode = "alpha_desc"
	SortDateAsc   SortMode = "date_asc"
	SortDateDesc  SortMode = "date_desc"
)

// ParseSortMode maps a request parameter to a sort mode, defaulting to
// date_desc for empty or unrecognized values.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortAlphaAsc, SortAlphaDesc, SortDateAsc:
		return SortMode(s)
	default:
		return SortDateDesc
	}
}

// PostRecord is the serialized shape of a listed post, augmented with the
// caller's status flags.
type PostRecord struct {
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	Content    string    `json:"content"`
	URL        string    `json:"url"`
	Author     string    `json:"author"`
	ImageTitle string    `json:"image_title"`
	ImageURL   string    `json:"image_url"`
	Read       bool      `json:"read"`
	Star       bool      `json:"star"`
}

// Fetcher retrieves and parses one remote feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]feed.Entry, error)
}

// Cache is the coordinator surface the aggregator depends on. All methods
// are best-effort: a degraded cache turns reads into misses and writes into
// no-ops.
type Cache interface {
	GetPage(ctx context.Context, userID, folderID, field string) (string, bool)
	SetPage(ctx context.Context, userID, folderID, field, payload string)
	InvalidateFolder(ctx context.Context, userID, folderID string)
	GetFolderList(ctx context.Context, userID string) ([]string, bool)
	SetFolderList(ctx context.Context, userID string, names []string)
	InvalidateFolderList(ctx context.Context, userID string)
}

// Options carries the retention and query limits. They are explicit inputs
// of the engine, never inferred from process topology.
type Options struct {
	AgeLimit     time.Duration
	SubPostLimit int
	PageLimit    int
}

// Service is the feed ingestion/retention/query pipeline.
type Service struct {
	fetcher  Fetcher
	folders  database.FolderRepository
	feeds    database.FeedRepository
	subs     database.SubscriptionRepository
	posts    database.PostRepository
	statuses database.StatusRepository
	cache    Cache

	ageLimit     time.Duration
	subPostLimit int
	pageLimit    int
}

func NewService(fetcher Fetcher, folders database.FolderRepository, feeds database.FeedRepository,
	subs database.SubscriptionRepository, posts database.PostRepository,
	statuses database.StatusRepository, cache Cache, opts Options) *Service {
	return &Service{
		fetcher:      fetcher,
		folders:      folders,
		feeds:        feeds,
		subs:         subs,
		posts:        posts,
		statuses:     statuses,
		cache:        cache,
		ageLimit:     opts.AgeLimit,
		subPostLimit: opts.SubPostLimit,
		pageLimit:    opts.PageLimit,
	}
}

// epoch is the refresh watermark of a subscription that was never refreshed.
var epoch = time.Unix(0, 0).UTC()
