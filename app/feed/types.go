package feed

import (
	"fmt"
	"time"
)

// Entry is a normalized feed entry ready for ingestion.
type Entry struct {
	Title       string
	Published   time.Time
	Description string
	Link        string
	OrigLink    string // Pre-redirect link (e.g. feedburner origLink), preferred for identity
	Author      string
	ImageTitle  string
	ImageURL    string
}

// CanonicalLink is the entry's identity link: the original link when the feed
// carries one, the regular link otherwise.
func (e Entry) CanonicalLink() string {
	if e.OrigLink != "" {
		return e.OrigLink
	}
	return e.Link
}

// FetchError reports a transport failure: connection refused, timeout, or a
// non-2xx response. It is isolated per feed and never aborts a refresh batch.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports malformed feed syntax. Same isolation as FetchError.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse feed %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
