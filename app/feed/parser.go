package feed

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Field caps match the storage layer's varchar(64) columns. Longer values are
// cut to 61 characters plus an ellipsis marker.
const (
	fieldCap     = 64
	truncateAt   = 61
	ellipsis     = "..."
	postIDLength = 16
)

// Parser turns a raw RSS/Atom document into normalized entries.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Parse parses feed data into a finite sequence of normalized entries.
func (p *Parser) Parse(data []byte) ([]Entry, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	now := time.Now().UTC()
	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, p.normalizeItem(item, now))
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, now time.Time) Entry {
	entry := Entry{
		Title:       sanitizeField(item.Title),
		Description: sanitizeText(item.Description),
		Link:        item.Link,
		OrigLink:    origLink(item),
		Published:   now,
	}

	if item.PublishedParsed != nil {
		entry.Published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		entry.Published = item.UpdatedParsed.UTC()
	}

	if len(item.Authors) > 0 && item.Authors[0] != nil {
		entry.Author = sanitizeField(item.Authors[0].Name)
	}

	if item.Image != nil {
		entry.ImageTitle = sanitizeField(item.Image.Title)
		entry.ImageURL = item.Image.URL
	}

	return entry
}

// origLink extracts the pre-redirect link feeds expose via the feedburner
// extension. Empty when the feed has no such element.
func origLink(item *gofeed.Item) string {
	ext, ok := item.Extensions["feedburner"]
	if !ok {
		return ""
	}
	for _, candidate := range []string{"origLink", "origlink"} {
		if links, ok := ext[candidate]; ok && len(links) > 0 {
			return links[0].Value
		}
	}
	return ""
}

// PostID derives the content-addressed post identifier from the feed id and
// the entry's canonical link. Refetching the same entry always yields the
// same id, which makes ingestion idempotent.
func PostID(feedID, canonicalLink string) string {
	sum := sha256.Sum256([]byte(feedID + canonicalLink))
	return hex.EncodeToString(sum[:])[:postIDLength]
}

// sanitizeField normalizes a value bound for a capped varchar column: strips
// bytes the storage layer cannot hold and truncates with an ellipsis marker.
func sanitizeField(s string) string {
	s = sanitizeText(s)
	runes := []rune(s)
	if len(runes) > fieldCap {
		return string(runes[:truncateAt]) + ellipsis
	}
	return s
}

// sanitizeText strips NUL bytes and invalid UTF-8, which postgres text
// columns reject.
func sanitizeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, "\x00", "")
}
