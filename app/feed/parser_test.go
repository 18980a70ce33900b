package feed

import (
	"strings"
	"testing"
	"time"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <author>test@example.com (Test Author)</author>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <guid>item-2</guid>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Parse([]byte(rssData))
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].Title != "Test Item 1" {
		t.Errorf("Expected title 'Test Item 1', got '%s'", entries[0].Title)
	}
	if entries[0].Link != "https://example.com/item1" {
		t.Errorf("Expected link 'https://example.com/item1', got '%s'", entries[0].Link)
	}
	if entries[0].Description != "Test Item 1 Description" {
		t.Errorf("Expected description 'Test Item 1 Description', got '%s'", entries[0].Description)
	}

	expected := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	if !entries[0].Published.Equal(expected) {
		t.Errorf("Expected publish date %v, got %v", expected, entries[0].Published)
	}
}

func TestParseOrigLinkPreferred(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0" xmlns:feedburner="http://rssnamespace.org/feedburner/ext/1.0">
  <channel>
    <title>Proxied Feed</title>
    <link>https://example.com</link>
    <description>Feed behind a redirector</description>
    <item>
      <title>Proxied Item</title>
      <link>https://proxy.example.com/r/abc123</link>
      <feedburner:origLink>https://example.com/original</feedburner:origLink>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Parse([]byte(rssData))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	if entries[0].OrigLink != "https://example.com/original" {
		t.Errorf("Expected origLink 'https://example.com/original', got '%s'", entries[0].OrigLink)
	}
	if entries[0].CanonicalLink() != "https://example.com/original" {
		t.Errorf("Expected canonical link to prefer origLink, got '%s'", entries[0].CanonicalLink())
	}
}

func TestCanonicalLinkFallback(t *testing.T) {
	entry := Entry{Link: "https://example.com/item"}
	if entry.CanonicalLink() != "https://example.com/item" {
		t.Errorf("Expected fallback to link, got '%s'", entry.CanonicalLink())
	}
}

func TestParseMalformed(t *testing.T) {
	parser := NewParser()
	if _, err := parser.Parse([]byte("this is not a feed")); err == nil {
		t.Error("Expected error for malformed feed data")
	}
}

func TestParseMissingDateFallsBack(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>No Dates</title>
    <link>https://example.com</link>
    <description>Feed without item dates</description>
    <item>
      <title>Dateless Item</title>
      <link>https://example.com/item</link>
    </item>
  </channel>
</rss>`

	before := time.Now().UTC()
	parser := NewParser()
	entries, err := parser.Parse([]byte(rssData))
	if err != nil {
		t.Fatal(err)
	}
	after := time.Now().UTC()

	if entries[0].Published.Before(before) || entries[0].Published.After(after) {
		t.Errorf("Expected fetch-time fallback date, got %v", entries[0].Published)
	}
}

func TestPostIDStability(t *testing.T) {
	id1 := PostID("feed-1", "https://example.com/item")
	id2 := PostID("feed-1", "https://example.com/item")
	if id1 != id2 {
		t.Errorf("Expected stable post id, got '%s' and '%s'", id1, id2)
	}

	if len(id1) != postIDLength {
		t.Errorf("Expected post id length %d, got %d", postIDLength, len(id1))
	}

	if PostID("feed-2", "https://example.com/item") == id1 {
		t.Error("Expected different feeds to produce different post ids")
	}
	if PostID("feed-1", "https://example.com/other") == id1 {
		t.Error("Expected different links to produce different post ids")
	}
}

func TestSanitizeFieldTruncation(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := sanitizeField(long)

	if len([]rune(got)) != fieldCap {
		t.Errorf("Expected truncated length %d, got %d", fieldCap, len([]rune(got)))
	}
	if !strings.HasSuffix(got, ellipsis) {
		t.Errorf("Expected ellipsis marker suffix, got '%s'", got)
	}
	if got[:truncateAt] != long[:truncateAt] {
		t.Error("Expected truncation to keep the leading characters")
	}

	short := "short title"
	if sanitizeField(short) != short {
		t.Errorf("Expected short value unchanged, got '%s'", sanitizeField(short))
	}

	exact := strings.Repeat("b", fieldCap)
	if sanitizeField(exact) != exact {
		t.Error("Expected value at the cap to stay unchanged")
	}
}

func TestSanitizeTextStripsNUL(t *testing.T) {
	got := sanitizeText("bad\x00value")
	if got != "badvalue" {
		t.Errorf("Expected NUL bytes stripped, got '%s'", got)
	}
}
