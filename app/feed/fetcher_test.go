package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const fetcherTestFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Fetch Test</title>
    <link>https://example.com</link>
    <description>Fetcher test feed</description>
    <item>
      <title>Item</title>
      <link>https://example.com/item</link>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected configured user agent, got '%s'", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(fetcherTestFeed))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "test-agent")
	entries, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "Item" {
		t.Errorf("Expected title 'Item', got '%s'", entries[0].Title)
	}
}

func TestFetchNon2xxIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "test-agent")
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.URL != server.URL {
		t.Errorf("Expected error to carry the feed URL, got '%s'", fetchErr.URL)
	}
}

func TestFetchConnectionRefusedIsFetchError(t *testing.T) {
	fetcher := NewFetcher(&http.Client{Timeout: time.Second}, "test-agent")
	_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/feed.xml")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %T: %v", err, err)
	}
}

func TestFetchOversizedFeedIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, maxFeedSize+1))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "test-agent")
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError for oversized feed, got %T: %v", err, err)
	}
}

func TestFetchMalformedIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a feed at all"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "test-agent")
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError, got %T: %v", err, err)
	}
}
