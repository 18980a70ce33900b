package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxFeedSize caps how much of a feed document is read. Feeds larger than
// this are treated as fetch failures rather than exhausting memory.
const maxFeedSize = 10 << 20

// Fetcher retrieves a remote feed document and parses it into entries.
type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		parser:     NewParser(),
		userAgent:  userAgent,
	}
}

// Fetch GETs the feed URL and returns its normalized entries. Transport
// failures surface as *FetchError, malformed documents as *ParseError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if len(data) > maxFeedSize {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("feed exceeds %d bytes", maxFeedSize)}
	}

	entries, err := f.parser.Parse(data)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	return entries, nil
}
