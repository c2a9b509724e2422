package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultFeedTimeout bounds a single feed fetch.
const DefaultFeedTimeout = 15 * time.Second

// maxFeedBytes caps how much of a feed body is read.
const maxFeedBytes = 10 << 20

// FeedFetcher retrieves iCal feed bodies over HTTP. Feeds are fetched fresh
// on every calendar view; there is no persistent cache of parsed events.
type FeedFetcher struct {
	client *http.Client
}

// NewFeedFetcher creates a fetcher with the given per-request timeout.
func NewFeedFetcher(timeout time.Duration) *FeedFetcher {
	if timeout <= 0 {
		timeout = DefaultFeedTimeout
	}
	return &FeedFetcher{client: &http.Client{Timeout: timeout}}
}

// NormalizeFeedURL rewrites the webcal scheme many calendar providers hand
// out into plain https, which is what the link actually serves.
func NormalizeFeedURL(url string) string {
	if strings.HasPrefix(url, "webcal://") {
		return "https://" + strings.TrimPrefix(url, "webcal://")
	}
	return url
}

// Fetch downloads a feed body. Any non-200 status is an error; the caller
// isolates failures per source.
func (f *FeedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, NormalizeFeedURL(url), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}
