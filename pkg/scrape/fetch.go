package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/net/html"
)

// Responses larger than this are truncated; news pages stay well under
// it and a runaway body must not exhaust memory.
const maxBodyBytes = 2 << 20

// browserHeaders accompany a rotated user agent so the request profile
// stays close to a real desktop browser.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9,zh-CN;q=0.8,zh;q=0.7",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Cache-Control":             "max-age=0",
}

// Fetcher is the shared HTTP helper for the HTML sources.
//
// With an empty user agent pool requests carry Go's default agent. The
// IR sites block browser-like agents coming from non-browser clients,
// so the official sources keep the default while CnEVData rotates a
// desktop pool.
type Fetcher struct {
	client     *http.Client
	userAgents []string
}

// NewFetcher returns a Fetcher with the given per-request timeout and
// an optional user agent pool.
func NewFetcher(timeout time.Duration, userAgents ...string) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		userAgents: userAgents,
	}
}

// Get fetches url and returns the response body.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if len(f.userAgents) > 0 {
		req.Header.Set("User-Agent", f.userAgents[rand.Intn(len(f.userAgents))])
		for k, v := range browserHeaders {
			req.Header.Set(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// GetHTML fetches url and parses the response as HTML.
func (f *Fetcher) GetHTML(ctx context.Context, url string) (*html.Node, error) {
	body, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// Delay sleeps for a random duration in [min, max) or until ctx is
// cancelled. Sources use it to pace consecutive requests to the same
// host.
func (f *Fetcher) Delay(ctx context.Context, min, max time.Duration) error {
	return randomDelay(ctx, min, max)
}

func randomDelay(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
