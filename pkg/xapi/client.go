// Package xapi posts to X (Twitter) through the v2 API with an OAuth2
// user context and composes tweet text within the platform's character
// budget.
package xapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.twitter.com"
	tokenURL       = "https://api.twitter.com/2/oauth2/token"

	// Minimum spacing between consecutive posts. Burst publishing
	// trips X's per-user velocity checks well before the daily cap.
	postInterval = 2 * time.Second
)

var (
	// ErrRateLimited means X refused the post with 429; the day's
	// quota is done.
	ErrRateLimited = errors.New("x api rate limited")

	// ErrDuplicate means X rejected the tweet as duplicate content.
	ErrDuplicate = errors.New("duplicate tweet")
)

// Publisher posts to X. The publish service depends on this seam so
// dry-run mode can swap the real client out.
type Publisher interface {
	PostTweet(ctx context.Context, text string) (string, error)
}

// Config holds the OAuth2 user-context credentials. The refresh token
// must carry the offline.access scope.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient builds an X API v2 client. Access tokens are minted from
// the refresh token on first use and renewed automatically.
func NewClient(ctx context.Context, cfg Config) *Client {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	return &Client{
		http:    conf.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}),
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Every(postInterval), 1),
	}
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// PostTweet publishes text and returns the new tweet id. 429 maps to
// ErrRateLimited and a 403 duplicate rejection to ErrDuplicate so the
// publish loop can tell "stop for today" from "skip this post".
func (c *Client) PostTweet(ctx context.Context, text string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if len(respBody) > 500 {
		respBody = respBody[:500]
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusForbidden && isDuplicate(respBody):
		return "", ErrDuplicate
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("x api error (status %d): %s", resp.StatusCode, respBody)
	}

	var out tweetResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("x api returned no tweet id")
	}
	return out.Data.ID, nil
}

// X reports duplicate content as a 403 with a detail string rather
// than a dedicated error code.
func isDuplicate(body []byte) bool {
	return bytes.Contains(bytes.ToLower(body), []byte("duplicate"))
}
