package xapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

// newTestClient points a Client at a local server with pacing off.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{
		http:    server.Client(),
		baseURL: server.URL,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestPostTweet(t *testing.T) {
	var gotMethod, gotPath, gotText string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Text string `json:"text"`
		}
		_ = json.Unmarshal(body, &req)
		gotText = req.Text
		io.WriteString(w, `{"data": {"id": "1948201", "text": "BYD posts record month"}}`)
	})

	id, err := client.PostTweet(context.Background(), "BYD posts record month")
	if err != nil {
		t.Fatalf("PostTweet() error = %v", err)
	}
	if id != "1948201" {
		t.Errorf("id = %q, want 1948201", id)
	}
	if gotMethod != "POST" || gotPath != "/2/tweets" {
		t.Errorf("request = %s %s, want POST /2/tweets", gotMethod, gotPath)
	}
	if gotText != "BYD posts record month" {
		t.Errorf("text = %q", gotText)
	}
}

func TestPostTweetRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"detail": "Too Many Requests"}`)
	})

	_, err := client.PostTweet(context.Background(), "text")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("PostTweet() error = %v, want ErrRateLimited", err)
	}
}

func TestPostTweetDuplicate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"detail": "You are not allowed to create a Tweet with duplicate content."}`)
	})

	_, err := client.PostTweet(context.Background(), "text")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("PostTweet() error = %v, want ErrDuplicate", err)
	}
}

func TestPostTweetForbidden(t *testing.T) {
	// A 403 that is not a duplicate rejection must stay a plain error,
	// otherwise the publish loop would skip posts on auth problems.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"detail": "Your client app is not configured with the appropriate oauth1 app permissions"}`)
	})

	_, err := client.PostTweet(context.Background(), "text")
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("PostTweet() error = %v, want generic 403 error", err)
	}
	if !strings.Contains(err.Error(), "status 403") {
		t.Errorf("error = %v, want status 403 mentioned", err)
	}
}

func TestPostTweetNoID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})

	_, err := client.PostTweet(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "no tweet id") {
		t.Fatalf("PostTweet() error = %v, want no tweet id", err)
	}
}

func TestPostTweetCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("cancelled context should not reach the API")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.PostTweet(ctx, "text")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("PostTweet() error = %v, want context.Canceled", err)
	}
}
