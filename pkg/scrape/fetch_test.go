package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcherGetDefaultAgent(t *testing.T) {
	var gotUA, gotUpgrade string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotUpgrade = r.Header.Get("Upgrade-Insecure-Requests")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	body, err := f.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	// Without a pool the request keeps Go's default agent; the IR sites
	// reject browser-like agents from plain HTTP clients.
	if !strings.HasPrefix(gotUA, "Go-http-client") {
		t.Errorf("User-Agent = %q, want Go default", gotUA)
	}
	if gotUpgrade != "" {
		t.Errorf("Upgrade-Insecure-Requests = %q, want unset", gotUpgrade)
	}
}

func TestFetcherGetAgentPool(t *testing.T) {
	var gotUA, gotUpgrade, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotUpgrade = r.Header.Get("Upgrade-Insecure-Requests")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "Agent-A")
	if _, err := f.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if gotUA != "Agent-A" {
		t.Errorf("User-Agent = %q, want Agent-A", gotUA)
	}
	if gotUpgrade != "1" {
		t.Errorf("Upgrade-Insecure-Requests = %q, want 1", gotUpgrade)
	}
	if gotAccept != browserHeaders["Accept"] {
		t.Errorf("Accept = %q, want %q", gotAccept, browserHeaders["Accept"])
	}
}

func TestFetcherGetStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	_, err := f.Get(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Get() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "unexpected status 404") {
		t.Errorf("error = %v, want unexpected status 404", err)
	}
}

func TestFetcherGetHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="headline">NIO delivers</div>`))
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	doc, err := f.GetHTML(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetHTML() error = %v", err)
	}

	n := findFirst(doc, classHas("headline"))
	if n == nil {
		t.Fatal("headline not found in parsed document")
	}
	if got := nodeText(n); got != "NIO delivers" {
		t.Errorf("nodeText() = %q, want NIO delivers", got)
	}
}

func TestRandomDelay(t *testing.T) {
	// Equal bounds must not panic and zero bounds return immediately.
	if err := randomDelay(context.Background(), 0, 0); err != nil {
		t.Errorf("randomDelay(0, 0) error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := randomDelay(ctx, time.Hour, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("randomDelay() error = %v, want context.Canceled", err)
	}
}
