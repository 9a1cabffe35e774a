package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const xpengHomePage = `<html><body>
<div class="release">
  <a href="/news-releases/news-release-details/xpeng-january-2026">XPENG Announces Vehicle Delivery Results for January 2026</a>
  <span class="posted-date">February 3, 2026</span>
</div>
<div class="banner">
  <a href="/news-releases/news-release-details/xpeng-january-2026">Read more</a>
</div>
<a href="/about/">About XPENG</a>
</body></html>`

const xpengArticlePage = `<html><body>
<article>
  <p>XPENG delivered 30,350 Smart EVs in January 2026.</p>
</article>
</body></html>`

func TestXPengFetchArticles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(xpengHomePage))
	})
	mux.HandleFunc("/news-releases/news-release-details/xpeng-january-2026", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(xpengArticlePage))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	src := NewXPengSource(NewFetcher(5 * time.Second))
	src.baseURL = server.URL
	src.newsURL = server.URL + "/"

	articles, err := src.FetchArticles(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchArticles() error = %v", err)
	}

	// Both anchors point at the same release; the href dedupe keeps one.
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}

	a := articles[0]
	if a.OriginalTitle != "XPENG Announces Vehicle Delivery Results for January 2026" {
		t.Errorf("OriginalTitle = %q", a.OriginalTitle)
	}
	if want := server.URL + "/news-releases/news-release-details/xpeng-january-2026"; a.SourceURL != want {
		t.Errorf("SourceURL = %q, want %q", a.SourceURL, want)
	}
	if want := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC); !a.SourceDate.Equal(want) {
		t.Errorf("SourceDate = %v, want %v", a.SourceDate, want)
	}
	if a.OriginalContent != "XPENG delivered 30,350 Smart EVs in January 2026." {
		t.Errorf("OriginalContent = %q", a.OriginalContent)
	}
	if a.SourceAuthor != "XPeng" {
		t.Errorf("SourceAuthor = %q, want XPeng", a.SourceAuthor)
	}
}
