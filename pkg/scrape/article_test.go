package scrape

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestGenerateSourceID(t *testing.T) {
	date := time.Date(2026, 2, 6, 8, 0, 0, 0, time.UTC)

	id := GenerateSourceID("NIO", "https://ir.nio.com/news/1", date)
	if id != "1d8adae01c006f61" {
		t.Errorf("GenerateSourceID() = %q, want 1d8adae01c006f61", id)
	}
	if len(id) != 16 {
		t.Errorf("len(id) = %d, want 16", len(id))
	}

	if again := GenerateSourceID("NIO", "https://ir.nio.com/news/1", date); again != id {
		t.Errorf("id not stable: %q != %q", again, id)
	}
	if other := GenerateSourceID("NIO", "https://ir.nio.com/news/2", date); other == id {
		t.Error("different urls produced the same id")
	}
	if other := GenerateSourceID("XPeng", "https://ir.nio.com/news/1", date); other == id {
		t.Error("different sources produced the same id")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  NIO   delivers \n 31,138  vehicles ", "NIO delivers 31,138 vehicles"},
		{"one", "one"},
		{"\t\n  ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArticleWireForm(t *testing.T) {
	a := Article{
		SourceID:          "abc123",
		Source:            SourceOfficial,
		SourceURL:         "https://ir.nio.com/news/1",
		SourceAuthor:      "NIO",
		SourceDate:        time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC),
		OriginalTitle:     "title",
		OriginalContent:   "content",
		OriginalMediaURLs: []string{"https://ir.nio.com/img/a.jpg"},
		Categories:        []string{"NIO"},
		RelevanceScore:    DefaultRelevanceScore,
	}

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	data := string(raw)
	for _, key := range []string{`"sourceId"`, `"sourceUrl"`, `"sourceAuthor"`, `"sourceDate"`, `"originalMediaUrls"`, `"relevanceScore"`} {
		if !strings.Contains(data, key) {
			t.Errorf("marshaled article missing %s: %s", key, data)
		}
	}
	if strings.Contains(data, `"translatedTitle"`) {
		t.Errorf("empty translated fields should be omitted: %s", data)
	}
}
