package xapi

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// weightedLen is the post length as X counts it, with the URL wrapped
// to t.co length.
func weightedLen(text, url string) int {
	n := utf8.RuneCountInString(text)
	if url != "" {
		n = n - utf8.RuneCountInString(url) + tcoLength
	}
	return n
}

func TestBuildTweetText(t *testing.T) {
	got := BuildTweetText(
		"NIO delivered 20,000 vehicles in January",
		[]string{"NIO", "EV"},
		"https://ev-platform.app/p/a1",
	)
	want := "NIO delivered 20,000 vehicles in January\n\n#NIO #EV\nhttps://ev-platform.app/p/a1"
	if got != want {
		t.Errorf("BuildTweetText() = %q, want %q", got, want)
	}
}

func TestBuildTweetTextTagNormalization(t *testing.T) {
	got := BuildTweetText("Summary", []string{"#BYD", "Li Auto", "ev", "extra", "more"}, "")
	want := "Summary\n\n#BYD #LiAuto #ev"
	if got != want {
		t.Errorf("BuildTweetText() = %q, want %q", got, want)
	}
}

func TestBuildTweetTextNoTags(t *testing.T) {
	got := BuildTweetText("Summary", nil, "https://x.test/p")
	want := "Summary\n\nhttps://x.test/p"
	if got != want {
		t.Errorf("BuildTweetText() = %q, want %q", got, want)
	}
}

func TestBuildTweetTextSummaryOnly(t *testing.T) {
	got := BuildTweetText("Just the summary", []string{"", "#"}, "")
	if got != "Just the summary" {
		t.Errorf("BuildTweetText() = %q, want bare summary", got)
	}
}

func TestBuildTweetTextTruncation(t *testing.T) {
	url := "https://ev-platform.app/p/abcdef0123456789"
	summary := strings.TrimSpace(strings.Repeat("abcde ", 60))

	got := BuildTweetText(summary, []string{"EV"}, url)

	if !strings.HasSuffix(got, "\n\n#EV\n"+url) {
		t.Fatalf("BuildTweetText() = %q, tag and link lines mangled", got)
	}
	if n := weightedLen(got, url); n > tweetBudget {
		t.Errorf("weighted length = %d, want <= %d", n, tweetBudget)
	}

	summaryPart := strings.SplitN(got, "\n\n", 2)[0]
	if !strings.HasSuffix(summaryPart, "abcde…") {
		t.Errorf("summary ends %q, want cut on a word boundary with ellipsis", summaryPart[len(summaryPart)-12:])
	}
}

func TestBuildTweetTextTruncationNoBoundary(t *testing.T) {
	got := BuildTweetText(strings.Repeat("x", 300), nil, "")
	if n := utf8.RuneCountInString(got); n != tweetBudget {
		t.Errorf("rune count = %d, want exactly %d", n, tweetBudget)
	}
	if !strings.HasSuffix(got, "x…") {
		t.Errorf("got ends %q, want hard cut with ellipsis", got[len(got)-4:])
	}
}

func TestBuildTweetTextRuneBudget(t *testing.T) {
	// Multi-byte runes count once each, not per byte.
	got := BuildTweetText(strings.Repeat("电", 290), nil, "")
	if n := utf8.RuneCountInString(got); n != tweetBudget {
		t.Errorf("rune count = %d, want %d", n, tweetBudget)
	}
	if !strings.HasSuffix(got, "电…") {
		t.Errorf("got should end with an ellipsis after a full rune")
	}
}
