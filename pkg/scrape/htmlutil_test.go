package scrape

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
)

func mustParseHTML(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestClassMatchers(t *testing.T) {
	doc := mustParseHTML(t, `<div class="news-card featured">x</div>`)
	n := findFirst(doc, tagIs("div"))
	if n == nil {
		t.Fatal("no div found")
	}

	if !classHas("news-card")(n) {
		t.Error("classHas(news-card) = false, want true")
	}
	if classHas("news")(n) {
		t.Error("classHas(news) = true, want false")
	}
	if !classContains("news")(n) {
		t.Error("classContains(news) = false, want true")
	}
	if !allOf(tagIs("div"), classHas("news-card"), classHas("featured"))(n) {
		t.Error("allOf(div.news-card.featured) = false, want true")
	}
	if allOf(tagIs("div"), classHas("list-item"))(n) {
		t.Error("allOf(div.list-item) = true, want false")
	}
}

func TestAnchorHrefContains(t *testing.T) {
	doc := mustParseHTML(t, `<a href="/news-releases/news-release-details/x">release</a><a href="/about">about</a>`)

	got := findAll(doc, anchorHrefContains("/news-releases/news-release-details/"))
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if text := nodeText(got[0]); text != "release" {
		t.Errorf("nodeText() = %q, want release", text)
	}
}

func TestFindFirstDocumentOrder(t *testing.T) {
	// A selector list matches in document order, not in the order of
	// its alternatives.
	doc := mustParseHTML(t, `<div><h3>heading</h3><a href="/x">link</a></div>`)

	n := findFirst(doc, anyOf(tagIs("a"), tagIs("h3")))
	if got := nodeText(n); got != "heading" {
		t.Errorf("nodeText() = %q, want heading", got)
	}
}

func TestFindWithin(t *testing.T) {
	doc := mustParseHTML(t, `
		<div class="nir-widget--list">
			<div class="nir-widget--field">one</div>
			<div class="nir-widget--field">two</div>
		</div>
		<div class="nir-widget--field">outside</div>`)

	items := findWithin(doc, classHas("nir-widget--list"), classHas("nir-widget--field"))
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if got := nodeText(items[0]); got != "one" {
		t.Errorf("nodeText(items[0]) = %q, want one", got)
	}
	if got := nodeText(items[1]); got != "two" {
		t.Errorf("nodeText(items[1]) = %q, want two", got)
	}
}

func TestNodeText(t *testing.T) {
	doc := mustParseHTML(t, `<div>  NIO <b>delivers</b>
		31,138 vehicles </div>`)

	want := "NIO delivers 31,138 vehicles"
	if got := nodeText(findFirst(doc, tagIs("div"))); got != want {
		t.Errorf("nodeText() = %q, want %q", got, want)
	}
}

func TestParagraphText(t *testing.T) {
	doc := mustParseHTML(t, `<article><p>First.</p><div>skip</div><p>  Second   para. </p><p>  </p></article>`)

	want := "First.\n\nSecond para."
	if got := paragraphText(findFirst(doc, tagIs("article"))); got != want {
		t.Errorf("paragraphText() = %q, want %q", got, want)
	}
}

func TestImageURLs(t *testing.T) {
	doc := mustParseHTML(t, `<div>
		<img src="/img/a.jpg">
		<img data-src="/img/lazy.png">
		<img src="data:image/png;base64,xxxx">
		<img src="https://cdn.example.com/b.jpg">
		<img alt="no source">
	</div>`)

	got := imageURLs(doc, "https://www.byd.com")
	want := []string{
		"https://www.byd.com/img/a.jpg",
		"https://www.byd.com/img/lazy.png",
		"https://cdn.example.com/b.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("imageURLs() = %v, want %v", got, want)
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"https://ir.nio.com", "/news/1", "https://ir.nio.com/news/1"},
		{"https://cnevdata.com", "2026/02/06/byd-sales/", "https://cnevdata.com/2026/02/06/byd-sales/"},
		{"https://ir.nio.com", "https://other.com/a", "https://other.com/a"},
		{"https://ir.nio.com", "", ""},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.base, tt.href); got != tt.want {
			t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestDedupeStrings(t *testing.T) {
	got := dedupeStrings([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeStrings() = %v, want %v", got, want)
	}
}

func TestParseLooseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-02-10", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"2026-02-10T08:30:00Z", time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)},
		{"February 10, 2026", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"Feb 10, 2026", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"10 February 2026", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"02/10/2026", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{" 2026-02-10 ", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := parseLooseDate(tt.in)
		if !ok {
			t.Errorf("parseLooseDate(%q) ok = false, want true", tt.in)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseLooseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "not a date", "2026"} {
		if _, ok := parseLooseDate(in); ok {
			t.Errorf("parseLooseDate(%q) ok = true, want false", in)
		}
	}

	if got, ok := parseLooseDate("Today"); !ok || time.Since(got) > time.Minute {
		t.Errorf("parseLooseDate(Today) = %v, %v, want now", got, ok)
	}
	if got, ok := parseLooseDate("yesterday"); !ok || time.Since(got) < 23*time.Hour {
		t.Errorf("parseLooseDate(yesterday) = %v, %v, want a day ago", got, ok)
	}
}
