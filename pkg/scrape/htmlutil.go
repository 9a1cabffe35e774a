package scrape

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// nodeMatch is a predicate over parsed HTML nodes. The helpers below
// cover the selector shapes the news pages need; a full CSS engine
// would be overkill for class and attribute lookups.
type nodeMatch func(*html.Node) bool

func tagIs(names ...string) nodeMatch {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, name := range names {
			if n.Data == name {
				return true
			}
		}
		return false
	}
}

// classHas matches elements whose class attribute contains the exact
// token, the .token selector.
func classHas(token string) nodeMatch {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, c := range strings.Fields(attrValue(n, "class")) {
			if c == token {
				return true
			}
		}
		return false
	}
}

// classContains matches elements whose class attribute contains sub
// anywhere, the [class*='sub'] selector.
func classContains(sub string) nodeMatch {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && strings.Contains(attrValue(n, "class"), sub)
	}
}

// hasAttr matches elements carrying the attribute, the [attr] selector.
func hasAttr(key string) nodeMatch {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == key {
				return true
			}
		}
		return false
	}
}

// anchorHrefContains matches <a> elements whose href contains sub, the
// a[href*='sub'] selector.
func anchorHrefContains(sub string) nodeMatch {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" &&
			strings.Contains(attrValue(n, "href"), sub)
	}
}

// anyOf matches when any of the alternatives match, the comma-separated
// selector list.
func anyOf(matchers ...nodeMatch) nodeMatch {
	return func(n *html.Node) bool {
		for _, m := range matchers {
			if m(n) {
				return true
			}
		}
		return false
	}
}

// allOf matches when every matcher matches, the compound selector
// (div.a.b).
func allOf(matchers ...nodeMatch) nodeMatch {
	return func(n *html.Node) bool {
		for _, m := range matchers {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

// findFirst returns the first node in document order, root included,
// matching m.
func findFirst(root *html.Node, m nodeMatch) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if m(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

// findAll returns every node in document order, root included,
// matching m.
func findAll(root *html.Node, m nodeMatch) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if m(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// findWithin returns nodes matching m that descend from a node matching
// container, the descendant combinator.
func findWithin(root *html.Node, container, m nodeMatch) []*html.Node {
	var out []*html.Node
	seen := make(map[*html.Node]bool)
	for _, c := range findAll(root, container) {
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			for _, n := range findAll(child, m) {
				if !seen[n] {
					seen[n] = true
					out = append(out, n)
				}
			}
		}
	}
	return out
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText returns the whitespace-normalized text under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return CleanText(b.String())
}

// paragraphText joins the non-empty <p> texts under n with blank lines.
func paragraphText(n *html.Node) string {
	var parts []string
	for _, p := range findAll(n, tagIs("p")) {
		if t := nodeText(p); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// imageURLs collects image sources under n, preferring src over the
// data-src lazy-loading attribute and skipping inline data: URIs.
// Relative sources resolve against base.
func imageURLs(n *html.Node, base string) []string {
	var urls []string
	for _, img := range findAll(n, tagIs("img")) {
		src := attrValue(img, "src")
		if src == "" {
			src = attrValue(img, "data-src")
		}
		if src == "" || strings.HasPrefix(src, "data:") {
			continue
		}
		urls = append(urls, absoluteURL(base, src))
	}
	return urls
}

// absoluteURL resolves href the way the news sites link: site-absolute
// paths get the host prefixed, full URLs pass through unchanged.
func absoluteURL(base, href string) string {
	switch {
	case href == "" || strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		return base + href
	default:
		return base + "/" + href
	}
}

func dedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// fetchArticleBody pulls the paragraph text and image URLs of an
// article detail page. Failures degrade to empty content so the caller
// can fall back to the listing title.
func fetchArticleBody(ctx context.Context, f *Fetcher, url, base string, bodyMatch nodeMatch) (string, []string) {
	doc, err := f.GetHTML(ctx, url)
	if err != nil {
		return "", nil
	}
	body := findFirst(doc, bodyMatch)
	if body == nil {
		return "", nil
	}
	return paragraphText(body), imageURLs(body, base)
}

// looseDateFormats covers the date renderings seen across the IR and
// news listing pages.
var looseDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
}

// parseLooseDate parses s against the known page date formats plus the
// relative "today"/"yesterday" some listings show.
func parseLooseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range looseDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "today"):
		return time.Now(), true
	case strings.Contains(lower, "yesterday"):
		return time.Now().AddDate(0, 0, -1), true
	}
	return time.Time{}, false
}
