package scrape

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/net/html"
)

// XPengSource scrapes news releases linked from the XPeng investor
// relations homepage.
type XPengSource struct {
	fetcher *Fetcher
	baseURL string
	newsURL string
}

var (
	xpengDateMatch = anyOf(classHas("date"), tagIs("time"), classContains("date"))
	xpengBodyMatch = anyOf(classHas("nir-widget--news-body"), classHas("article-body"), tagIs("article"))
)

func NewXPengSource(fetcher *Fetcher) *XPengSource {
	return &XPengSource{
		fetcher: fetcher,
		baseURL: "https://ir.xiaopeng.com",
		newsURL: "https://ir.xiaopeng.com/",
	}
}

func (s *XPengSource) Name() string { return "XPeng" }

func (s *XPengSource) Type() string { return SourceOfficial }

// FetchArticles collects release detail links from the IR homepage,
// deduplicates them by href and pulls each release body.
func (s *XPengSource) FetchArticles(ctx context.Context, limit int) ([]Article, error) {
	doc, err := s.fetcher.GetHTML(ctx, s.newsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news releases: %w", err)
	}

	items := findAll(doc, anchorHrefContains("/news-releases/news-release-details/"))
	if len(items) == 0 {
		items = findWithin(doc, classHas("nir-widget--field"), tagIs("a"))
	}

	var unique []*html.Node
	seen := make(map[string]bool)
	for _, item := range items {
		href := attrValue(item, "href")
		if href == "" || seen[href] {
			continue
		}
		seen[href] = true
		unique = append(unique, item)
	}
	if len(unique) > limit {
		unique = unique[:limit]
	}

	var articles []Article
	for _, item := range unique {
		if err := ctx.Err(); err != nil {
			return articles, err
		}
		if a, ok := s.parseItem(ctx, item); ok {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

// parseItem parses one release anchor. The publish date sits in a
// sibling element, so the lookup starts from the anchor's parent.
func (s *XPengSource) parseItem(ctx context.Context, item *html.Node) (Article, bool) {
	title := nodeText(item)
	if title == "" {
		return Article{}, false
	}

	link := absoluteURL(s.baseURL, attrValue(item, "href"))

	date := time.Now()
	parent := item.Parent
	if parent == nil {
		parent = item
	}
	if dateNode := findFirst(parent, xpengDateMatch); dateNode != nil {
		if d, ok := parseLooseDate(nodeText(dateNode)); ok {
			date = d
		}
	}

	var content string
	var media []string
	if link != "" {
		content, media = fetchArticleBody(ctx, s.fetcher, link, s.baseURL, xpengBodyMatch)
	}
	if content == "" {
		content = title
	}

	return Article{
		SourceID:          GenerateSourceID(s.Name(), link, date),
		Source:            SourceOfficial,
		SourceURL:         link,
		SourceAuthor:      s.Name(),
		SourceDate:        date,
		OriginalTitle:     title,
		OriginalContent:   content,
		OriginalMediaURLs: media,
		Categories:        []string{s.Name()},
		RelevanceScore:    DefaultRelevanceScore,
	}, true
}
