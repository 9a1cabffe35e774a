package scrape

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/net/html"
)

// LiAutoSource scrapes news releases from the Li Auto investor
// relations site, another Nasdaq-hosted IR page.
type LiAutoSource struct {
	fetcher *Fetcher
	baseURL string
	newsURL string
}

var (
	liAutoFallbackMatch = anyOf(tagIs("article"), classHas("news-item"), classHas("press-release-item"))
	liAutoTitleMatch    = anyOf(tagIs("a"), classHas("title"), tagIs("h3"))
	liAutoDateMatch     = anyOf(classHas("date"), tagIs("time"), classHas("nir-widget--field--date"))
	liAutoBodyMatch     = anyOf(classHas("nir-widget--news-body"), classHas("article-body"), tagIs("article"))
)

func NewLiAutoSource(fetcher *Fetcher) *LiAutoSource {
	return &LiAutoSource{
		fetcher: fetcher,
		baseURL: "https://ir.lixiang.com",
		newsURL: "https://ir.lixiang.com/news-releases",
	}
}

func (s *LiAutoSource) Name() string { return "Li Auto" }

func (s *LiAutoSource) Type() string { return SourceOfficial }

// FetchArticles lists the news release index and pulls the body of
// each release.
func (s *LiAutoSource) FetchArticles(ctx context.Context, limit int) ([]Article, error) {
	doc, err := s.fetcher.GetHTML(ctx, s.newsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news releases: %w", err)
	}

	items := findWithin(doc, classHas("nir-widget--list"), classHas("nir-widget--field"))
	if len(items) == 0 {
		items = findAll(doc, liAutoFallbackMatch)
	}
	if len(items) > limit {
		items = items[:limit]
	}

	var articles []Article
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return articles, err
		}
		if a, ok := s.parseItem(ctx, item); ok {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

func (s *LiAutoSource) parseItem(ctx context.Context, item *html.Node) (Article, bool) {
	titleNode := findFirst(item, liAutoTitleMatch)
	if titleNode == nil {
		return Article{}, false
	}
	title := nodeText(titleNode)
	if title == "" {
		return Article{}, false
	}

	link := absoluteURL(s.baseURL, attrValue(titleNode, "href"))

	date := time.Now()
	if dateNode := findFirst(item, liAutoDateMatch); dateNode != nil {
		if d, ok := parseLooseDate(nodeText(dateNode)); ok {
			date = d
		}
	}

	var content string
	var media []string
	if link != "" {
		content, media = fetchArticleBody(ctx, s.fetcher, link, s.baseURL, liAutoBodyMatch)
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
