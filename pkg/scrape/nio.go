package scrape

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/net/html"
)

// NIOSource scrapes press releases from the NIO investor relations
// site.
type NIOSource struct {
	fetcher *Fetcher
	baseURL string
	newsURL string
}

// The Nasdaq-hosted IR pages share the nir-widget markup; the body
// selectors below cover it plus the generic article layouts the site
// has shipped over time.
var (
	nioItemMatch     = classHas("nir-widget--field")
	nioFallbackMatch = anyOf(tagIs("article"), classHas("news-item"), classHas("press-release"))
	nioTitleMatch    = anyOf(tagIs("a"), classHas("title"), tagIs("h3"), tagIs("h4"))
	nioDateMatch     = anyOf(classHas("date"), tagIs("time"), classHas("nir-widget--field--date"))
	nioBodyMatch     = anyOf(classHas("nir-widget--news-body"), classHas("article-body"), tagIs("article"), classHas("content"))
)

func NewNIOSource(fetcher *Fetcher) *NIOSource {
	return &NIOSource{
		fetcher: fetcher,
		baseURL: "https://ir.nio.com",
		newsURL: "https://ir.nio.com/news-events/press-releases",
	}
}

func (s *NIOSource) Name() string { return "NIO" }

func (s *NIOSource) Type() string { return SourceOfficial }

// FetchArticles lists the press release index and pulls the body of
// each release.
func (s *NIOSource) FetchArticles(ctx context.Context, limit int) ([]Article, error) {
	doc, err := s.fetcher.GetHTML(ctx, s.newsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch press releases: %w", err)
	}

	items := findWithin(doc, classHas("nir-widget--list"), nioItemMatch)
	if len(items) == 0 {
		items = findAll(doc, nioFallbackMatch)
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

func (s *NIOSource) parseItem(ctx context.Context, item *html.Node) (Article, bool) {
	titleNode := findFirst(item, nioTitleMatch)
	if titleNode == nil {
		return Article{}, false
	}
	title := nodeText(titleNode)
	if title == "" {
		return Article{}, false
	}

	link := absoluteURL(s.baseURL, attrValue(titleNode, "href"))

	date := time.Now()
	if dateNode := findFirst(item, nioDateMatch); dateNode != nil {
		if d, ok := parseLooseDate(nodeText(dateNode)); ok {
			date = d
		}
	}

	var content string
	var media []string
	if link != "" {
		content, media = fetchArticleBody(ctx, s.fetcher, link, s.baseURL, nioBodyMatch)
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
