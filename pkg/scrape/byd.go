package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// BYDSource scrapes the BYD global news page. The page is largely
// client-side rendered, so this source is disabled by default in the
// scraper configuration; the selectors below handle the server-rendered
// fallback markup when it is present.
type BYDSource struct {
	fetcher *Fetcher
	baseURL string
	newsURL string
}

var (
	bydCardMatch     = anyOf(classHas("news-card"), tagIs("article"))
	bydFallbackMatch = anyOf(classContains("news"), classContains("article"))
	bydTitleMatch    = anyOf(tagIs("a"), tagIs("h2"), tagIs("h3"), classHas("title"))
	bydDateMatch     = anyOf(classHas("date"), tagIs("time"), classContains("date"), classContains("time"))
	bydSummaryMatch  = anyOf(classHas("summary"), classHas("excerpt"), classHas("desc"), tagIs("p"))
	bydBodyMatch     = anyOf(classHas("article-content"), classHas("news-content"), classHas("content"), tagIs("article"), tagIs("main"))
)

func NewBYDSource(fetcher *Fetcher) *BYDSource {
	return &BYDSource{
		fetcher: fetcher,
		baseURL: "https://www.byd.com",
		newsURL: "https://www.byd.com/en/news",
	}
}

func (s *BYDSource) Name() string { return "BYD" }

func (s *BYDSource) Type() string { return SourceOfficial }

// FetchArticles lists the news page and pulls the body of each item.
func (s *BYDSource) FetchArticles(ctx context.Context, limit int) ([]Article, error) {
	doc, err := s.fetcher.GetHTML(ctx, s.newsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news page: %w", err)
	}

	items := findWithin(doc, classHas("news-list"), classHas("news-item"))
	items = append(items, findAll(doc, bydCardMatch)...)
	if len(items) == 0 {
		items = findAll(doc, bydFallbackMatch)
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

func (s *BYDSource) parseItem(ctx context.Context, item *html.Node) (Article, bool) {
	titleNode := findFirst(item, bydTitleMatch)
	if titleNode == nil {
		return Article{}, false
	}
	title := nodeText(titleNode)
	if title == "" {
		return Article{}, false
	}

	// The title element is not always the link itself.
	var link string
	if titleNode.Data == "a" {
		link = attrValue(titleNode, "href")
	} else if linkNode := findFirst(item, tagIs("a")); linkNode != nil {
		link = attrValue(linkNode, "href")
	}
	link = absoluteURL(s.baseURL, link)

	date := time.Now()
	if dateNode := findFirst(item, bydDateMatch); dateNode != nil {
		if d, ok := parseLooseDate(nodeText(dateNode)); ok {
			date = d
		}
	}

	var summary string
	if summaryNode := findFirst(item, bydSummaryMatch); summaryNode != nil {
		summary = nodeText(summaryNode)
	}

	content := summary
	var media []string
	if link != "" {
		full, bodyMedia := fetchArticleBody(ctx, s.fetcher, link, s.baseURL, bydBodyMatch)
		if full != "" {
			content = full
		}
		media = bodyMedia
	}
	if content == "" {
		content = title
	}

	// Card thumbnails sit outside the article body.
	if img := findFirst(item, tagIs("img")); img != nil {
		src := attrValue(img, "src")
		if src == "" {
			src = attrValue(img, "data-src")
		}
		if src != "" && !strings.HasPrefix(src, "data:") {
			media = append(media, absoluteURL(s.baseURL, src))
		}
	}

	idKey := link
	if idKey == "" {
		idKey = title
	}
	sourceURL := link
	if sourceURL == "" {
		sourceURL = s.newsURL
	}

	return Article{
		SourceID:          GenerateSourceID(s.Name(), idKey, date),
		Source:            SourceOfficial,
		SourceURL:         sourceURL,
		SourceAuthor:      s.Name(),
		SourceDate:        date,
		OriginalTitle:     title,
		OriginalContent:   content,
		OriginalMediaURLs: dedupeStrings(media),
		Categories:        []string{s.Name()},
		RelevanceScore:    DefaultRelevanceScore,
	}, true
}
