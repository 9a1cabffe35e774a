package scrape

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/net/html"

	"ev-platform-be/pkg/extract"
)

const cnevSourceName = "CnEVData"

// cnevdata.com rate-limits aggressively; every consecutive request
// pauses inside this window and rotates the user agent.
const (
	cnevDefaultMinDelay    = 3 * time.Second
	cnevDefaultMaxDelay    = 8 * time.Second
	cnevDefaultWeeklyLimit = 100
)

// ErrWeeklyBudgetExhausted means the source hit its request cap for the
// current ISO week.
var ErrWeeklyBudgetExhausted = errors.New("cnevdata weekly request budget exhausted")

var cnevUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// Article URLs follow the WordPress date scheme (/YYYY/MM/DD/slug/),
// which also serves as the publish date fallback.
var cnevURLDatePattern = regexp.MustCompile(`/(\d{4})/(\d{2})/(\d{2})/`)

var (
	cnevItemMatch    = allOf(tagIs("div"), classHas("list-item"), classHas("block"))
	cnevTitleMatch   = anyOf(tagIs("h2"), tagIs("h3"), classHas("post-title"), classContains("title"))
	cnevSummaryMatch = anyOf(tagIs("p"), classHas("post-subtitle"), classContains("subtitle"), classContains("preview"))
	cnevDateMatch    = anyOf(tagIs("time"), classContains("date"), hasAttr("datetime"))
)

// Category hints the CnEVData adapter attaches so downstream processing
// can route articles without re-classifying.
const (
	CategoryTablePrefix = "table:"
	CategoryNeedsOCR    = "needs-ocr"
)

// CnEVDataArticle is one listing entry from cnevdata.com with its
// classification verdict attached.
type CnEVDataArticle struct {
	URL          string    `json:"sourceUrl"`
	URLHash      string    `json:"urlHash"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	PublishedAt  time.Time `json:"publishedAt"` // zero when the page gave no date
	PreviewImage string    `json:"previewImage"`
	ArticleType  string    `json:"articleType"`
	NeedsOCR     bool      `json:"needsOcr"`
	OCRDataType  string    `json:"ocrDataType"`
}

// CnEVDataSource scrapes the cnevdata.com article listing, the main
// feed of China EV sales and battery data.
type CnEVDataSource struct {
	fetcher     *Fetcher
	baseURL     string
	minDelay    time.Duration
	maxDelay    time.Duration
	weeklyLimit int
	budget      *gocache.Cache
}

// CnEVDataOptions tune the polite-crawling behavior. Zero values take
// the defaults; WeeklyLimit < 0 disables the budget.
type CnEVDataOptions struct {
	BaseURL     string
	MinDelay    time.Duration
	MaxDelay    time.Duration
	WeeklyLimit int
}

func NewCnEVDataSource(timeout time.Duration, opts CnEVDataOptions) *CnEVDataSource {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://cnevdata.com"
	}
	if opts.MinDelay <= 0 {
		opts.MinDelay = cnevDefaultMinDelay
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = cnevDefaultMaxDelay
	}
	if opts.WeeklyLimit == 0 {
		opts.WeeklyLimit = cnevDefaultWeeklyLimit
	}
	return &CnEVDataSource{
		fetcher:     NewFetcher(timeout, cnevUserAgents...),
		baseURL:     opts.BaseURL,
		minDelay:    opts.MinDelay,
		maxDelay:    opts.MaxDelay,
		weeklyLimit: opts.WeeklyLimit,
		budget:      gocache.New(14*24*time.Hour, time.Hour),
	}
}

// spend consumes one request from the current ISO week's budget.
func (s *CnEVDataSource) spend() error {
	if s.weeklyLimit < 0 {
		return nil
	}
	year, week := time.Now().UTC().ISOWeek()
	key := fmt.Sprintf("%d-W%02d", year, week)
	_ = s.budget.Add(key, 0, gocache.DefaultExpiration)
	n, err := s.budget.IncrementInt(key, 1)
	if err != nil {
		return nil
	}
	if n > s.weeklyLimit {
		return ErrWeeklyBudgetExhausted
	}
	return nil
}

func (s *CnEVDataSource) Name() string { return cnevSourceName }

func (s *CnEVDataSource) Type() string { return SourceMedia }

// Delay paces consecutive page fetches.
func (s *CnEVDataSource) Delay(ctx context.Context) error {
	return s.fetcher.Delay(ctx, s.minDelay, s.maxDelay)
}

// FetchPage returns the classified articles listed on one page of the
// WordPress-style pagination (1-indexed).
func (s *CnEVDataSource) FetchPage(ctx context.Context, page int) ([]CnEVDataArticle, error) {
	if err := s.spend(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/page/%d/", s.baseURL, page)
	doc, err := s.fetcher.GetHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
	}

	elems := findAll(doc, cnevItemMatch)
	if len(elems) == 0 {
		elems = findAll(doc, anchorHrefContains("/20"))
	}

	var articles []CnEVDataArticle
	for _, elem := range elems {
		if a, ok := s.parseElement(elem); ok {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

// FetchArticles adapts the first listing page to the Source interface.
func (s *CnEVDataSource) FetchArticles(ctx context.Context, limit int) ([]Article, error) {
	list, err := s.FetchPage(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(list) > limit {
		list = list[:limit]
	}
	articles := make([]Article, 0, len(list))
	for i := range list {
		articles = append(articles, list[i].Article())
	}
	return articles, nil
}

func (s *CnEVDataSource) parseElement(elem *html.Node) (CnEVDataArticle, bool) {
	linkNode := elem
	if !(elem.Type == html.ElementNode && elem.Data == "a" && attrValue(elem, "href") != "") {
		linkNode = findFirst(elem, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "a" && attrValue(n, "href") != ""
		})
	}
	if linkNode == nil {
		return CnEVDataArticle{}, false
	}

	href := attrValue(linkNode, "href")
	if !cnevURLDatePattern.MatchString(href) {
		return CnEVDataArticle{}, false
	}
	url := absoluteURL(s.baseURL, href)

	title := ""
	if titleNode := findFirst(elem, cnevTitleMatch); titleNode != nil {
		title = nodeText(titleNode)
	}
	if title == "" {
		title = nodeText(linkNode)
	}
	if title == "" {
		return CnEVDataArticle{}, false
	}

	var summary string
	if summaryNode := findFirst(elem, cnevSummaryMatch); summaryNode != nil {
		summary = nodeText(summaryNode)
	}

	var published time.Time
	if dateNode := findFirst(elem, cnevDateMatch); dateNode != nil {
		dateStr := attrValue(dateNode, "datetime")
		if dateStr == "" {
			dateStr = nodeText(dateNode)
		}
		if d, ok := parseLooseDate(dateStr); ok {
			published = d
		}
	}
	if published.IsZero() {
		if m := cnevURLDatePattern.FindStringSubmatch(url); m != nil {
			if d, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3]); err == nil {
				published = d
			}
		}
	}

	var preview string
	if img := findFirst(elem, tagIs("img")); img != nil {
		preview = attrValue(img, "src")
		if preview == "" {
			preview = attrValue(img, "data-src")
		}
	}

	c := extract.Classify(title, summary)

	return CnEVDataArticle{
		URL:          url,
		URLHash:      hashURL(url),
		Title:        title,
		Summary:      summary,
		PublishedAt:  published,
		PreviewImage: preview,
		ArticleType:  c.Type,
		NeedsOCR:     c.NeedsOCR,
		OCRDataType:  c.OCRDataType,
	}, true
}

// ExtractMetrics parses the article title, enriched from the excerpt,
// into wire-ready payloads for the ev-metrics endpoint.
func (s *CnEVDataSource) ExtractMetrics(a CnEVDataArticle) []map[string]any {
	m := extract.ParseTitle(a.Title, a.PublishedAt)
	if m == nil {
		return nil
	}
	if a.Summary != "" {
		extract.EnrichFromSummary(m, a.Summary)
	}

	period := 1
	switch {
	case m.Month != 0:
		period = m.Month
	case m.Quarter != 0:
		period = m.Quarter
	}

	return []map[string]any{{
		"brand":        m.Brand,
		"metric":       m.MetricType,
		"periodType":   m.PeriodType,
		"year":         m.Year,
		"period":       period,
		"value":        m.Value,
		"unit":         m.Unit,
		"yoyChange":    m.YoYChange,
		"momChange":    m.MoMChange,
		"vehicleModel": nilIfEmpty(m.VehicleModel),
		"region":       nilIfEmpty(m.Region),
		"category":     nilIfEmpty(m.Category),
		"sourceUrl":    a.URL,
		"sourceTitle":  a.Title,
		"confidence":   m.Confidence,
	}}
}

// Article converts the listing entry to the webhook wire form. The
// classifier verdict rides along as category hints ("table:X",
// "needs-ocr") so the ingest side can route without re-classifying.
func (a CnEVDataArticle) Article() Article {
	content := a.Summary
	if content == "" {
		content = a.Title
	}

	categories := []string{cnevSourceName}
	if c := extract.Classify(a.Title, a.Summary); c.TargetTable != "" {
		categories = append(categories, CategoryTablePrefix+c.TargetTable)
	}
	if a.NeedsOCR {
		categories = append(categories, CategoryNeedsOCR)
	}

	var media []string
	if a.PreviewImage != "" {
		media = append(media, a.PreviewImage)
	}

	date := a.PublishedAt
	if date.IsZero() {
		date = time.Now()
	}

	return Article{
		SourceID:          GenerateSourceID(cnevSourceName, a.URL, date),
		Source:            SourceMedia,
		SourceURL:         a.URL,
		SourceAuthor:      cnevSourceName,
		SourceDate:        date,
		OriginalTitle:     a.Title,
		OriginalContent:   content,
		OriginalMediaURLs: media,
		Categories:        categories,
		RelevanceScore:    DefaultRelevanceScore,
	}
}

func hashURL(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
