package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"ev-platform-be/pkg/extract"
	"ev-platform-be/pkg/evtables"
)

const cnevListPage = `<html><body>
<div class="list-item block">
  <a href="/2026/02/06/byd-jan-sales/">
    <h2 class="post-title">BYD sold 300,000 NEVs in Jan, up 10% year-on-year</h2>
  </a>
  <p class="post-subtitle">BYD's January NEV sales reached 300,000 units.</p>
  <time datetime="2026-02-06">Feb 6</time>
  <img src="https://cnevdata.com/img/preview.jpg">
</div>
<div class="list-item block">
  <a href="/2026/02/05/catl-battery-ranking/">CATL tops China battery maker ranking in January</a>
</div>
<div class="list-item block">
  <a href="/about/">About CnEVData</a>
</div>
</body></html>`

func newCnEVDataTestSource(t *testing.T, page string) (*CnEVDataSource, *httptest.Server, *http.Header) {
	t.Helper()
	var gotHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	src := NewCnEVDataSource(5*time.Second, CnEVDataOptions{})
	src.baseURL = server.URL
	return src, server, &gotHeader
}

func TestCnEVDataFetchPage(t *testing.T) {
	src, server, header := newCnEVDataTestSource(t, cnevListPage)

	articles, err := src.FetchPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	// The /about/ link carries no date path and is dropped.
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}

	a := articles[0]
	if want := server.URL + "/2026/02/06/byd-jan-sales/"; a.URL != want {
		t.Errorf("URL = %q, want %q", a.URL, want)
	}
	if len(a.URLHash) != 32 {
		t.Errorf("len(URLHash) = %d, want 32", len(a.URLHash))
	}
	if a.Title != "BYD sold 300,000 NEVs in Jan, up 10% year-on-year" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Summary != "BYD's January NEV sales reached 300,000 units." {
		t.Errorf("Summary = %q", a.Summary)
	}
	if want := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC); !a.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", a.PublishedAt, want)
	}
	if a.PreviewImage != "https://cnevdata.com/img/preview.jpg" {
		t.Errorf("PreviewImage = %q", a.PreviewImage)
	}
	if a.ArticleType != extract.TypeBrandMetric {
		t.Errorf("ArticleType = %q, want %q", a.ArticleType, extract.TypeBrandMetric)
	}
	if a.NeedsOCR {
		t.Error("NeedsOCR = true, want false for a title with numbers")
	}

	// Second entry: no heading markup, so the title falls back to the
	// link text; no date element, so the URL path supplies the date.
	b := articles[1]
	if b.Title != "CATL tops China battery maker ranking in January" {
		t.Errorf("Title = %q", b.Title)
	}
	if want := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC); !b.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", b.PublishedAt, want)
	}
	if b.ArticleType != extract.TypeBatteryMakerRankings {
		t.Errorf("ArticleType = %q, want %q", b.ArticleType, extract.TypeBatteryMakerRankings)
	}
	if !b.NeedsOCR {
		t.Error("NeedsOCR = false, want true for rankings")
	}
	if b.OCRDataType != extract.OCRRankings {
		t.Errorf("OCRDataType = %q, want %q", b.OCRDataType, extract.OCRRankings)
	}

	// Requests rotate through the desktop agent pool.
	ua := header.Get("User-Agent")
	found := false
	for _, agent := range cnevUserAgents {
		if ua == agent {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("User-Agent = %q, not in the agent pool", ua)
	}
	if header.Get("Upgrade-Insecure-Requests") != "1" {
		t.Error("browser headers not sent")
	}
}

func TestCnEVDataFetchPageAnchorFallback(t *testing.T) {
	page := `<html><body>
<a href="/2026/01/15/tesla-china-wholesales/">Tesla China wholesales 60,000 vehicles in December</a>
<a href="/2026/">Archive</a>
</body></html>`
	src, server, _ := newCnEVDataTestSource(t, page)

	articles, err := src.FetchPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}
	if want := server.URL + "/2026/01/15/tesla-china-wholesales/"; articles[0].URL != want {
		t.Errorf("URL = %q, want %q", articles[0].URL, want)
	}
}

func TestCnEVDataFetchArticles(t *testing.T) {
	src, _, _ := newCnEVDataTestSource(t, cnevListPage)

	articles, err := src.FetchArticles(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchArticles() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}
	if articles[0].Source != SourceMedia {
		t.Errorf("Source = %q, want %q", articles[0].Source, SourceMedia)
	}
	if articles[0].SourceAuthor != "CnEVData" {
		t.Errorf("SourceAuthor = %q, want CnEVData", articles[0].SourceAuthor)
	}
}

func TestCnEVDataExtractMetrics(t *testing.T) {
	src := NewCnEVDataSource(5*time.Second, CnEVDataOptions{})

	a := CnEVDataArticle{
		URL:         "https://cnevdata.com/2026/02/06/byd-jan-sales/",
		Title:       "BYD sold 300,000 NEVs in Jan, up 10% year-on-year",
		Summary:     "Sales were down 5% month-on-month.",
		PublishedAt: time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC),
	}

	rows := src.ExtractMetrics(a)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	row := rows[0]

	if row["brand"] != "BYD" {
		t.Errorf("brand = %v, want BYD", row["brand"])
	}
	if row["metric"] != extract.MetricSales {
		t.Errorf("metric = %v, want %v", row["metric"], extract.MetricSales)
	}
	if row["periodType"] != extract.PeriodMonthly {
		t.Errorf("periodType = %v, want %v", row["periodType"], extract.PeriodMonthly)
	}
	if row["year"] != 2026 {
		t.Errorf("year = %v, want 2026", row["year"])
	}
	if row["period"] != 1 {
		t.Errorf("period = %v, want 1", row["period"])
	}
	if row["value"] != 300000.0 {
		t.Errorf("value = %v, want 300000", row["value"])
	}
	if row["unit"] != "vehicles" {
		t.Errorf("unit = %v, want vehicles", row["unit"])
	}
	if yoy, ok := row["yoyChange"].(*float64); !ok || yoy == nil || *yoy != 10 {
		t.Errorf("yoyChange = %v, want 10", row["yoyChange"])
	}
	// The title has no month-on-month wording; the summary fills it in.
	if mom, ok := row["momChange"].(*float64); !ok || mom == nil || *mom != -5 {
		t.Errorf("momChange = %v, want -5", row["momChange"])
	}
	if row["vehicleModel"] != nil {
		t.Errorf("vehicleModel = %v, want nil", row["vehicleModel"])
	}
	if row["sourceUrl"] != a.URL {
		t.Errorf("sourceUrl = %v, want %v", row["sourceUrl"], a.URL)
	}
	if row["confidence"] != 1.0 {
		t.Errorf("confidence = %v, want 1", row["confidence"])
	}
}

func TestCnEVDataExtractMetricsNoMetric(t *testing.T) {
	src := NewCnEVDataSource(5*time.Second, CnEVDataOptions{})

	a := CnEVDataArticle{
		URL:         "https://cnevdata.com/2026/02/06/byd-showroom/",
		Title:       "BYD opens new showroom in Oslo",
		PublishedAt: time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC),
	}
	if rows := src.ExtractMetrics(a); rows != nil {
		t.Errorf("ExtractMetrics() = %v, want nil", rows)
	}
}

func TestCnEVDataArticleAdapter(t *testing.T) {
	published := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)

	a := CnEVDataArticle{
		URL:          "https://cnevdata.com/2026/02/06/byd-jan-sales/",
		URLHash:      "2f2734540f9bb1958bbd02dda13bb025",
		Title:        "BYD sold 300,000 NEVs in Jan, up 10% year-on-year",
		Summary:      "BYD's January NEV sales reached 300,000 units.",
		PublishedAt:  published,
		PreviewImage: "https://cnevdata.com/img/preview.jpg",
	}

	got := a.Article()
	if got.Source != SourceMedia {
		t.Errorf("Source = %q, want %q", got.Source, SourceMedia)
	}
	if got.SourceAuthor != "CnEVData" {
		t.Errorf("SourceAuthor = %q, want CnEVData", got.SourceAuthor)
	}
	if got.OriginalContent != a.Summary {
		t.Errorf("OriginalContent = %q, want summary", got.OriginalContent)
	}
	if !got.SourceDate.Equal(published) {
		t.Errorf("SourceDate = %v, want %v", got.SourceDate, published)
	}
	wantCategories := []string{"CnEVData", CategoryTablePrefix + evtables.EVMetric}
	if !reflect.DeepEqual(got.Categories, wantCategories) {
		t.Errorf("Categories = %v, want %v", got.Categories, wantCategories)
	}
	wantMedia := []string{"https://cnevdata.com/img/preview.jpg"}
	if !reflect.DeepEqual(got.OriginalMediaURLs, wantMedia) {
		t.Errorf("OriginalMediaURLs = %v, want %v", got.OriginalMediaURLs, wantMedia)
	}
}

func TestCnEVDataArticleAdapterOCRHint(t *testing.T) {
	a := CnEVDataArticle{
		URL:         "https://cnevdata.com/2026/02/05/battery-ranking/",
		Title:       "Top 10 battery makers in China in January",
		PublishedAt: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
		NeedsOCR:    true,
	}

	got := a.Article()
	wantCategories := []string{"CnEVData", CategoryTablePrefix + evtables.BatteryMakerRankings, CategoryNeedsOCR}
	if !reflect.DeepEqual(got.Categories, wantCategories) {
		t.Errorf("Categories = %v, want %v", got.Categories, wantCategories)
	}
	// No summary, so the content falls back to the title.
	if got.OriginalContent != a.Title {
		t.Errorf("OriginalContent = %q, want title fallback", got.OriginalContent)
	}
}

func TestHashURL(t *testing.T) {
	got := hashURL("https://cnevdata.com/2026/02/06/byd-jan/")
	if got != "2f2734540f9bb1958bbd02dda13bb025" {
		t.Errorf("hashURL() = %q, want 2f2734540f9bb1958bbd02dda13bb025", got)
	}
}

func TestCnEVDataWeeklyBudget(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(cnevListPage))
	}))
	t.Cleanup(server.Close)

	src := NewCnEVDataSource(5*time.Second, CnEVDataOptions{
		BaseURL:     server.URL,
		WeeklyLimit: 2,
	})

	for i := 0; i < 2; i++ {
		if _, err := src.FetchPage(context.Background(), i+1); err != nil {
			t.Fatalf("FetchPage(%d) error = %v", i+1, err)
		}
	}

	_, err := src.FetchPage(context.Background(), 3)
	if !errors.Is(err, ErrWeeklyBudgetExhausted) {
		t.Fatalf("err = %v, want ErrWeeklyBudgetExhausted", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 (budget must stop before the fetch)", requests)
	}
}

func TestCnEVDataOptionDefaults(t *testing.T) {
	src := NewCnEVDataSource(5*time.Second, CnEVDataOptions{})
	if src.minDelay != cnevDefaultMinDelay || src.maxDelay != cnevDefaultMaxDelay {
		t.Errorf("delays = %v/%v, want defaults", src.minDelay, src.maxDelay)
	}
	if src.weeklyLimit != cnevDefaultWeeklyLimit {
		t.Errorf("weeklyLimit = %d, want %d", src.weeklyLimit, cnevDefaultWeeklyLimit)
	}
	if src.baseURL != "https://cnevdata.com" {
		t.Errorf("baseURL = %q", src.baseURL)
	}
}
