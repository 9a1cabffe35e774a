package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ev-platform-be/internal/config"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/pkg/aiproc"
	"ev-platform-be/pkg/evapi"
	"ev-platform-be/pkg/events"
	"ev-platform-be/pkg/evtables"
	"ev-platform-be/pkg/extract"
	"ev-platform-be/pkg/llm"
	natspkg "ev-platform-be/pkg/nats"
	"ev-platform-be/pkg/ocr"
	"ev-platform-be/pkg/scrape"

	"github.com/fatih/color"
	gocache "github.com/patrickmn/go-cache"
)

const (
	fetchLimitPerSource = 20
	seenURLTTL          = 24 * time.Hour

	// Classification only needs the opening of the article. Counted in
	// runes, Chinese sources would split mid-character otherwise.
	classifySummaryRunes = 500
)

// SourceRunStats is the per-source breakdown of one pipeline run.
type SourceRunStats struct {
	Fetched    int
	Duplicates int
	Errors     int
}

// RunStats aggregates one full pipeline run.
type RunStats struct {
	BatchId           string
	StartedAt         time.Time
	FinishedAt        time.Time
	Sources           map[string]*SourceRunStats
	Processed         int
	MetricsSubmitted  int
	IndustrySubmitted int
	SpecsSubmitted    int
	OCRCalls          int
	WebhookCreated    int
	WebhookDuplicates int
	Published         int
	Errors            []string
}

// ScrapeOptions narrows a run. Zero value runs everything.
type ScrapeOptions struct {
	OnlySource  string
	SkipPublish bool
}

type IScrapeService interface {
	Run(ctx context.Context, opts ScrapeOptions) (*RunStats, error)
}

type scrapeService struct {
	cfg            *config.Config
	api            *evapi.Client
	processor      *aiproc.Processor
	ocrClient      *ocr.Client
	sources        []scrape.Source
	nioPower       *scrape.NioPowerScraper
	eventPublisher *natspkg.Publisher
	seenURLs       *gocache.Cache
	logger         logger.ILogger
}

// NewScrapeService wires the pipeline. ocrClient, nioPower and
// eventPublisher may be nil; the matching steps are skipped.
func NewScrapeService(
	cfg *config.Config,
	api *evapi.Client,
	processor *aiproc.Processor,
	ocrClient *ocr.Client,
	sources []scrape.Source,
	nioPower *scrape.NioPowerScraper,
	eventPublisher *natspkg.Publisher,
	log logger.ILogger,
) IScrapeService {
	return &scrapeService{
		cfg:            cfg,
		api:            api,
		processor:      processor,
		ocrClient:      ocrClient,
		sources:        sources,
		nioPower:       nioPower,
		eventPublisher: eventPublisher,
		seenURLs:       gocache.New(seenURLTTL, time.Hour),
		logger:         log,
	}
}

// BuildSources assembles the configured site adapters. BYD stays off:
// its news page is client-side rendered and yields nothing over plain
// HTTP.
func BuildSources(cfg *config.Config) []scrape.Source {
	timeout := time.Duration(cfg.Scraper.RequestTimeout) * time.Second
	var agents []string
	if cfg.Scraper.UserAgent != "" {
		agents = append(agents, cfg.Scraper.UserAgent)
	}
	fetcher := scrape.NewFetcher(timeout, agents...)

	sources := []scrape.Source{
		scrape.NewNIOSource(fetcher),
		scrape.NewXPengSource(fetcher),
		scrape.NewLiAutoSource(fetcher),
	}
	if cfg.Scraper.CnEVData.Enabled {
		sources = append(sources, scrape.NewCnEVDataSource(timeout, scrape.CnEVDataOptions{
			BaseURL:     cfg.Scraper.CnEVData.BaseURL,
			MinDelay:    time.Duration(cfg.Scraper.CnEVData.MinDelay) * time.Second,
			MaxDelay:    time.Duration(cfg.Scraper.CnEVData.MaxDelay) * time.Second,
			WeeklyLimit: cfg.Scraper.CnEVData.WeeklyLimit,
		}))
	}
	if cfg.Scraper.Weibo.Enabled {
		sources = append(sources, scrape.NewWeiboSource())
	}
	return sources
}

func (s *scrapeService) Run(ctx context.Context, opts ScrapeOptions) (*RunStats, error) {
	stats := &RunStats{
		BatchId:   time.Now().UTC().Format("20060102_150405"),
		StartedAt: time.Now(),
		Sources:   map[string]*SourceRunStats{},
	}

	if !s.api.CheckHealth(ctx) {
		s.logger.Warn("Scraper", "Platform API health check failed", map[string]interface{}{
			"batch_id": stats.BatchId,
		})
	}

	var batch []scrape.Article
	runSeen := map[string]bool{}

	for _, source := range s.sources {
		if opts.OnlySource != "" && !strings.EqualFold(source.Name(), opts.OnlySource) {
			continue
		}

		srcStats := &SourceRunStats{}
		stats.Sources[source.Name()] = srcStats

		articles, err := source.FetchArticles(ctx, fetchLimitPerSource)
		if err != nil {
			srcStats.Errors++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", source.Name(), err))
			s.logger.Error("Scraper", "Source fetch failed", map[string]interface{}{
				"source": source.Name(),
				"error":  err.Error(),
			})
			continue
		}
		srcStats.Fetched = len(articles)

		for i := range articles {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			article := &articles[i]
			if article.OriginalTitle == "" && article.OriginalContent == "" {
				continue
			}

			hash := urlHash(article.SourceURL)
			if runSeen[hash] {
				srcStats.Duplicates++
				continue
			}
			if _, found := s.seenURLs.Get(hash); found {
				srcStats.Duplicates++
				continue
			}
			runSeen[hash] = true
			s.seenURLs.SetDefault(hash, true)

			kept := s.processArticle(ctx, article, stats)
			if kept {
				batch = append(batch, *article)
			}
		}
	}

	if s.nioPower != nil && (opts.OnlySource == "" || strings.EqualFold(opts.OnlySource, "niopower")) {
		s.scrapeNioPower(ctx, stats)
	}

	if err := s.submitBatch(ctx, stats, batch); err != nil {
		stats.FinishedAt = time.Now()
		s.printSummary(stats)
		return stats, err
	}

	if !opts.SkipPublish && !s.cfg.Scraper.SkipXPublish {
		published, err := s.api.TriggerPublish(ctx)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("trigger publish: %v", err))
			s.logger.Warn("Scraper", "Publish trigger failed", map[string]interface{}{"error": err.Error()})
		} else {
			stats.Published = published
		}
	}

	stats.FinishedAt = time.Now()
	s.publishEvent(ctx, events.ScrapeCompleted, map[string]interface{}{
		"batch_id":  stats.BatchId,
		"processed": stats.Processed,
		"created":   stats.WebhookCreated,
	})
	s.printSummary(stats)
	return stats, nil
}

// processArticle runs one article through classify, extract and AI
// processing. Reports whether the article goes into the webhook batch.
func (s *scrapeService) processArticle(ctx context.Context, article *scrape.Article, stats *RunStats) bool {
	stats.Processed++

	summary := truncateRunes(article.OriginalContent, classifySummaryRunes)
	classification := extract.Classify(article.OriginalTitle, summary)

	info := extract.ArticleInfo{
		Title:       article.OriginalTitle,
		Summary:     summary,
		SourceURL:   article.SourceURL,
		SourceTitle: article.OriginalTitle,
		Published:   article.SourceDate,
	}
	if len(article.OriginalMediaURLs) > 0 {
		info.ImageURL = article.OriginalMediaURLs[0]
	}

	switch classification.Type {
	case extract.TypeVehicleSpec:
		s.handleSpecArticle(ctx, article, stats)
	case extract.TypeBrandMetric, extract.TypeModelBreakdown, extract.TypeRegionalData:
		s.handleMetricArticle(ctx, article, summary, stats)
	case extract.TypeSkip:
		// plain news, still goes to AI processing below
	default:
		s.handleIndustryArticle(ctx, article, info, classification, stats)
	}

	return s.processWithAI(ctx, article)
}

func (s *scrapeService) handleIndustryArticle(ctx context.Context, article *scrape.Article, info extract.ArticleInfo, c extract.Classification, stats *RunStats) {
	record, err := extract.ExtractIndustryRecord(info, c)
	if err != nil || record == nil {
		if err != nil {
			s.logger.Warn("Scraper", "Industry extraction failed", map[string]interface{}{
				"table": c.TargetTable,
				"title": article.OriginalTitle,
				"error": err.Error(),
			})
		}
		return
	}

	if record.NeedsOCR || (c.NeedsOCR && c.OCRDataType == extract.OCRRankings) {
		s.handleRankingsOCR(ctx, article, record, stats)
		return
	}

	if c.NeedsOCR && info.ImageURL != "" && s.ocrClient != nil {
		res := s.runOCR(ctx, info.ImageURL, c.OCRDataType, stats)
		if res != nil {
			for k, v := range res.Data {
				if _, exists := record.Data[k]; !exists {
					record.Data[k] = v
				}
			}
		}
	}

	resp, err := s.api.Submit(ctx, record.TableName, record.Data)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("%s submit: %v", record.TableName, err))
		return
	}
	if resp.Error != "" {
		s.logger.Warn("Scraper", "Industry submit rejected", map[string]interface{}{
			"table": record.TableName,
			"error": resp.Error,
		})
		return
	}
	stats.IndustrySubmitted++
}

// handleRankingsOCR extracts a rankings table from the article image and
// submits one record per row.
func (s *scrapeService) handleRankingsOCR(ctx context.Context, article *scrape.Article, record *extract.IndustryRecord, stats *RunStats) {
	if s.ocrClient == nil || len(article.OriginalMediaURLs) == 0 {
		return
	}

	res := s.runOCR(ctx, article.OriginalMediaURLs[0], record.OCRType, stats)
	if res == nil || len(res.Rows) == 0 {
		return
	}

	responses := s.api.SubmitRankings(ctx, record.TableName, res.Rows, record.Data)
	for _, resp := range responses {
		if resp.Success {
			stats.IndustrySubmitted++
		}
	}
}

func (s *scrapeService) handleMetricArticle(ctx context.Context, article *scrape.Article, summary string, stats *RunStats) {
	metric := extract.ParseTitle(article.OriginalTitle, article.SourceDate)
	if metric == nil {
		return
	}
	extract.EnrichFromSummary(metric, summary)

	if metric.Value <= 0 {
		s.handleMetricOCR(ctx, article, metric, stats)
		return
	}

	resp, err := s.api.Submit(ctx, evtables.EVMetric, metricRecord(metric, article))
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("metric submit: %v", err))
		return
	}
	if resp.Error == "" {
		stats.MetricsSubmitted++
	}
}

// handleMetricOCR recovers metric rows from the article image when the
// title carried no usable value.
func (s *scrapeService) handleMetricOCR(ctx context.Context, article *scrape.Article, metric *extract.TitleMetric, stats *RunStats) {
	if s.ocrClient == nil || len(article.OriginalMediaURLs) == 0 {
		return
	}

	res := s.runOCR(ctx, article.OriginalMediaURLs[0], extract.OCRMetrics, stats)
	if res == nil || len(res.Rows) == 0 {
		return
	}

	rows := ocr.ExtractRankings(res.Rows, ocr.TableContext{
		MetricType: metric.MetricType,
		Year:       metric.Year,
		Period:     metric.Month,
		PeriodType: metric.PeriodType,
	})
	for _, row := range rows {
		resp, err := s.api.Submit(ctx, evtables.EVMetric, ocrMetricRecord(&row, article))
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("metric submit: %v", err))
			continue
		}
		if resp.Error == "" {
			stats.MetricsSubmitted++
		}
	}
}

func (s *scrapeService) handleSpecArticle(ctx context.Context, article *scrape.Article, stats *RunStats) {
	if s.ocrClient == nil || len(article.OriginalMediaURLs) == 0 {
		return
	}

	res := s.runOCR(ctx, article.OriginalMediaURLs[0], extract.OCRSpecs, stats)
	if res == nil || res.Data == nil {
		return
	}

	spec := extract.SpecFromOCR(res.Data, article.SourceURL)
	if spec == nil {
		return
	}

	resp, err := s.api.Submit(ctx, evtables.VehicleSpec, specRecord(spec, article))
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("spec submit: %v", err))
		return
	}
	if resp.Error == "" {
		stats.SpecsSubmitted++
	}
}

// runOCR extracts structured data from one image and tracks the call's
// usage with the platform.
func (s *scrapeService) runOCR(ctx context.Context, imageURL, dataType string, stats *RunStats) *ocr.Result {
	started := time.Now()
	res, err := s.ocrClient.Extract(ctx, imageURL, dataType)
	stats.OCRCalls++

	report := evapi.UsageReport{
		Type:       "ocr",
		Model:      s.ocrClient.Model(),
		Success:    err == nil,
		Source:     "scraper",
		DurationMs: int(time.Since(started).Milliseconds()),
	}
	if err != nil {
		report.ErrorMsg = err.Error()
	} else {
		report.Cost = res.Cost
		report.InputTokens = res.InputTokens
		report.OutputTokens = res.OutputTokens
	}
	if trackErr := s.api.TrackUsage(ctx, report); trackErr != nil {
		s.logger.Warn("Scraper", "Usage tracking failed", map[string]interface{}{"error": trackErr.Error()})
	}

	if err != nil {
		s.logger.Warn("Scraper", "OCR failed", map[string]interface{}{
			"image": imageURL,
			"error": err.Error(),
		})
		return nil
	}
	return res
}

// processWithAI scores, translates and summarizes the article. Reports
// whether the article passed the relevance gate.
func (s *scrapeService) processWithAI(ctx context.Context, article *scrape.Article) bool {
	started := time.Now()
	result, usage, err := s.processor.Process(ctx, article.OriginalTitle, article.OriginalContent, article.SourceAuthor)

	report := evapi.UsageReport{
		Type:       "processing",
		Success:    err == nil,
		Source:     "scraper",
		DurationMs: int(time.Since(started).Milliseconds()),
	}
	if usage != nil {
		report.Model = usage.Model
		report.InputTokens = usage.PromptTokens
		report.OutputTokens = usage.CompletionTokens
		report.Cost = modelCost(usage)
	}
	if err != nil {
		report.ErrorMsg = err.Error()
	}
	if trackErr := s.api.TrackUsage(ctx, report); trackErr != nil {
		s.logger.Warn("Scraper", "Usage tracking failed", map[string]interface{}{"error": trackErr.Error()})
	}

	if err != nil {
		s.logger.Warn("Scraper", "AI processing failed", map[string]interface{}{
			"title": article.OriginalTitle,
			"error": err.Error(),
		})
		return false
	}

	return s.processor.ApplyToArticle(article, result)
}

func (s *scrapeService) scrapeNioPower(ctx context.Context, stats *RunStats) {
	snapshot, err := s.nioPower.Scrape(ctx)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("niopower: %v", err))
		s.logger.Warn("Scraper", "NIO Power scrape failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := snapshot.Validate(); err != nil {
		s.logger.Warn("Scraper", "NIO Power snapshot rejected", map[string]interface{}{"error": err.Error()})
		return
	}

	resp, err := s.api.Submit(ctx, evtables.NioPowerSnapshot, snapshotRecord(snapshot))
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("niopower submit: %v", err))
		return
	}
	if resp.Error == "" {
		stats.IndustrySubmitted++
	}
}

func (s *scrapeService) submitBatch(ctx context.Context, stats *RunStats, batch []scrape.Article) error {
	if len(batch) == 0 {
		return nil
	}

	result, err := s.api.SubmitPosts(ctx, evapi.WebhookBatch{Posts: batch, BatchID: stats.BatchId})
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("webhook: %v", err))
		s.publishEvent(ctx, events.ScrapeFailed, map[string]interface{}{
			"batch_id": stats.BatchId,
			"error":    err.Error(),
		})
		return fmt.Errorf("submit webhook batch: %w", err)
	}

	stats.WebhookCreated = result.Created
	stats.WebhookDuplicates = result.Duplicates
	return nil
}

func (s *scrapeService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewBaseEvent(eventType, data)); err != nil {
		s.logger.Warn("Scraper", "Event publish failed", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *scrapeService) printSummary(stats *RunStats) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	bold.Printf("\nRun %s (%s)\n", stats.BatchId, stats.FinishedAt.Sub(stats.StartedAt).Round(time.Second))
	for name, src := range stats.Sources {
		fmt.Printf("  %-12s fetched %d", name, src.Fetched)
		if src.Duplicates > 0 {
			yellow.Printf("  dup %d", src.Duplicates)
		}
		if src.Errors > 0 {
			red.Printf("  err %d", src.Errors)
		}
		fmt.Println()
	}
	green.Printf("  posts created %d", stats.WebhookCreated)
	yellow.Printf("  duplicates %d\n", stats.WebhookDuplicates)
	fmt.Printf("  metrics %d  industry %d  specs %d  ocr calls %d  published %d\n",
		stats.MetricsSubmitted, stats.IndustrySubmitted, stats.SpecsSubmitted, stats.OCRCalls, stats.Published)
	for _, msg := range stats.Errors {
		red.Printf("  error: %s\n", msg)
	}
}

// Per-million-token pricing for the processing models. OCR pricing
// lives in pkg/ocr.
var modelPricing = map[string][2]float64{
	"deepseek-chat": {0.27, 1.10},
	"gpt-4o-mini":   {0.15, 0.60},
	"gpt-4o":        {2.50, 10.00},
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func modelCost(usage *llm.Usage) float64 {
	pricing, ok := modelPricing[usage.Model]
	if !ok {
		return 0
	}
	return float64(usage.PromptTokens)/1e6*pricing[0] + float64(usage.CompletionTokens)/1e6*pricing[1]
}

func metricRecord(m *extract.TitleMetric, article *scrape.Article) map[string]any {
	record := map[string]any{
		"brand":       m.Brand,
		"metric":      m.MetricType,
		"value":       m.Value,
		"unit":        m.Unit,
		"period":      metricPeriod(m),
		"periodType":  strings.ToLower(m.PeriodType),
		"year":        m.Year,
		"sourceUrl":   article.SourceURL,
		"sourceTitle": article.OriginalTitle,
	}
	if m.Month > 0 {
		record["month"] = m.Month
	}
	if m.Unit == "" {
		record["unit"] = "vehicles"
	}
	if m.YoYChange != nil {
		record["yoyChange"] = *m.YoYChange
	}
	if m.MoMChange != nil {
		record["momChange"] = *m.MoMChange
	}
	if m.MarketShare != nil {
		record["marketShare"] = *m.MarketShare
	}
	if m.VehicleModel != "" {
		record["vehicleModel"] = m.VehicleModel
	}
	if m.Region != "" {
		record["region"] = m.Region
	}
	return record
}

func metricPeriod(m *extract.TitleMetric) string {
	switch m.PeriodType {
	case extract.PeriodMonthly:
		return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
	case extract.PeriodQuarterly:
		return fmt.Sprintf("%04d-Q%d", m.Year, m.Quarter)
	default:
		return fmt.Sprintf("%04d", m.Year)
	}
}

func ocrMetricRecord(m *ocr.Metric, article *scrape.Article) map[string]any {
	record := map[string]any{
		"brand":       m.Brand,
		"metric":      m.MetricType,
		"value":       m.Value,
		"unit":        m.Unit,
		"periodType":  strings.ToLower(m.PeriodType),
		"year":        m.Year,
		"sourceUrl":   article.SourceURL,
		"sourceTitle": article.OriginalTitle,
	}
	if m.Unit == "" {
		record["unit"] = "vehicles"
	}
	if m.PeriodType == extract.PeriodMonthly && m.Period > 0 {
		record["month"] = m.Period
		record["period"] = fmt.Sprintf("%04d-%02d", m.Year, m.Period)
	} else {
		record["period"] = fmt.Sprintf("%04d", m.Year)
	}
	if m.YoYChange != nil {
		record["yoyChange"] = *m.YoYChange
	}
	if m.MoMChange != nil {
		record["momChange"] = *m.MoMChange
	}
	if m.MarketShare != nil {
		record["marketShare"] = *m.MarketShare
	}
	if m.VehicleModel != "" {
		record["vehicleModel"] = m.VehicleModel
	}
	if m.Region != "" {
		record["region"] = m.Region
	}
	return record
}

func specRecord(spec *extract.VehicleSpecData, article *scrape.Article) map[string]any {
	record := map[string]any{
		"brand":       spec.Brand,
		"model":       spec.Model,
		"sourceUrl":   spec.SourceURL,
		"sourceTitle": article.OriginalTitle,
	}
	if spec.VehicleType != "" {
		record["vehicleType"] = spec.VehicleType
	}
	if spec.Segment != "" {
		record["segment"] = spec.Segment
	}
	if spec.StartingPrice != nil {
		if spec.CurrentPrice != nil && *spec.CurrentPrice != *spec.StartingPrice {
			record["priceRange"] = fmt.Sprintf("%.2f-%.2f", *spec.StartingPrice, *spec.CurrentPrice)
		} else {
			record["priceRange"] = fmt.Sprintf("%.2f", *spec.StartingPrice)
		}
	}
	if spec.RangeCLTC != nil {
		record["rangeKm"] = *spec.RangeCLTC
	} else if spec.RangeWLTP != nil {
		record["rangeKm"] = *spec.RangeWLTP
	} else if spec.RangeEPA != nil {
		record["rangeKm"] = *spec.RangeEPA
	}
	if spec.BatteryCapacity != nil {
		record["batteryKwh"] = *spec.BatteryCapacity
	}
	if spec.MotorPowerKW != nil {
		record["powerKw"] = float64(*spec.MotorPowerKW)
	}
	if spec.MotorTorqueNM != nil {
		record["torqueNm"] = float64(*spec.MotorTorqueNM)
	}
	if spec.Acceleration != nil {
		record["acceleration"] = *spec.Acceleration
	}
	if spec.TopSpeed != nil {
		record["topSpeed"] = *spec.TopSpeed
	}
	if spec.LengthMM != nil {
		record["lengthMm"] = *spec.LengthMM
	}
	if spec.WidthMM != nil {
		record["widthMm"] = *spec.WidthMM
	}
	if spec.HeightMM != nil {
		record["heightMm"] = *spec.HeightMM
	}
	if spec.WheelbaseMM != nil {
		record["wheelbaseMm"] = *spec.WheelbaseMM
	}
	return record
}

func snapshotRecord(snapshot *scrape.NioPowerSnapshot) map[string]any {
	return map[string]any{
		"asOfTime":               snapshot.AsOfTime.Format(time.RFC3339),
		"totalStations":          snapshot.TotalStations,
		"swapStations":           snapshot.SwapStations,
		"highwaySwapStations":    snapshot.HighwaySwapStations,
		"cumulativeSwaps":        snapshot.CumulativeSwaps,
		"chargingStations":       snapshot.ChargingStations,
		"chargingPiles":          snapshot.ChargingPiles,
		"cumulativeCharges":      snapshot.CumulativeCharges,
		"thirdPartyPiles":        snapshot.ThirdPartyPiles,
		"thirdPartyUsagePercent": snapshot.ThirdPartyUsagePercent,
	}
}
