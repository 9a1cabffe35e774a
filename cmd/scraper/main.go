package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ev-platform-be/internal/config"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/service"
	"ev-platform-be/pkg/aiproc"
	"ev-platform-be/pkg/evapi"
	"ev-platform-be/pkg/llm"
	"ev-platform-be/pkg/llm/deepseek"
	"ev-platform-be/pkg/llm/openai"
	pktNats "ev-platform-be/pkg/nats"
	"ev-platform-be/pkg/ocr"
	"ev-platform-be/pkg/scrape"

	"github.com/robfig/cron/v3"
)

func main() {
	once := flag.Bool("once", false, "run one scrape cycle and exit")
	source := flag.String("source", "", "restrict the run to a single source")
	skipPublish := flag.Bool("skip-publish", false, "do not trigger publishing after submit")
	flag.Parse()

	cfg := config.Load()
	// The scraper keeps its own file-only stream so cron runs do not
	// interleave with the API server's log.
	sysLogger := logger.NewIsolatedLogger(scraperLogPath(cfg.App.LogFilePath))
	defer sysLogger.Sync()

	svc := buildScrapeService(cfg, sysLogger)
	opts := service.ScrapeOptions{
		OnlySource:  *source,
		SkipPublish: *skipPublish || cfg.Scraper.SkipXPublish,
	}

	if *once {
		if _, err := svc.Run(context.Background(), opts); err != nil {
			log.Fatalf("Scrape run failed: %v", err)
		}
		return
	}

	// Scheduled mode: immediate first run, then every N hours until
	// SIGINT/SIGTERM.
	runCycle := func() {
		if _, err := svc.Run(context.Background(), opts); err != nil {
			log.Printf("Scrape run failed: %v", err)
		}
	}

	runCycle()

	c := cron.New()
	spec := fmt.Sprintf("@every %dh", cfg.Scraper.IntervalHours)
	if _, err := c.AddFunc(spec, runCycle); err != nil {
		log.Fatalf("Failed to schedule scraper: %v", err)
	}
	c.Start()
	log.Printf("Scraper scheduled: %s", spec)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scraper...")
	<-c.Stop().Done()
}

// scraperLogPath puts the scraper's run log next to the main log file.
func scraperLogPath(mainLog string) string {
	return filepath.Join(filepath.Dir(mainLog), "scraper.log")
}

func buildScrapeService(cfg *config.Config, sysLogger logger.ILogger) service.IScrapeService {
	api := evapi.NewClient(cfg.Scraper.APIBaseURL, cfg.Auth.WebhookSecret, cfg.Auth.CronSecret)

	var providers []llm.LLMProvider
	if cfg.Ai.DeepSeekAPIKey != "" {
		providers = append(providers, deepseek.NewDeepSeekProvider(cfg.Ai.DeepSeekAPIKey, "", cfg.Ai.PrimaryModel))
	}
	if cfg.Ai.OpenAIAPIKey != "" {
		providers = append(providers, openai.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, "", cfg.Ai.FallbackModel))
	}
	if len(providers) == 0 {
		log.Fatal("No LLM API keys configured, the scraper cannot process articles")
	}
	processor := aiproc.NewProcessor(providers, cfg.Ai.MinRelevanceScore)

	var ocrClient *ocr.Client
	if cfg.Ai.OpenAIAPIKey != "" {
		ocrClient = ocr.NewClient(cfg.Ai.OpenAIAPIKey, "")
	} else {
		log.Println("OPENAI_API_KEY not set, chart and table OCR disabled")
	}

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("NATS unavailable, scrape events will not be emitted: %v", err)
	}

	return service.NewScrapeService(
		cfg,
		api,
		processor,
		ocrClient,
		service.BuildSources(cfg),
		scrape.NewNioPowerScraper(scrape.NioPowerURL),
		natsPub,
		sysLogger,
	)
}
