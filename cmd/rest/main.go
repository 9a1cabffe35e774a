package main

import (
	"context"
	"log"

	"ev-platform-be/internal/bootstrap"
	"ev-platform-be/internal/config"
	"ev-platform-be/internal/server"
	"ev-platform-be/internal/tracer"
	"ev-platform-be/pkg/database"

	"github.com/robfig/cron/v3"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Embed Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Without an external scheduler hitting /api/cron, the publish
	// loop runs in-process.
	if cfg.App.CronInProcess {
		c := cron.New()
		if _, err := c.AddFunc("0 */1 * * *", func() {
			if _, err := container.PublishService.PublishDue(context.Background()); err != nil {
				log.Printf("Cron publish error: %v", err)
			}
		}); err != nil {
			log.Printf("Failed to schedule publish cron: %v", err)
		}
		if _, err := c.AddFunc("30 2 * * *", func() {
			if _, err := container.PublishService.RetryFailed(context.Background()); err != nil {
				log.Printf("Cron retry error: %v", err)
			}
		}); err != nil {
			log.Printf("Failed to schedule retry cron: %v", err)
		}
		c.Start()
		defer c.Stop()
		log.Println("Background: In-process publish cron started")
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
