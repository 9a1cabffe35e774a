package bootstrap

import (
	"context"
	"log"

	"ev-platform-be/internal/config"
	"ev-platform-be/internal/controller"
	"ev-platform-be/internal/handler"
	"ev-platform-be/internal/pkg/logger"
	"ev-platform-be/internal/pkg/mailer"
	"ev-platform-be/internal/repository/unitofwork"
	"ev-platform-be/internal/service"
	"ev-platform-be/internal/websocket"
	"ev-platform-be/pkg/embedding"
	"ev-platform-be/pkg/embedding/jina"
	"ev-platform-be/pkg/llm"
	"ev-platform-be/pkg/llm/deepseek"
	"ev-platform-be/pkg/llm/openai"
	"ev-platform-be/pkg/xapi"

	pktNats "ev-platform-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Version is stamped by the build (-ldflags "-X ...bootstrap.Version=").
var Version = "dev"

const embedTopic = "embed_post"

type Container struct {
	// Controllers
	WebhookController     controller.IWebhookController
	PostController        controller.IPostController
	MetricController      controller.IMetricController
	VehicleSpecController controller.IVehicleSpecController
	IndustryController    controller.IIndustryController
	CronController        controller.ICronController
	AuthController        controller.IAuthController
	AdminController       controller.IAdminController
	HealthController      controller.IHealthController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	PublishService  service.IPublishService

	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub
	Logger       logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sysLogger.AttachSink(service.NewSystemLogSink(uowFactory))

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Embed queue (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.JinaAPIKey != "" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey, cfg.Ai.EmbeddingModel)
	} else {
		log.Printf("[WARN] JINA_API_KEY not set, embeddings disabled")
	}

	var queryProviders []llm.LLMProvider
	if cfg.Ai.DeepSeekAPIKey != "" {
		queryProviders = append(queryProviders, deepseek.NewDeepSeekProvider(cfg.Ai.DeepSeekAPIKey, "", cfg.Ai.PrimaryModel))
	}
	if cfg.Ai.OpenAIAPIKey != "" {
		queryProviders = append(queryProviders, openai.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, "", cfg.Ai.FallbackModel))
	}
	if len(queryProviders) == 0 {
		log.Printf("[WARN] No LLM API keys configured, data explorer falls back to heuristics")
	}

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.App.RedisAddr,
		Password: cfg.App.RedisPassword,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// X publisher stays nil without credentials or under SKIP_X_PUBLISH;
	// publishing then runs in dry-run mode.
	var xPublisher xapi.Publisher
	if cfg.Publisher.XClientID != "" && cfg.Publisher.XRefreshToken != "" && !cfg.Scraper.SkipXPublish {
		xPublisher = xapi.NewClient(context.Background(), xapi.Config{
			ClientID:     cfg.Publisher.XClientID,
			ClientSecret: cfg.Publisher.XClientSecret,
			RefreshToken: cfg.Publisher.XRefreshToken,
		})
	}

	// 5. Services
	publisherService := service.NewPublisherService(embedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		embedTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	ingestService := service.NewIngestService(
		uowFactory,
		publisherService,
		natsPub,
		sysLogger,
		cfg.Ai.AutoApproveScore,
		cfg.Ai.MinRelevanceScore,
	)

	publishService := service.NewPublishService(
		uowFactory,
		xPublisher,
		rdb,
		natsPub,
		sysLogger,
		cfg.Publisher.DailyLimit,
		cfg.Publisher.PostsPerRun,
	)

	authService := service.NewAuthService(uowFactory, cfg.Auth.JWTSecret)
	postService := service.NewPostService(uowFactory)
	metricService := service.NewMetricService(uowFactory)
	vehicleSpecService := service.NewVehicleSpecService(uowFactory)
	industryService := service.NewIndustryService(uowFactory, sysLogger)
	usageService := service.NewUsageService(uowFactory)
	queryService := service.NewQueryService(uowFactory, queryProviders, sysLogger)
	adminService := service.NewAdminService(uowFactory, sysLogger, cfg.Publisher.DailyLimit)

	// 6. Event bridge: NATS -> websocket feed + operator alerts
	eventBridge := service.NewEventBridgeService(natsSub, wsHub, emailService, cfg.SMTP.AlertEmail, sysLogger)
	if natsSub != nil {
		if err := eventBridge.Start(); err != nil {
			log.Printf("[WARN] Event bridge not started: %v", err)
		}
	}

	return &Container{
		WebhookController:     controller.NewWebhookController(ingestService, cfg.Auth.WebhookSecret),
		PostController:        controller.NewPostController(postService),
		MetricController:      controller.NewMetricController(metricService),
		VehicleSpecController: controller.NewVehicleSpecController(vehicleSpecService),
		IndustryController:    controller.NewIndustryController(industryService),
		CronController:        controller.NewCronController(publishService, cfg.Auth.CronSecret),
		AuthController:        controller.NewAuthController(authService),
		AdminController:       controller.NewAdminController(adminService, queryService, usageService, cfg.Auth.CronSecret),
		HealthController:      controller.NewHealthController(db, Version),

		ConsumerService: consumerService,
		PublishService:  publishService,

		FeedHandler:  handler.NewFeedHandler(wsHub, sysLogger),
		WebSocketHub: wsHub,
		Logger:       sysLogger,
	}
}
