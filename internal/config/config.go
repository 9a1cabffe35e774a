package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ai        AIConfig
	Scraper   ScraperConfig
	Publisher PublisherConfig
	SMTP      SMTPConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisAddr          string
	RedisPassword      string
	TracingEndpoint    string
	CronInProcess      bool
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret     string
	WebhookSecret string
	CronSecret    string
	AdminEmail    string
	AdminPassword string
}

type AIConfig struct {
	DeepSeekAPIKey    string
	OpenAIAPIKey      string
	PrimaryModel      string
	FallbackModel     string
	MinRelevanceScore int
	AutoApproveScore  int
	JinaAPIKey        string
	EmbeddingModel    string
}

type ScraperConfig struct {
	IntervalHours  int
	RequestTimeout int
	UserAgent      string
	APIBaseURL     string
	WebhookURL     string
	SkipXPublish   bool
	Weibo          WeiboConfig
	CnEVData       CnEVDataConfig
}

type WeiboConfig struct {
	Enabled bool
	UIDs    []string
}

type CnEVDataConfig struct {
	Enabled     bool
	BaseURL     string
	MinDelay    int
	MaxDelay    int
	WeeklyLimit int
}

type PublisherConfig struct {
	XClientID     string
	XClientSecret string
	XRefreshToken string
	DailyLimit    int
	PostsPerRun   int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	AlertEmail string
}

// Official Weibo accounts followed by the aggregator (NIO, XPeng,
// Li Auto, Zeekr, AITO, Xiaomi EV, Leapmotor, Avatr, Denza).
var defaultWeiboUIDs = []string{
	"5675979153",
	"5977555696",
	"6042713472",
	"7467277921",
	"7735765656",
	"7789044075",
	"6173059152",
	"7582144368",
	"2427563792",
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("SERVER_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE", "logs/ev-platform.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:      getEnv("REDIS_PASSWORD", ""),
			TracingEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			CronInProcess:      getEnvAsBool("CRON_IN_PROCESS", true),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			WebhookSecret: getEnv("SCRAPER_WEBHOOK_SECRET", ""),
			CronSecret:    getEnv("CRON_SECRET", ""),
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Ai: AIConfig{
			DeepSeekAPIKey:    getEnv("DEEPSEEK_API_KEY", ""),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			PrimaryModel:      getEnv("AI_MODEL_PRIMARY", "deepseek-chat"),
			FallbackModel:     getEnv("AI_MODEL_FALLBACK", "gpt-4o-mini"),
			MinRelevanceScore: getEnvAsInt("MIN_RELEVANCE_SCORE", 40),
			AutoApproveScore:  getEnvAsInt("AUTO_APPROVE_SCORE", 60),
			JinaAPIKey:        getEnv("JINA_API_KEY", ""),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "jina-embeddings-v3"),
		},
		Scraper: ScraperConfig{
			IntervalHours:  getEnvAsInt("SCRAPE_INTERVAL_HOURS", 6),
			RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT", 30),
			UserAgent:      getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:3000"),
			WebhookURL:     getEnv("WEBHOOK_URL", "http://localhost:3000/api/webhook"),
			SkipXPublish:   getEnvAsBool("SKIP_X_PUBLISH", false),
			Weibo: WeiboConfig{
				Enabled: getEnvAsBool("WEIBO_ENABLED", true),
				UIDs:    getEnvAsSlice("WEIBO_UIDS", defaultWeiboUIDs),
			},
			CnEVData: CnEVDataConfig{
				Enabled:     getEnvAsBool("CNEVDATA_ENABLED", true),
				BaseURL:     getEnv("CNEVDATA_BASE_URL", "https://cnevdata.com"),
				MinDelay:    getEnvAsInt("CNEVDATA_MIN_DELAY", 3),
				MaxDelay:    getEnvAsInt("CNEVDATA_MAX_DELAY", 8),
				WeeklyLimit: getEnvAsInt("CNEVDATA_WEEKLY_LIMIT", 100),
			},
		},
		Publisher: PublisherConfig{
			XClientID:     getEnv("X_CLIENT_ID", ""),
			XClientSecret: getEnv("X_CLIENT_SECRET", ""),
			XRefreshToken: getEnv("X_REFRESH_TOKEN", ""),
			DailyLimit:    getEnvAsInt("X_DAILY_POST_LIMIT", 100),
			PostsPerRun:   getEnvAsInt("X_POSTS_PER_RUN", 5),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "EV Platform"),
			AlertEmail: getEnv("ALERT_EMAIL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
