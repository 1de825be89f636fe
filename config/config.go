package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Defaults shared with tests
const (
	DefaultMaxMB       = 50
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultCookiesPath = "/etc/secrets/cookies.txt"
)

// Config holds all configuration for the bot service
type Config struct {
	Telegram  TelegramConfig
	Webhook   WebhookConfig
	Media     MediaConfig
	Extractor ExtractorConfig
	Workers   WorkersConfig
	Session   SessionConfig
	Kafka     KafkaConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Service   ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// WebhookConfig selects the update transport.
// Long polling is used unless Enabled is set.
type WebhookConfig struct {
	Enabled bool
	URL     string
	Secret  string
}

// FullURL is the address registered with Telegram
func (c WebhookConfig) FullURL() string {
	return strings.TrimRight(c.URL, "/") + "/" + c.Secret
}

// Path is the local route the webhook is served on
func (c WebhookConfig) Path() string {
	return "/" + c.Secret
}

// MediaConfig holds the delivery size policy
type MediaConfig struct {
	MaxMB   int
	TempDir string
}

// MaxBytes is the size ceiling applied at ranking and after download
func (c MediaConfig) MaxBytes() int64 {
	return int64(c.MaxMB) * 1024 * 1024
}

// ExtractorConfig holds yt-dlp configuration
type ExtractorConfig struct {
	BinaryPath    string
	CookiesPath   string
	UserAgent     string
	Retries       int
	SocketTimeout time.Duration
}

// WorkersConfig bounds concurrent blocking work
type WorkersConfig struct {
	MaxConcurrent int
}

// SessionConfig holds pending selection settings.
// TTL of zero keeps selections until they are taken or replaced.
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	DeliveryTopic string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Telegram  *TelegramConfig
	Webhook   *WebhookConfig
	Media     *MediaConfig
	Extractor *ExtractorConfig
	Workers   *WorkersConfig
	Session   *SessionConfig
	Kafka     *KafkaConfig
	Database  *DatabaseConfig
	Logging   *LoggingConfig
	Service   *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Telegram:  &cfg.Telegram,
		Webhook:   &cfg.Webhook,
		Media:     &cfg.Media,
		Extractor: &cfg.Extractor,
		Workers:   &cfg.Workers,
		Session:   &cfg.Session,
		Kafka:     &cfg.Kafka,
		Database:  &cfg.Database,
		Logging:   &cfg.Logging,
		Service:   &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	webhookURL := getEnv("WEBHOOK_URL", "")

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", getEnv("BOT_TOKEN", "")),
		},
		Webhook: WebhookConfig{
			Enabled: webhookURL != "" || getEnvBool("USE_WEBHOOK", false),
			URL:     webhookURL,
			Secret:  getEnv("WEBHOOK_SECRET", "secret"),
		},
		Media: MediaConfig{
			MaxMB:   getEnvInt("MAX_MB", DefaultMaxMB),
			TempDir: getEnv("TEMP_DIR", os.TempDir()),
		},
		Extractor: ExtractorConfig{
			BinaryPath:    getEnv("YTDLP_PATH", "yt-dlp"),
			CookiesPath:   getEnv("COOKIES_PATH", DefaultCookiesPath),
			UserAgent:     getEnv("USER_AGENT", DefaultUserAgent),
			Retries:       getEnvInt("YTDLP_RETRIES", 3),
			SocketTimeout: getEnvDuration("YTDLP_SOCKET_TIMEOUT", 20*time.Second),
		},
		Workers: WorkersConfig{
			MaxConcurrent: getEnvInt("WORKERS", 4),
		},
		Session: SessionConfig{
			TTL:             getEnvDuration("SESSION_TTL", 0),
			CleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", time.Minute),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvBool("KAFKA_ENABLED", false),
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "localhost:9093")),
			DeliveryTopic: getEnv("KAFKA_DELIVERY_TOPIC", "media.deliveries"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DATABASE_ENABLED", false),
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", ""),
			Name:     getEnv("DATABASE_NAME", "media_bot"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "media-bot"),
			Port: getEnv("SERVICE_PORT", getEnv("PORT", "10000")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Webhook.Enabled && c.Webhook.URL == "" {
		return fmt.Errorf("WEBHOOK_URL is required in webhook mode")
	}

	if c.Webhook.Enabled && c.Webhook.Secret == "" {
		return fmt.Errorf("WEBHOOK_SECRET must not be empty in webhook mode")
	}

	if c.Media.MaxMB <= 0 {
		return fmt.Errorf("MAX_MB must be positive, got %d", c.Media.MaxMB)
	}

	if c.Workers.MaxConcurrent <= 0 {
		return fmt.Errorf("WORKERS must be positive, got %d", c.Workers.MaxConcurrent)
	}

	if c.Session.TTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if val, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultValue
	}
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
