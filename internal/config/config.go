package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "https://web-scraping.dev"

	configPathEnv   = "REPUTATION_MONITOR_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	inferenceURLEnv = "SENTIMENT_INFERENCE_URL"
	inferenceKeyEnv = "SENTIMENT_API_KEY"
	telegramToken   = "TELEGRAM_BOT_TOKEN"
	telegramChatID  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Site          SiteConfig         `yaml:"site"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Resources     []ResourceConfig   `yaml:"resources"`
	Sentiment     SentimentConfig    `yaml:"sentiment"`
	Database      DatabaseConfig     `yaml:"database"`
	Export        ExportConfig       `yaml:"export"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SiteConfig describes the scraped site and crawl pacing.
type SiteConfig struct {
	BaseURL        string   `yaml:"baseUrl"`
	UserAgent      string   `yaml:"userAgent"`
	TimeoutSeconds int      `yaml:"timeoutSeconds"`
	PageDelayMs    int      `yaml:"pageDelayMs"`
	Boilerplate    []string `yaml:"boilerplate"`
}

// Timeout resolves the per-page fetch timeout.
func (s SiteConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// PageDelay resolves the politeness delay between pages.
func (s SiteConfig) PageDelay() time.Duration {
	if s.PageDelayMs < 0 {
		return 0
	}
	return time.Duration(s.PageDelayMs) * time.Millisecond
}

// PipelineConfig covers the post-processing passes. Classification runs
// by default; SkipClassification lets a caller produce unclassified
// review exports.
type PipelineConfig struct {
	TargetYear         int  `yaml:"targetYear"`
	SkipClassification bool `yaml:"skipClassification"`
}

// ResourceConfig describes one paginated endpoint and its thresholds.
type ResourceConfig struct {
	Source     string `yaml:"source"`
	Path       string `yaml:"path"`
	Referer    string `yaml:"referer"`
	MaxPages   int    `yaml:"maxPages"`
	MinLength  int    `yaml:"minLength"`
	MaxPerPage int    `yaml:"maxPerPage"`
}

// SentimentConfig points at the optional inference service; an empty
// InferenceURL selects the lexicon fallback for the whole run.
type SentimentConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// DatabaseConfig describes the optional Postgres connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ExportConfig targets the CSV output directory.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send digests.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig enables recurring harvests.
type SchedulerConfig struct {
	Enabled       bool `yaml:"enabled"`
	IntervalHours int  `yaml:"intervalHours"`
}

// Interval resolves the rerun interval.
func (s SchedulerConfig) Interval() time.Duration {
	if s.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.IntervalHours) * time.Hour
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Resources) == 0 {
		cfg.Resources = defaultConfig().Resources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(inferenceURLEnv); v != "" {
		c.Sentiment.InferenceURL = v
	}

	if v := os.Getenv(inferenceKeyEnv); v != "" {
		c.Sentiment.APIKey = v
	}

	if v := os.Getenv(telegramToken); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatID); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Site.BaseURL != "" {
		base.Site.BaseURL = override.Site.BaseURL
	}
	if override.Site.UserAgent != "" {
		base.Site.UserAgent = override.Site.UserAgent
	}
	if override.Site.TimeoutSeconds > 0 {
		base.Site.TimeoutSeconds = override.Site.TimeoutSeconds
	}
	if override.Site.PageDelayMs > 0 {
		base.Site.PageDelayMs = override.Site.PageDelayMs
	}
	if len(override.Site.Boilerplate) > 0 {
		base.Site.Boilerplate = override.Site.Boilerplate
	}

	if override.Pipeline.TargetYear > 0 {
		base.Pipeline.TargetYear = override.Pipeline.TargetYear
	}
	base.Pipeline.SkipClassification = base.Pipeline.SkipClassification || override.Pipeline.SkipClassification

	if override.Sentiment.InferenceURL != "" {
		base.Sentiment.InferenceURL = override.Sentiment.InferenceURL
	}
	if override.Sentiment.APIKey != "" {
		base.Sentiment.APIKey = override.Sentiment.APIKey
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Export.Dir != "" {
		base.Export = override.Export
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.IntervalHours > 0 {
		base.Scheduler.IntervalHours = override.Scheduler.IntervalHours
	}

	if len(override.Resources) > 0 {
		base.Resources = override.Resources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Site: SiteConfig{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: 30,
			PageDelayMs:    200,
			Boilerplate:    []string{"web-scraping.dev"},
		},
		Pipeline: PipelineConfig{
			TargetYear: 2023,
		},
		Resources: []ResourceConfig{
			{Source: "product", Path: "/products", MaxPages: 5, MinLength: 1},
			{Source: "testimonial", Path: "/api/testimonials", Referer: defaultBaseURL + "/testimonials", MaxPages: 5, MinLength: 10},
			{Source: "review", Path: "/reviews", MaxPages: 12, MinLength: 25, MaxPerPage: 25},
		},
		Export: ExportConfig{Dir: "data"},
	}
}
