package config

import (
	"log/slog"
	"strings"

	golobby "github.com/golobby/config/v3"
	"github.com/golobby/config/v3/pkg/feeder"
)

type Config struct {
	Showdeck ShowdeckConfig
	Content  ContentConfig
	Pushover PushoverConfig
}

type ShowdeckConfig struct {
	Port                  string `env:"PORT"`
	DbPath                string `env:"DB_PATH"`
	LogLevel              string `env:"LOG_LEVEL"`
	StorageDir            string `env:"STORAGE_DIR"`
	BackgroundJobsEnabled bool   `env:"BACKGROUND_JOBS_ENABLED"`
	RefreshWebhookSecret  string `env:"REFRESH_WEBHOOK_SECRET"`
}

type ContentConfig struct {
	BaseURL        string `env:"CONTENT_BASE_URL"`
	SortBy         string `env:"CONTENT_SORT_BY"`
	RefreshMinutes int    `env:"CONTENT_REFRESH_MINUTES"`
}

type PushoverConfig struct {
	Recipient string `env:"PUSHOVER_RECIPIENT"`
	Token     string `env:"PUSHOVER_TOKEN"`
}

// Load feeds the config from the environment and fills in the defaults a
// local setup shouldn't have to spell out.
func Load() (Config, error) {
	var cfg Config
	if err := golobby.New().AddFeeder(feeder.Env{}).AddStruct(&cfg).Feed(); err != nil {
		return cfg, err
	}
	if cfg.Showdeck.Port == "" {
		cfg.Showdeck.Port = "8080"
	}
	if cfg.Showdeck.StorageDir == "" {
		cfg.Showdeck.StorageDir = "/tmp"
	}
	if cfg.Content.SortBy == "" {
		cfg.Content.SortBy = "date"
	}
	if cfg.Content.RefreshMinutes <= 0 {
		cfg.Content.RefreshMinutes = 15
	}
	return cfg, nil
}

func (c *Config) GetLogLevel() slog.Leveler {
	logLevel := strings.ToLower(c.Showdeck.LogLevel)
	if logLevel == "error" {
		return slog.LevelError
	}
	if logLevel == "warning" {
		return slog.LevelWarn
	}
	if logLevel == "info" {
		return slog.LevelInfo
	}
	if logLevel == "debug" {
		return slog.LevelDebug
	}
	// default to info if unknown
	slog.With(slog.String("log_level", logLevel)).Info("Received invalid log level. Defaulting to INFO.")
	return slog.LevelInfo
}
