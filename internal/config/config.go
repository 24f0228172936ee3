// Package config provides configuration management for the pressure monitor.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/SergeiHanus/pressure-monitor/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Monitor       MonitorConfig      `mapstructure:"monitor"`
	API           APIConfig          `mapstructure:"api"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Journal       JournalConfig      `mapstructure:"journal"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded from environment
}

// MonitorConfig holds pressure analysis configuration.
type MonitorConfig struct {
	ThresholdMmHg  float64 `mapstructure:"threshold_mmhg"`
	LookaheadHours int     `mapstructure:"lookahead_hours"`
	HPaToMmHgRatio float64 `mapstructure:"hpa_to_mmhg_ratio"`
}

// APIConfig holds forecast API configuration.
type APIConfig struct {
	URL        string        `mapstructure:"url"`
	Units      string        `mapstructure:"units"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// NotificationConfig holds notification channel configuration.
type NotificationConfig struct {
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// WebhookConfig holds IFTTT-style webhook channel configuration.
type WebhookConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TelegramConfig holds Telegram bot channel configuration.
type TelegramConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	BotToken              string        `mapstructure:"bot_token"`
	ChatID                string        `mapstructure:"chat_id"`
	ParseMode             string        `mapstructure:"parse_mode"`
	DisableWebPagePreview bool          `mapstructure:"disable_web_page_preview"`
	Timeout               time.Duration `mapstructure:"timeout"`
}

// JournalConfig holds run journal configuration.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Credentials holds secrets loaded from the environment.
type Credentials struct {
	APIKey      string
	Coordinates string
	Lat         float64
	Lon         float64
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/pressure-monitor"
	}
	return filepath.Join(home, ".config", "pressure-monitor")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, apperrors.Wrap(err, "loading config.toml")
	}

	applyEnvOverrides(cfg)

	if err := cfg.loadCredentials(); err != nil {
		return nil, err
	}

	applyDefaults(cfg, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template and continue with defaults
			if werr := createTemplateConfig(configDir); werr != nil {
				return werr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("monitor.threshold_mmhg", 8.0)
	v.SetDefault("monitor.lookahead_hours", 24)
	v.SetDefault("monitor.hpa_to_mmhg_ratio", 760.0/1013.25)

	v.SetDefault("api.url", "https://api.openweathermap.org/data/2.5/forecast")
	v.SetDefault("api.units", "metric")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.max_retries", 10)
	v.SetDefault("api.retry_delay", "60s")

	v.SetDefault("notifications.webhook.enabled", true)
	v.SetDefault("notifications.webhook.timeout", "30s")
	v.SetDefault("notifications.telegram.enabled", false)
	v.SetDefault("notifications.telegram.parse_mode", "HTML")
	v.SetDefault("notifications.telegram.disable_web_page_preview", true)
	v.SetDefault("notifications.telegram.timeout", "30s")

	v.SetDefault("journal.enabled", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age_days", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IFTTT_WEBHOOK_URL"); v != "" {
		cfg.Notifications.Webhook.URL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notifications.Telegram.BotToken = v
		cfg.Notifications.Telegram.Enabled = true
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv("PRESSURE_THRESHOLD_MMHG"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Monitor.ThresholdMmHg = f
		}
	}
}

func (c *Config) loadCredentials() error {
	c.Credentials.APIKey = os.Getenv("OPENWEATHER_API_KEY")
	c.Credentials.Coordinates = os.Getenv("COORDINATES")

	if c.Credentials.APIKey == "" {
		return apperrors.NewConfigError("OPENWEATHER_API_KEY", "environment variable not set", apperrors.ErrMissingSetting)
	}
	if c.Credentials.Coordinates == "" {
		return apperrors.NewConfigError("COORDINATES", "environment variable not set", apperrors.ErrMissingSetting)
	}

	lat, lon, err := ParseCoordinates(c.Credentials.Coordinates)
	if err != nil {
		return err
	}
	c.Credentials.Lat = lat
	c.Credentials.Lon = lon

	return nil
}

func applyDefaults(cfg *Config, configDir string) {
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(configDir, "journal.db")
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = filepath.Join(configDir, "logs", "pressure-monitor.log")
	}
}

// ParseCoordinates parses a "lat,lon" string into a coordinate pair.
func ParseCoordinates(coordinates string) (float64, float64, error) {
	parts := strings.Split(coordinates, ",")
	if len(parts) != 2 {
		return 0, 0, apperrors.NewConfigError("COORDINATES",
			"must be in format 'lat,lon' (e.g., '40.7128,-74.0060')", apperrors.ErrInvalidSetting)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, apperrors.NewConfigError("COORDINATES", "latitude is not a number", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, apperrors.NewConfigError("COORDINATES", "longitude is not a number", err)
	}

	if lat < -90 || lat > 90 {
		return 0, 0, apperrors.NewConfigError("COORDINATES", "latitude must be between -90 and 90", apperrors.ErrInvalidSetting)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, apperrors.NewConfigError("COORDINATES", "longitude must be between -180 and 180", apperrors.ErrInvalidSetting)
	}

	return lat, lon, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Monitor.ThresholdMmHg <= 0 {
		return apperrors.NewConfigError("monitor.threshold_mmhg", "must be positive", apperrors.ErrInvalidSetting)
	}
	if c.Monitor.LookaheadHours <= 0 {
		return apperrors.NewConfigError("monitor.lookahead_hours", "must be positive", apperrors.ErrInvalidSetting)
	}
	if c.Monitor.HPaToMmHgRatio <= 0 {
		return apperrors.NewConfigError("monitor.hpa_to_mmhg_ratio", "must be positive", apperrors.ErrInvalidSetting)
	}
	if c.API.MaxRetries < 1 {
		return apperrors.NewConfigError("api.max_retries", "must be at least 1", apperrors.ErrInvalidSetting)
	}
	if c.API.RetryDelay < 0 {
		return apperrors.NewConfigError("api.retry_delay", "must be non-negative", apperrors.ErrInvalidSetting)
	}
	if c.Notifications.Webhook.Enabled && c.Notifications.Webhook.URL == "" {
		return apperrors.NewConfigError("notifications.webhook.url",
			"webhook channel enabled but no URL configured (set IFTTT_WEBHOOK_URL)", apperrors.ErrMissingSetting)
	}
	if c.Notifications.Telegram.Enabled {
		if c.Notifications.Telegram.BotToken == "" {
			return apperrors.NewConfigError("notifications.telegram.bot_token",
				"telegram channel enabled but no bot token configured (set TELEGRAM_BOT_TOKEN)", apperrors.ErrMissingSetting)
		}
		if c.Notifications.Telegram.ChatID == "" {
			return apperrors.NewConfigError("notifications.telegram.chat_id",
				"telegram channel enabled but no chat id configured (set TELEGRAM_CHAT_ID)", apperrors.ErrMissingSetting)
		}
	}
	return nil
}
