package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the application configuration, loaded from
// $HOME/.config/hamyon/config.yaml, HAMYON_* environment variables, and
// flags bound by the commands.
type Config struct {
	Telegram   TelegramConfig `mapstructure:"telegram"`
	Database   DatabaseConfig `mapstructure:"database"`
	API        APIConfig      `mapstructure:"api"`
	Speech     SpeechConfig   `mapstructure:"speech"`
	Receipt    ReceiptConfig  `mapstructure:"receipt"`
	Vocabulary VocabConfig    `mapstructure:"vocabulary"`
	Logging    LoggingConfig  `mapstructure:"logging"`
}

// TelegramConfig holds the bot transport settings.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
	// WebAppURL enables the companion web-app button on the bot's main
	// menu when set.
	WebAppURL string `mapstructure:"web_app_url"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// APIConfig holds the companion HTTP API settings.
type APIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// SpeechConfig holds the Whisper-compatible transcription settings. An
// empty base URL disables voice input.
type SpeechConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
}

// ReceiptConfig holds the OCR endpoint settings. An empty URL disables
// receipt photos.
type ReceiptConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// VocabConfig points at a replacement category table; empty uses the
// embedded default.
type VocabConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration out of viper's current state and applies
// defaults and path expansion.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "$HOME/.local/share/hamyon/hamyon.db"
	}
	cfg.Database.Path = ExpandPath(cfg.Database.Path)

	if cfg.Vocabulary.Path != "" {
		cfg.Vocabulary.Path = ExpandPath(cfg.Vocabulary.Path)
	}

	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	return &cfg, nil
}
