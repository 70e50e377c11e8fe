package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Symbol  string `yaml:"symbol"`
	} `yaml:"data_source"`
	Fetch struct {
		Output  string `yaml:"output"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"fetch"`
	Prediction struct {
		Seed         int64   `yaml:"seed"`
		TestFraction float64 `yaml:"test_fraction"`
		OutputDir    string  `yaml:"output_dir"`
	} `yaml:"prediction"`
	Schedule struct {
		Cron         string `yaml:"cron"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// ResolvePath picks the config file: explicit flag, then CONFIG_PATH, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("STOCKLENS_SYMBOL"); v != "" {
		c.DataSource.Symbol = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("PREDICTION_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse PREDICTION_SEED: %w", err)
		}
		c.Prediction.Seed = seed
	}
	if v := os.Getenv("PREDICTION_OUTPUT_DIR"); v != "" {
		c.Prediction.OutputDir = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		c.Schedule.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "0050.TW"
	}
	if c.Fetch.Output == "" {
		c.Fetch.Output = "stock_data.csv"
	}
	if c.Fetch.DataDir == "" {
		c.Fetch.DataDir = "data"
	}
	if c.Prediction.TestFraction == 0 {
		c.Prediction.TestFraction = 0.25
	}
	if c.Prediction.OutputDir == "" {
		c.Prediction.OutputDir = "result"
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 30 18 * * 1-5"
	}
	if c.Schedule.LookbackDays == 0 {
		c.Schedule.LookbackDays = 365
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/stocklens.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks field ranges and combinations.
func (c *Config) Validate() error {
	if !(c.Prediction.TestFraction > 0 && c.Prediction.TestFraction < 1) {
		return fmt.Errorf("prediction.test_fraction must be in (0, 1), got %v", c.Prediction.TestFraction)
	}
	if c.Schedule.LookbackDays <= 0 {
		return fmt.Errorf("schedule.lookback_days must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
