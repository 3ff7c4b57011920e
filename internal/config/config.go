package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Symbols        []string `yaml:"symbols"`
		BacktestSymbol string   `yaml:"backtest_symbol"`
		RequestsPerSec int      `yaml:"requests_per_sec"`
	} `yaml:"data_source"`
	Schedule struct {
		DailyCron    string `yaml:"daily_cron"`
		BacktestCron string `yaml:"backtest_cron"`
	} `yaml:"schedule"`
	Detector struct {
		Rule                    string  `yaml:"rule"`
		WeightedChangeThreshold float64 `yaml:"weighted_change_threshold"`
	} `yaml:"detector"`
	Classifier struct {
		TimeWindowSessions   int     `yaml:"time_window_sessions"`
		RecentWindowSessions int     `yaml:"recent_window_sessions"`
		PriceExpirationRatio float64 `yaml:"price_expiration_ratio"`
	} `yaml:"classifier"`
	Backtest struct {
		TrailingWindow int     `yaml:"trailing_window"`
		CashAnnualRate float64 `yaml:"cash_annual_rate"`
	} `yaml:"backtest"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Scan struct {
		MaxConcurrent int `yaml:"max_concurrent"`
		LookbackDays  int `yaml:"lookback_days"`
	} `yaml:"scan"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("BACKTEST_SYMBOL"); v != "" {
		cfg.DataSource.BacktestSymbol = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("CRON_BACKTEST"); v != "" {
		cfg.Schedule.BacktestCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SCAN_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.MaxConcurrent = n
		}
	}

	// Defaults
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = []string{"SPX500"}
	}
	if cfg.DataSource.BacktestSymbol == "" {
		cfg.DataSource.BacktestSymbol = cfg.DataSource.Symbols[0]
	}
	if cfg.DataSource.RequestsPerSec == 0 {
		cfg.DataSource.RequestsPerSec = 2
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.BacktestCron == "" {
		cfg.Schedule.BacktestCron = "0 0 9 * * 6"
	}
	if cfg.Detector.Rule == "" {
		cfg.Detector.Rule = "weighted"
	}
	if cfg.Detector.WeightedChangeThreshold == 0 {
		cfg.Detector.WeightedChangeThreshold = -0.5
	}
	if cfg.Classifier.TimeWindowSessions == 0 {
		cfg.Classifier.TimeWindowSessions = 25
	}
	if cfg.Classifier.RecentWindowSessions == 0 {
		cfg.Classifier.RecentWindowSessions = 10
	}
	if cfg.Classifier.PriceExpirationRatio == 0 {
		cfg.Classifier.PriceExpirationRatio = 1.05
	}
	if cfg.Backtest.TrailingWindow == 0 {
		cfg.Backtest.TrailingWindow = 12
	}
	if cfg.Backtest.CashAnnualRate == 0 {
		cfg.Backtest.CashAnnualRate = 0.03
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trend_guard.db"
	}
	if cfg.Scan.MaxConcurrent == 0 {
		cfg.Scan.MaxConcurrent = 4
	}
	if cfg.Scan.LookbackDays == 0 {
		cfg.Scan.LookbackDays = 400
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if c.Detector.Rule != "weighted" && c.Detector.Rule != "classic" {
		return fmt.Errorf("detector.rule must be weighted or classic, got %q", c.Detector.Rule)
	}
	if c.Scan.MaxConcurrent < 1 {
		return fmt.Errorf("scan.max_concurrent must be at least 1")
	}
	return nil
}
