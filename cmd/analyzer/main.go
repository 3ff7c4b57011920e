package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TrendGuard/internal/backtest"
	"TrendGuard/internal/collector"
	"TrendGuard/internal/config"
	"TrendGuard/internal/distribution"
	"TrendGuard/internal/notifier"
	"TrendGuard/internal/recorder"
	"TrendGuard/internal/scheduler"
)

func main() {
	// .env is optional; real environment variables still apply.
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Msg("trend guard analyzer starting")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Init fetcher and collector
	fetcher := collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.RequestsPerSec)
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")
	col := collector.NewCollector(fetcher)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Analysis policy from config
	detCfg := distribution.DefaultDetectorConfig()
	detCfg.Rule = distribution.Rule(cfg.Detector.Rule)
	detCfg.WeightedChangeThreshold = cfg.Detector.WeightedChangeThreshold

	clsCfg := distribution.DefaultClassifierConfig()
	clsCfg.TimeWindowSessions = cfg.Classifier.TimeWindowSessions
	clsCfg.RecentWindowSessions = cfg.Classifier.RecentWindowSessions
	clsCfg.PriceExpirationRatio = cfg.Classifier.PriceExpirationRatio

	btCfg := backtest.DefaultConfig()
	btCfg.TrailingWindow = cfg.Backtest.TrailingWindow
	btCfg.CashAnnualRate = cfg.Backtest.CashAnnualRate

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, tn, rec, scheduler.Params{
		Symbols:        cfg.DataSource.Symbols,
		BacktestSymbol: cfg.DataSource.BacktestSymbol,
		LookbackDays:   cfg.Scan.LookbackDays,
		MaxConcurrent:  cfg.Scan.MaxConcurrent,
		Detector:       detCfg,
		Classifier:     clsCfg,
		Backtest:       btCfg,
	})
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.BacktestCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Info().Msg("trend guard analyzer is running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	log.Info().Msg("trend guard analyzer stopped")
}
