package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TrendGuard/internal/backtest"
	"TrendGuard/internal/collector"
	"TrendGuard/internal/distribution"
	"TrendGuard/internal/indicator"
	"TrendGuard/internal/notifier"
	"TrendGuard/internal/recorder"
)

// Params bundles the analysis policy and scan scope.
type Params struct {
	Symbols        []string
	BacktestSymbol string
	LookbackDays   int
	MaxConcurrent  int
	Detector       distribution.DetectorConfig
	Classifier     distribution.ClassifierConfig
	Backtest       backtest.Config
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Params    Params
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, tn *notifier.TelegramNotifier, rec recorder.Recorder, params Params) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Recorder:  rec,
		Params:    params,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily distribution scan and the backtest run.
func (s *Scheduler) RegisterAll(dailyCron, backtestCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyScan); err != nil {
		return fmt.Errorf("register daily scan: %w", err)
	}
	if _, err := s.Cron.AddFunc(backtestCron, s.backtestTask); err != nil {
		return fmt.Errorf("register backtest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunScanNow executes the daily scan immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.dailyScan()
}

// RunBacktestNow executes the backtest immediately.
func (s *Scheduler) RunBacktestNow() {
	s.backtestTask()
}

// dailyScan analyzes every configured symbol under a bounded number of
// concurrent workers. Symbols fail independently; one bad feed never aborts
// the rest of the scan.
func (s *Scheduler) dailyScan() {
	log.Info().Int("symbols", len(s.Params.Symbols)).Msg("running daily distribution scan")

	sem := make(chan struct{}, s.Params.MaxConcurrent)
	var wg sync.WaitGroup
	for _, symbol := range s.Params.Symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := s.scanSymbol(symbol); err != nil {
				log.Error().Err(err).Str("symbol", symbol).Msg("scan failed")
				s.trySend(fmt.Sprintf("❌ Scan failed for %s: %v", symbol, err))
			}
		}(symbol)
	}
	wg.Wait()
}

func (s *Scheduler) scanSymbol(symbol string) error {
	ps, err := s.Collector.CollectDaily(s.Ctx, symbol, s.Params.LookbackDays)
	if err != nil {
		return err
	}

	events, err := distribution.IdentifyDistributionDays(ps.Bars, s.Params.Detector)
	if err != nil {
		return err
	}
	cond := distribution.AnalyzeMarketCondition(ps.Bars, events, s.Params.Classifier)

	overlay, err := indicator.Compute(ps.Bars)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("indicator overlay unavailable")
		overlay = nil
	}

	s.trySend(notifier.FormatConditionReport(symbol, cond, events, overlay))

	if err := s.Recorder.RecordCondition(&recorder.ConditionSnapshot{
		Symbol:    symbol,
		Condition: cond,
		Events:    events,
	}); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("record condition")
	}
	return nil
}

func (s *Scheduler) backtestTask() {
	symbol := s.Params.BacktestSymbol
	log.Info().Str("symbol", symbol).Msg("running trend-guard backtest")

	// ~20 years of daily history for a meaningful long-horizon run.
	ps, err := s.Collector.CollectDaily(s.Ctx, symbol, 5200)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("backtest collect failed")
		s.trySend(fmt.Sprintf("❌ Backtest data fetch failed for %s: %v", symbol, err))
		return
	}

	result, err := backtest.Run(ps.Bars, s.Params.Backtest)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("backtest failed")
		s.trySend(fmt.Sprintf("❌ Backtest failed for %s: %v", symbol, err))
		return
	}

	s.trySend(notifier.FormatBacktestReport(symbol, result))

	if err := s.Recorder.RecordBacktest(&recorder.BacktestRecord{
		Symbol: symbol,
		Result: result,
	}); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("record backtest")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		go s.dailyScan()
		return "Scan started."
	case "/backtest":
		go s.backtestTask()
		return "Backtest started."
	default:
		return "Available commands:\n• /scan — run the distribution scan now\n• /backtest — run the trend-guard backtest now"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
