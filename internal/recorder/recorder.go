package recorder

import "TrendGuard/internal/model"

// ConditionSnapshot holds one distribution scan for persistence.
type ConditionSnapshot struct {
	Symbol    string
	Condition model.MarketCondition
	Events    []model.DistributionEvent
}

// BacktestRecord holds one backtest run for persistence.
type BacktestRecord struct {
	Symbol string
	Result *model.BacktestResult
}

// Recorder persists analysis history.
type Recorder interface {
	RecordCondition(snap *ConditionSnapshot) error
	RecordBacktest(rec *BacktestRecord) error
	Close() error
}
