package model

import "time"

// MonthlyObservation is one month-end sample of the resampled series.
// Position is the previous period's signal: the one-period execution lag that
// keeps the backtest free of look-ahead bias.
type MonthlyObservation struct {
	PeriodEnd       time.Time `json:"period_end"`
	Close           float64   `json:"close"`
	TrailingAverage float64   `json:"trailing_average"`
	Signal          bool      `json:"signal"`
	Position        bool      `json:"position"`
	PeriodReturn    float64   `json:"period_return"`
	StrategyReturn  float64   `json:"strategy_return"`
}

// BacktestMetrics compares the trend-following strategy against buy-and-hold.
// Drawdowns are negative fractions; TimeInvested is the fraction of periods
// with an open position.
type BacktestMetrics struct {
	CAGRBenchmark        float64   `json:"cagr_benchmark"`
	CAGRStrategy         float64   `json:"cagr_strategy"`
	MaxDrawdownBenchmark float64   `json:"max_drawdown_benchmark"`
	MaxDrawdownStrategy  float64   `json:"max_drawdown_strategy"`
	DrawdownReduction    float64   `json:"drawdown_reduction"`
	TimeInvested         float64   `json:"time_invested"`
	SharpeBenchmark      float64   `json:"sharpe_benchmark"`
	SharpeStrategy       float64   `json:"sharpe_strategy"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	TotalPeriods         int       `json:"total_periods"`
}

// BacktestResult packages one backtest run: the monthly observations, both
// equity curves (seeded at 1.0), and the comparative metrics. Immutable once
// produced.
type BacktestResult struct {
	Observations   []MonthlyObservation `json:"observations"`
	BenchmarkCurve []float64            `json:"benchmark_curve"`
	StrategyCurve  []float64            `json:"strategy_curve"`
	Metrics        BacktestMetrics      `json:"metrics"`
}
