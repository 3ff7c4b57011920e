package backtest

import (
	"math"

	"TrendGuard/internal/model"
	"TrendGuard/internal/series"
)

// assemble builds the equity curves and comparative metrics from the finished
// observation sequence.
func assemble(obs []model.MonthlyObservation, cfg Config) (*model.BacktestResult, error) {
	benchmark := make([]float64, len(obs))
	strategy := make([]float64, len(obs))
	benchRets := make([]float64, len(obs))
	stratRets := make([]float64, len(obs))

	equityB, equityS := 1.0, 1.0
	invested := 0
	for i, o := range obs {
		equityB *= 1 + o.PeriodReturn
		equityS *= 1 + o.StrategyReturn
		benchmark[i] = equityB
		strategy[i] = equityS
		benchRets[i] = o.PeriodReturn
		stratRets[i] = o.StrategyReturn
		if o.Position {
			invested++
		}
	}

	cagrB, err := series.CAGR(benchmark, len(obs), cfg.PeriodsPerYear)
	if err != nil {
		return nil, err
	}
	cagrS, err := series.CAGR(strategy, len(obs), cfg.PeriodsPerYear)
	if err != nil {
		return nil, err
	}

	ddB := series.MaxDrawdown(benchmark)
	ddS := series.MaxDrawdown(strategy)
	ddReduction := 0.0
	if ddB != 0 {
		ddReduction = (ddB - ddS) / math.Abs(ddB)
	}

	return &model.BacktestResult{
		Observations:   obs,
		BenchmarkCurve: benchmark,
		StrategyCurve:  strategy,
		Metrics: model.BacktestMetrics{
			CAGRBenchmark:        cagrB,
			CAGRStrategy:         cagrS,
			MaxDrawdownBenchmark: ddB,
			MaxDrawdownStrategy:  ddS,
			DrawdownReduction:    ddReduction,
			TimeInvested:         float64(invested) / float64(len(obs)),
			SharpeBenchmark:      series.Sharpe(benchRets, cfg.CashAnnualRate, cfg.PeriodsPerYear),
			SharpeStrategy:       series.Sharpe(stratRets, cfg.CashAnnualRate, cfg.PeriodsPerYear),
			StartDate:            obs[0].PeriodEnd,
			EndDate:              obs[len(obs)-1].PeriodEnd,
			TotalPeriods:         len(obs),
		},
	}, nil
}
