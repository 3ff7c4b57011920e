package backtest

import (
	"time"

	"TrendGuard/internal/model"
	"TrendGuard/internal/series"
)

// Config carries the trend-following policy constants.
type Config struct {
	// TrailingWindow is the trailing-average window in resampled periods.
	TrailingWindow int
	// CashAnnualRate is the annual yield accrued while out of the market.
	CashAnnualRate float64
	// PeriodsPerYear is the annualization factor for the resampled series.
	PeriodsPerYear float64
}

// DefaultConfig returns the standard policy: 12-month trailing average with a
// 3% cash rate.
func DefaultConfig() Config {
	return Config{
		TrailingWindow: 12,
		CashAnnualRate: 0.03,
		PeriodsPerYear: 12,
	}
}

type monthPoint struct {
	periodEnd time.Time
	close     float64
}

// Run resamples the daily series to month-end observations, applies the
// lagged trailing-average signal, and accounts benchmark and strategy equity
// curves. Deterministic: identical input and config produce identical output.
func Run(bars []model.PriceBar, cfg Config) (*model.BacktestResult, error) {
	if err := series.Validate(bars); err != nil {
		return nil, err
	}

	monthly := resampleMonthEnd(bars)

	// The first TrailingWindow-1 periods lack a full window; at least two
	// observations must remain after dropping them.
	if len(monthly) < cfg.TrailingWindow+1 {
		return nil, &model.InsufficientDataError{
			Needed: cfg.TrailingWindow + 1,
			Got:    len(monthly),
			Unit:   "monthly periods",
		}
	}

	obs := make([]model.MonthlyObservation, 0, len(monthly)-cfg.TrailingWindow+1)
	for i := cfg.TrailingWindow - 1; i < len(monthly); i++ {
		var sum float64
		for j := i - cfg.TrailingWindow + 1; j <= i; j++ {
			sum += monthly[j].close
		}
		avg := sum / float64(cfg.TrailingWindow)
		obs = append(obs, model.MonthlyObservation{
			PeriodEnd:       monthly[i].periodEnd,
			Close:           monthly[i].close,
			TrailingAverage: avg,
			Signal:          monthly[i].close > avg,
		})
	}

	// Position lags the signal by one period; the first observation has no
	// prior signal and is always out of the market.
	cashPerPeriod := cfg.CashAnnualRate / cfg.PeriodsPerYear
	for t := range obs {
		if t > 0 {
			obs[t].Position = obs[t-1].Signal
			obs[t].PeriodReturn = obs[t].Close/obs[t-1].Close - 1
		}
		if obs[t].Position {
			obs[t].StrategyReturn = obs[t].PeriodReturn
		} else {
			obs[t].StrategyReturn = cashPerPeriod
		}
	}

	return assemble(obs, cfg)
}

// resampleMonthEnd keeps the last daily close of each calendar month, labeled
// at the calendar month end. Only native daily data is used; nothing is
// forward-filled.
func resampleMonthEnd(bars []model.PriceBar) []monthPoint {
	var monthly []monthPoint
	for i, b := range bars {
		end := monthEnd(b.Date)
		if i+1 < len(bars) && monthEnd(bars[i+1].Date).Equal(end) {
			continue // a later bar in the same month supersedes this one
		}
		monthly = append(monthly, monthPoint{periodEnd: end, close: b.Close})
	}
	return monthly
}

func monthEnd(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
