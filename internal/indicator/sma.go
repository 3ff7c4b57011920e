package indicator

import (
	"TrendGuard/internal/model"
	"TrendGuard/internal/series"
)

// SMA computes the simple moving average of the trailing period closes.
func SMA(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, &model.DomainError{Reason: "sma: period must be positive"}
	}
	if len(bars) < period {
		return 0, &model.InsufficientDataError{Needed: period, Got: len(bars), Unit: "bars"}
	}
	closes := series.Closes(bars)
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), nil
}
