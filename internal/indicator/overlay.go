package indicator

import (
	"fmt"

	"TrendGuard/internal/model"
)

// Overlay holds the display-only technical indicators computed alongside the
// distribution scan. It feeds narrative reports and never influences the
// detector, classifier, or backtest.
type Overlay struct {
	LastClose float64
	SMA50     float64
	SMA200    float64
	RSI       float64
}

// Compute builds the overlay from a daily series. Needs at least 200 bars for
// the long moving average.
func Compute(bars []model.PriceBar) (*Overlay, error) {
	if len(bars) == 0 {
		return nil, &model.InsufficientDataError{Needed: 200, Got: 0, Unit: "bars"}
	}
	sma50, err := SMA(bars, 50)
	if err != nil {
		return nil, err
	}
	sma200, err := SMA(bars, 200)
	if err != nil {
		return nil, err
	}
	rsi, err := RSI(bars, 14)
	if err != nil {
		return nil, err
	}
	return &Overlay{
		LastClose: bars[len(bars)-1].Close,
		SMA50:     sma50,
		SMA200:    sma200,
		RSI:       rsi,
	}, nil
}

// Narrative returns the one-line trend and momentum readings.
func (o *Overlay) Narrative() []string {
	var lines []string

	switch {
	case o.LastClose > o.SMA50 && o.SMA50 > o.SMA200:
		lines = append(lines, "Price is above both 50-day and 200-day MAs, indicating a strong uptrend.")
	case o.LastClose < o.SMA50 && o.SMA50 < o.SMA200:
		lines = append(lines, "Price is below both 50-day and 200-day MAs, indicating a strong downtrend.")
	case o.SMA50 > o.SMA200:
		lines = append(lines, "50-day MA is above 200-day MA, suggesting a bullish trend.")
	default:
		lines = append(lines, "50-day MA is below 200-day MA, suggesting a bearish trend.")
	}

	switch {
	case o.RSI > 70:
		lines = append(lines, fmt.Sprintf("RSI is overbought at %.2f. Consider potential exit or correction.", o.RSI))
	case o.RSI < 30:
		lines = append(lines, fmt.Sprintf("RSI is oversold at %.2f. Consider potential entry or bounce.", o.RSI))
	default:
		lines = append(lines, fmt.Sprintf("RSI is neutral at %.2f.", o.RSI))
	}

	return lines
}
