package distribution

import (
	"fmt"
	"time"

	"TrendGuard/internal/model"
)

// ClassifierConfig carries the IBD-style expiration windows and severity
// breakpoints.
type ClassifierConfig struct {
	// TimeWindowSessions is the lookback beyond which events stop counting.
	TimeWindowSessions int
	// RecentWindowSessions is the shorter lookback for the recency count.
	RecentWindowSessions int
	// PriceExpirationRatio expires an event once the current close has rallied
	// above event close multiplied by this ratio.
	PriceExpirationRatio float64

	HighActiveCount     int
	HighRecentCount     int
	HighWeightedSum     float64
	ModerateActiveCount int
	ModerateRecentCount int
	ModerateWeightedSum float64
}

// DefaultClassifierConfig returns the standard policy: 25/10-session windows,
// 5% price expiration, 6/4/-10 and 4/3/-5 breakpoints.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		TimeWindowSessions:   25,
		RecentWindowSessions: 10,
		PriceExpirationRatio: 1.05,
		HighActiveCount:      6,
		HighRecentCount:      4,
		HighWeightedSum:      -10,
		ModerateActiveCount:  4,
		ModerateRecentCount:  3,
		ModerateWeightedSum:  -5,
	}
}

// AnalyzeMarketCondition expires the detected events by age and price action,
// then maps the surviving set to a pressure tier. The reference date and close
// are taken from the last bar of the series. An empty series yields the
// Unclassified sentinel rather than an error so presentation callers can
// degrade gracefully.
//
// Price expiration compares the current close against each event's close, so
// an event can expire purely because of later unrelated rallies. That is the
// intended model, not an accident.
func AnalyzeMarketCondition(bars []model.PriceBar, events []model.DistributionEvent, cfg ClassifierConfig) model.MarketCondition {
	if len(bars) == 0 {
		return model.MarketCondition{
			Tier:      model.TierUnclassified,
			Rationale: "insufficient data: empty price series",
		}
	}

	last := bars[len(bars)-1]
	timeCutoff := sessionCutoff(bars, cfg.TimeWindowSessions)
	recentCutoff := sessionCutoff(bars, cfg.RecentWindowSessions)

	cond := model.MarketCondition{
		ReferenceDate:  last.Date,
		ReferenceClose: last.Close,
	}
	for _, evt := range events {
		if evt.Date.Before(timeCutoff) {
			continue // aged out
		}
		if last.Close > evt.Close*cfg.PriceExpirationRatio {
			continue // the market rallied past the warning
		}
		cond.ActiveEventCount++
		cond.TotalWeightedChange += evt.WeightedChange
		if !evt.Date.Before(recentCutoff) {
			cond.RecentEventCount++
		}
	}

	switch {
	case cond.ActiveEventCount >= cfg.HighActiveCount ||
		cond.RecentEventCount >= cfg.HighRecentCount ||
		cond.TotalWeightedChange < cfg.HighWeightedSum:
		cond.Tier = model.TierHighPressure
	case cond.ActiveEventCount >= cfg.ModerateActiveCount ||
		cond.RecentEventCount >= cfg.ModerateRecentCount ||
		cond.TotalWeightedChange < cfg.ModerateWeightedSum:
		cond.Tier = model.TierModeratePressure
	default:
		cond.Tier = model.TierHealthy
	}
	cond.Rationale = rationale(cond, cfg)
	return cond
}

// sessionCutoff returns the date of the window-th bar from the end, or the
// earliest bar when the series is shorter than the window.
func sessionCutoff(bars []model.PriceBar, window int) time.Time {
	if window >= len(bars) {
		return bars[0].Date
	}
	return bars[len(bars)-window].Date
}

func rationale(c model.MarketCondition, cfg ClassifierConfig) string {
	counts := fmt.Sprintf("%d active, %d in last %d sessions, %.2f%% weighted decline",
		c.ActiveEventCount, c.RecentEventCount, cfg.RecentWindowSessions, c.TotalWeightedChange)
	switch c.Tier {
	case model.TierHighPressure:
		return fmt.Sprintf("High distribution-day count (%s). Market may be under significant pressure.", counts)
	case model.TierModeratePressure:
		return fmt.Sprintf("Moderate distribution-day count (%s). Market showing weakness.", counts)
	default:
		return fmt.Sprintf("Low distribution-day count (%s). Market appears relatively healthy.", counts)
	}
}
