package distribution

import (
	"TrendGuard/internal/model"
	"TrendGuard/internal/series"
)

// Rule selects how a session qualifies as a distribution day.
type Rule string

const (
	// RuleWeighted flags sessions whose volume-weighted decline breaches the
	// threshold on rising volume.
	RuleWeighted Rule = "weighted"
	// RuleClassic flags any lower close on rising volume, the original
	// two-column filter without volume weighting.
	RuleClassic Rule = "classic"
)

// DetectorConfig carries the detection policy. Thresholds are passed
// explicitly so scenarios can be tested without patching globals.
type DetectorConfig struct {
	Rule                    Rule
	WeightedChangeThreshold float64
}

// DefaultDetectorConfig returns the standard policy: weighted rule with a
// -0.5% weighted-change cutoff.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Rule:                    RuleWeighted,
		WeightedChangeThreshold: -0.5,
	}
}

// IdentifyDistributionDays scans an ascending daily series and returns the
// ordered subsequence of sessions that qualify as distribution days under cfg.
// Fewer than two bars yield an empty result; the first bar has no predecessor
// and never produces an event. Pure function of the input window.
func IdentifyDistributionDays(bars []model.PriceBar, cfg DetectorConfig) ([]model.DistributionEvent, error) {
	if err := series.Validate(bars); err != nil {
		return nil, err
	}
	if len(bars) < 2 {
		return nil, nil
	}

	var events []model.DistributionEvent
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1], bars[i]
		if prev.Close == 0 {
			return nil, &model.DomainError{Date: cur.Date, Reason: "previous close is zero, percent change undefined"}
		}
		if prev.Volume == 0 {
			return nil, &model.DomainError{Date: cur.Date, Reason: "previous volume is zero, volume ratio undefined"}
		}

		percentChange := (cur.Close - prev.Close) / prev.Close * 100
		volumeRatio := float64(cur.Volume-prev.Volume) / float64(prev.Volume)
		weighted := percentChange * (1 + volumeRatio)

		var keep bool
		switch cfg.Rule {
		case RuleClassic:
			keep = cur.Close < prev.Close && cur.Volume > prev.Volume
		default:
			keep = weighted < cfg.WeightedChangeThreshold && cur.Volume > prev.Volume
		}
		if !keep {
			continue
		}

		events = append(events, model.DistributionEvent{
			Date:              cur.Date,
			Close:             cur.Close,
			Volume:            cur.Volume,
			PercentChange:     percentChange,
			VolumeChangeRatio: volumeRatio,
			WeightedChange:    weighted,
		})
	}
	return events, nil
}
