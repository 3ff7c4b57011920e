package distribution

import (
	"strings"
	"testing"

	"TrendGuard/internal/model"
)

// flatBars builds n sessions at a constant close so price expiration never
// fires (the market never rallies above any event's level).
func flatBars(n int) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{Date: day(i), Close: 100, Volume: 1_000_000}
	}
	return bars
}

func eventAt(offset int, close, weighted float64) model.DistributionEvent {
	return model.DistributionEvent{Date: day(offset), Close: close, WeightedChange: weighted}
}

func tierRank(tier model.PressureTier) int {
	switch tier {
	case model.TierHealthy:
		return 0
	case model.TierModeratePressure:
		return 1
	case model.TierHighPressure:
		return 2
	default:
		return -1
	}
}

func TestAnalyze_EmptySeriesSentinel(t *testing.T) {
	cond := AnalyzeMarketCondition(nil, nil, DefaultClassifierConfig())
	if cond.Tier != model.TierUnclassified {
		t.Errorf("empty series must yield the sentinel tier, got %v", cond.Tier)
	}
	if cond.Tier == model.TierHealthy {
		t.Error("sentinel must be distinct from Healthy")
	}
	if cond.ActiveEventCount != 0 || cond.RecentEventCount != 0 || cond.TotalWeightedChange != 0 {
		t.Error("sentinel condition must carry zero counts")
	}
}

func TestAnalyze_SteadySellOffEscalates(t *testing.T) {
	bars := sellOffBars(30)
	events, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cond := AnalyzeMarketCondition(bars, events, DefaultClassifierConfig())

	// 25-session cutoff is bars[5]; events exist for bars 1..29, so 25 stay
	// active. The market keeps falling, so no price expiration.
	if cond.ActiveEventCount != 25 {
		t.Errorf("active count = %d, want 25", cond.ActiveEventCount)
	}
	if cond.RecentEventCount != 10 {
		t.Errorf("recent count = %d, want 10", cond.RecentEventCount)
	}
	if cond.Tier != model.TierHighPressure {
		t.Errorf("tier = %v, want HighPressure", cond.Tier)
	}
}

func TestAnalyze_TimeExpiration(t *testing.T) {
	bars := flatBars(40)
	// 25-session cutoff is bars[15]; 10-session cutoff is bars[30].
	events := []model.DistributionEvent{
		eventAt(2, 100, -1),  // aged out
		eventAt(10, 100, -1), // aged out
		eventAt(16, 100, -1),
		eventAt(20, 100, -1),
		eventAt(31, 100, -1), // also recent
	}
	cond := AnalyzeMarketCondition(bars, events, DefaultClassifierConfig())
	if cond.ActiveEventCount != 3 {
		t.Errorf("active count = %d, want 3 (two events aged out)", cond.ActiveEventCount)
	}
	if cond.RecentEventCount != 1 {
		t.Errorf("recent count = %d, want 1", cond.RecentEventCount)
	}
	if cond.TotalWeightedChange != -3 {
		t.Errorf("weighted sum = %v, want -3 (expired events excluded)", cond.TotalWeightedChange)
	}
}

func TestAnalyze_CutoffWithShortSeries(t *testing.T) {
	// Fewer bars than the window: the cutoff falls back to the earliest bar
	// and nothing ages out.
	bars := flatBars(5)
	events := []model.DistributionEvent{eventAt(0, 100, -1), eventAt(4, 100, -1)}
	cond := AnalyzeMarketCondition(bars, events, DefaultClassifierConfig())
	if cond.ActiveEventCount != 2 {
		t.Errorf("active count = %d, want 2", cond.ActiveEventCount)
	}
}

func TestAnalyze_PriceExpiration(t *testing.T) {
	bars := flatBars(20) // current close 100
	events := []model.DistributionEvent{
		eventAt(12, 90, -2), // 100 > 94.5: rally of more than 5%, expired
		eventAt(14, 96, -2), // 100 < 100.8: still active
	}
	cond := AnalyzeMarketCondition(bars, events, DefaultClassifierConfig())
	if cond.ActiveEventCount != 1 {
		t.Errorf("active count = %d, want 1 (rallied-past event expired)", cond.ActiveEventCount)
	}
	if cond.TotalWeightedChange != -2 {
		t.Errorf("weighted sum = %v, want -2", cond.TotalWeightedChange)
	}
}

func TestAnalyze_SeverityBreakpoints(t *testing.T) {
	bars := flatBars(40)
	tests := []struct {
		name    string
		active  int
		recent  int
		perEvt  float64
		want    model.PressureTier
	}{
		{"quiet market", 2, 0, -0.6, model.TierHealthy},
		{"four active", 4, 0, -0.6, model.TierModeratePressure},
		{"three recent", 3, 3, -0.6, model.TierModeratePressure},
		{"heavy weighted sum", 3, 0, -2.0, model.TierModeratePressure}, // sum -6 < -5
		{"six active", 6, 0, -0.6, model.TierHighPressure},
		{"four recent", 4, 4, -0.6, model.TierHighPressure},
		{"crushing weighted sum", 3, 0, -4.0, model.TierHighPressure}, // sum -12 < -10
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []model.DistributionEvent
			for i := 0; i < tt.active; i++ {
				offset := 16 + i // inside the 25-session window, before the 10-session one
				if i < tt.recent {
					offset = 30 + i // inside the 10-session window
				}
				events = append(events, eventAt(offset, 100, tt.perEvt))
			}
			cond := AnalyzeMarketCondition(bars, events, DefaultClassifierConfig())
			if cond.Tier != tt.want {
				t.Errorf("tier = %v, want %v (active=%d recent=%d sum=%v)",
					cond.Tier, tt.want, cond.ActiveEventCount, cond.RecentEventCount, cond.TotalWeightedChange)
			}
		})
	}
}

func TestAnalyze_WeightedSumMonotonicity(t *testing.T) {
	// Holding counts fixed, a more negative weighted sum must never lower
	// the tier.
	bars := flatBars(40)
	prevRank := -1
	for _, perEvt := range []float64{-0.5, -1.5, -2.0, -3.0, -4.0, -8.0} {
		events := []model.DistributionEvent{
			eventAt(20, 100, perEvt),
			eventAt(21, 100, perEvt),
			eventAt(22, 100, perEvt),
		}
		cond := AnalyzeMarketCondition(bars, events, DefaultClassifierConfig())
		rank := tierRank(cond.Tier)
		if rank < prevRank {
			t.Fatalf("tier degraded from rank %d to %d as the weighted sum worsened (%v)",
				prevRank, rank, cond.TotalWeightedChange)
		}
		prevRank = rank
	}
}

func TestAnalyze_RationaleCarriesTheNumbers(t *testing.T) {
	bars := flatBars(40)
	events := []model.DistributionEvent{
		eventAt(20, 100, -1), eventAt(21, 100, -1),
		eventAt(30, 100, -1), eventAt(31, 100, -1),
	}
	cond := AnalyzeMarketCondition(bars, events, DefaultClassifierConfig())
	if !strings.Contains(cond.Rationale, "4 active") {
		t.Errorf("rationale should mention the active count: %q", cond.Rationale)
	}
	if !strings.Contains(cond.Rationale, "last 10 sessions") {
		t.Errorf("rationale should mention the recency window: %q", cond.Rationale)
	}
}

func TestAnalyze_ReferenceFromLastBar(t *testing.T) {
	bars := flatBars(10)
	bars[9].Close = 123.45
	cond := AnalyzeMarketCondition(bars, nil, DefaultClassifierConfig())
	if !cond.ReferenceDate.Equal(bars[9].Date) || cond.ReferenceClose != 123.45 {
		t.Errorf("reference must come from the last bar, got %v @ %v", cond.ReferenceClose, cond.ReferenceDate)
	}
	if cond.Tier != model.TierHealthy {
		t.Errorf("no events must classify as Healthy, got %v", cond.Tier)
	}
}
