package distribution

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"TrendGuard/internal/model"
)

func day(offset int) time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// sellOffBars builds the scenario where every session closes 1% lower on 10%
// higher volume than the last.
func sellOffBars(n int) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{
			Date:   day(i),
			Close:  100 * math.Pow(0.99, float64(i)),
			Volume: int64(1_000_000 * math.Pow(1.1, float64(i))),
		}
	}
	return bars
}

func TestIdentify_SteadySellOff(t *testing.T) {
	bars := sellOffBars(30)
	events, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 29 {
		t.Fatalf("expected every bar after the first to be an event, got %d", len(events))
	}
	for i, evt := range events {
		if !evt.Date.Equal(bars[i+1].Date) {
			t.Errorf("event %d: date %v does not match bar %v", i, evt.Date, bars[i+1].Date)
		}
		if math.Abs(evt.PercentChange - -1.0) > 1e-9 {
			t.Errorf("event %d: percent change %v, want -1.0", i, evt.PercentChange)
		}
		if evt.WeightedChange >= -0.5 {
			t.Errorf("event %d: weighted change %v should breach the threshold", i, evt.WeightedChange)
		}
	}
}

func TestIdentify_OutputIsSubsequence(t *testing.T) {
	bars := sellOffBars(30)
	// Break the sell-off in the middle so some bars don't qualify.
	bars[10].Close = bars[9].Close * 1.02
	bars[20].Volume = bars[19].Volume - 1

	events, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dates := make(map[time.Time]bool, len(bars))
	for _, b := range bars {
		dates[b.Date] = true
	}
	for _, evt := range events {
		if !dates[evt.Date] {
			t.Errorf("event date %v was fabricated, not in input", evt.Date)
		}
	}
	for i := 1; i < len(events); i++ {
		if !events[i].Date.After(events[i-1].Date) {
			t.Error("events must stay in input order")
		}
	}
}

func TestIdentify_TooFewBars(t *testing.T) {
	for _, bars := range [][]model.PriceBar{nil, sellOffBars(1)} {
		events, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("expected no events for %d bars", len(bars))
		}
	}
}

func TestIdentify_FirstBarNeverFlagged(t *testing.T) {
	// The first bar has extreme values that would qualify with any
	// predecessor; it must still produce nothing.
	bars := []model.PriceBar{
		{Date: day(0), Close: 1, Volume: 1},
		{Date: day(1), Close: 1.01, Volume: 1}, // up on flat volume, no event either
	}
	events, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, evt := range events {
		if evt.Date.Equal(bars[0].Date) {
			t.Error("first bar must never produce an event")
		}
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestIdentify_ZeroPreviousVolume(t *testing.T) {
	bars := []model.PriceBar{
		{Date: day(0), Close: 100, Volume: 0},
		{Date: day(1), Close: 99, Volume: 1000},
	}
	_, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError for zero previous volume, got %v", err)
	}
	if !domainErr.Date.Equal(day(1)) {
		t.Errorf("error should name the bar whose ratio is undefined, got %v", domainErr.Date)
	}
}

func TestIdentify_ThresholdIsStrict(t *testing.T) {
	// percentChange -0.5, volumeRatio 0.1 -> weightedChange exactly -0.55.
	bars := []model.PriceBar{
		{Date: day(0), Close: 100, Volume: 1000},
		{Date: day(1), Close: 99.5, Volume: 1100},
	}

	cfg := DefaultDetectorConfig()
	cfg.WeightedChangeThreshold = -0.55
	events, err := IdentifyDistributionDays(bars, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Error("weighted change equal to the threshold must not qualify")
	}

	cfg.WeightedChangeThreshold = -0.5
	events, err = IdentifyDistributionDays(bars, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Error("weighted change below the threshold must qualify")
	}
}

func TestIdentify_ClassicRule(t *testing.T) {
	bars := []model.PriceBar{
		{Date: day(0), Close: 100, Volume: 1000},
		{Date: day(1), Close: 99.9, Volume: 1001},  // tiny decline on rising volume
		{Date: day(2), Close: 100.5, Volume: 2000}, // up day
	}

	classic := DetectorConfig{Rule: RuleClassic}
	events, err := IdentifyDistributionDays(bars, classic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || !events[0].Date.Equal(day(1)) {
		t.Fatalf("classic rule should flag any decline on rising volume, got %v", events)
	}

	// The weighted rule ignores the same tiny decline.
	events, err = IdentifyDistributionDays(bars, DefaultDetectorConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("weighted rule should ignore a -0.1%% decline, got %d events", len(events))
	}
}

func TestIdentify_Idempotent(t *testing.T) {
	bars := sellOffBars(20)
	first, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("re-running the detector on identical input must yield identical output")
	}
}

func TestIdentify_RejectsUnorderedInput(t *testing.T) {
	bars := sellOffBars(5)
	bars[1], bars[3] = bars[3], bars[1]
	_, err := IdentifyDistributionDays(bars, DefaultDetectorConfig())
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError for unordered bars, got %v", err)
	}
}
