package indicator

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"TrendGuard/internal/model"
)

func risingBars(n int, step float64) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.PriceBar{
			Date:   base.AddDate(0, 0, i),
			Close:  100 + step*float64(i),
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestSMA(t *testing.T) {
	bars := risingBars(10, 1) // closes 100..109
	got, err := SMA(bars, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 107.5; math.Abs(got-want) > 1e-12 { // mean of 106..109
		t.Errorf("SMA = %v, want %v", got, want)
	}
}

func TestSMA_Errors(t *testing.T) {
	bars := risingBars(10, 1)

	_, err := SMA(bars, 0)
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		t.Errorf("expected DomainError for zero period, got %v", err)
	}

	_, err = SMA(bars, 20)
	var insufficient *model.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Needed != 20 || insufficient.Got != 10 {
		t.Errorf("error should carry the shortfall, got %+v", insufficient)
	}
}

func TestRSI_NeutralOnShortInput(t *testing.T) {
	got, err := RSI(risingBars(10, 1), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 50.0 {
		t.Errorf("short input must default to neutral 50, got %v", got)
	}
}

func TestRSI_AllGains(t *testing.T) {
	got, err := RSI(risingBars(30, 1), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 100.0 {
		t.Errorf("a series with no down days must read 100, got %v", got)
	}
}

func TestRSI_Bounds(t *testing.T) {
	bars := risingBars(40, 0)
	for i := range bars {
		// Alternate gains and losses of different sizes.
		if i%2 == 0 {
			bars[i].Close = 100 + float64(i%5)
		} else {
			bars[i].Close = 98 - float64(i%3)
		}
	}
	got, err := RSI(bars, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < 0 || got > 100 {
		t.Errorf("RSI out of bounds: %v", got)
	}
}

func TestCompute_UptrendNarrative(t *testing.T) {
	overlay, err := Compute(risingBars(250, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overlay.SMA50 <= overlay.SMA200 {
		t.Errorf("rising closes must order the averages, got 50=%v 200=%v", overlay.SMA50, overlay.SMA200)
	}
	joined := strings.Join(overlay.Narrative(), "\n")
	if !strings.Contains(joined, "strong uptrend") {
		t.Errorf("narrative should call the uptrend: %q", joined)
	}
	if !strings.Contains(joined, "overbought") {
		t.Errorf("relentless gains should read overbought: %q", joined)
	}
}

func TestCompute_TooFewBars(t *testing.T) {
	var insufficient *model.InsufficientDataError
	if _, err := Compute(nil); !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientDataError for empty input, got %v", err)
	}
	if _, err := Compute(risingBars(100, 1)); !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientDataError for 100 bars, got %v", err)
	}
}
