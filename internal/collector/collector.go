package collector

import (
	"context"
	"fmt"
	"time"

	"TrendGuard/internal/model"
	"TrendGuard/internal/series"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.PriceBar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Bars) > days {
		return m.Bars[len(m.Bars)-days:], nil
	}
	return m.Bars, nil
}

// Collector retrieves and validates daily series before they reach the
// analytics core.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// CollectDaily fetches a validated daily series for the symbol. The returned
// series is strictly ascending by date; domain violations from the upstream
// feed surface here rather than inside the analytics.
func (c *Collector) CollectDaily(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", symbol, err)
	}
	if err := series.Validate(bars); err != nil {
		return nil, fmt.Errorf("validate %s series: %w", symbol, err)
	}
	for _, b := range bars {
		if b.Close <= 0 {
			return nil, &model.DomainError{Date: b.Date, Reason: "close must be positive"}
		}
		if b.Volume < 0 {
			return nil, &model.DomainError{Date: b.Date, Reason: "volume must be non-negative"}
		}
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}
