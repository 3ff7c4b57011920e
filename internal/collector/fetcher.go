package collector

import (
	"context"

	"TrendGuard/internal/model"
)

// Fetcher defines the interface for retrieving daily price/volume history.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}
