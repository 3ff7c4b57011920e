package series

import (
	"TrendGuard/internal/model"
)

// Validate checks that the bars are strictly ascending by date with no
// duplicates. Returns a DomainError naming the first offending bar.
func Validate(bars []model.PriceBar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return &model.DomainError{
				Date:   bars[i].Date,
				Reason: "bars must be strictly ascending by date",
			}
		}
	}
	return nil
}

// Closes extracts the closing prices in order.
func Closes(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
