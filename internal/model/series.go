package model

import "time"

// PriceBar represents a single daily trading session.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries holds a daily series for one symbol, ascending by date.
// Gaps (weekends, holidays) are allowed and never interpolated.
type PriceSeries struct {
	Symbol    string     `json:"symbol"`
	Bars      []PriceBar `json:"bars"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Last returns the most recent bar. Callers must check Bars is non-empty.
func (s *PriceSeries) Last() PriceBar {
	return s.Bars[len(s.Bars)-1]
}
