package model

import "time"

// PressureTier classifies aggregate selling pressure.
type PressureTier string

const (
	// TierUnclassified is the sentinel for an empty input series. It is
	// distinct from TierHealthy: "no data" is not "no pressure".
	TierUnclassified     PressureTier = "UNCLASSIFIED"
	TierHealthy          PressureTier = "HEALTHY"
	TierModeratePressure PressureTier = "MODERATE_PRESSURE"
	TierHighPressure     PressureTier = "HIGH_PRESSURE"
)

// DistributionEvent is a session flagged as institutional selling: a declining
// close on rising volume relative to the previous session. An event exists
// only for bars with a defined predecessor.
type DistributionEvent struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
	// PercentChange is (close-prevClose)/prevClose*100.
	PercentChange float64 `json:"percent_change"`
	// VolumeChangeRatio is (volume-prevVolume)/prevVolume.
	VolumeChangeRatio float64 `json:"volume_change_ratio"`
	// WeightedChange is PercentChange scaled by (1+VolumeChangeRatio).
	WeightedChange float64 `json:"weighted_change"`
}

// MarketCondition aggregates the distribution events that survive expiration
// into a pressure tier. Recomputed per call, never updated incrementally.
type MarketCondition struct {
	ActiveEventCount    int          `json:"active_event_count"`
	RecentEventCount    int          `json:"recent_event_count"`
	TotalWeightedChange float64      `json:"total_weighted_change"`
	Tier                PressureTier `json:"tier"`
	Rationale           string       `json:"rationale"`
	ReferenceDate       time.Time    `json:"reference_date"`
	ReferenceClose      float64      `json:"reference_close"`
}
