package series

import (
	"math"

	"TrendGuard/internal/model"
)

// MaxDrawdown returns the largest peak-to-trough decline of an equity curve
// as a negative fraction (e.g. -0.552 for -55.2%). A monotonically
// non-decreasing curve, a single point, or an empty curve yields 0.
func MaxDrawdown(curve []float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0]
	maxDD := 0.0
	for _, v := range curve {
		if v > peak {
			peak = v
		}
		if dd := v/peak - 1; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// CAGR returns the compound annual growth rate implied by an equity curve
// spanning numPeriods periods.
func CAGR(curve []float64, numPeriods int, periodsPerYear float64) (float64, error) {
	if numPeriods <= 0 {
		return 0, &model.DomainError{Reason: "cagr: number of periods must be positive"}
	}
	if len(curve) == 0 {
		return 0, &model.DomainError{Reason: "cagr: empty equity curve"}
	}
	if curve[0] <= 0 {
		return 0, &model.DomainError{Reason: "cagr: equity curve must start above zero"}
	}
	return math.Pow(curve[len(curve)-1]/curve[0], periodsPerYear/float64(numPeriods)) - 1, nil
}

// Sharpe returns the annualized risk-adjusted return: mean excess return over
// its sample standard deviation, scaled by sqrt(periodsPerYear). A flat or
// degenerate series (zero standard deviation) yields 0 rather than dividing
// by zero, even when the mean excess return is nonzero.
func Sharpe(periodicReturns []float64, riskFreeAnnualRate, periodsPerYear float64) float64 {
	if len(periodicReturns) < 2 {
		return 0
	}
	perPeriodRate := riskFreeAnnualRate / periodsPerYear

	var sum float64
	for _, r := range periodicReturns {
		sum += r - perPeriodRate
	}
	mean := sum / float64(len(periodicReturns))

	var sumSquaredDiff float64
	for _, r := range periodicReturns {
		diff := (r - perPeriodRate) - mean
		sumSquaredDiff += diff * diff
	}
	stdDev := math.Sqrt(sumSquaredDiff / float64(len(periodicReturns)-1))
	if stdDev == 0 {
		return 0
	}
	return mean / stdDev * math.Sqrt(periodsPerYear)
}
