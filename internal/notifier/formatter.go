package notifier

import (
	"fmt"
	"strings"

	"TrendGuard/internal/indicator"
	"TrendGuard/internal/model"
)

func tierLabel(tier model.PressureTier) string {
	switch tier {
	case model.TierHighPressure:
		return "🔴 High pressure"
	case model.TierModeratePressure:
		return "🟡 Moderate pressure"
	case model.TierHealthy:
		return "🟢 Healthy"
	default:
		return "⚪ Unclassified"
	}
}

// FormatConditionReport formats a distribution-day scan into a Telegram
// message. overlay may be nil when indicator history is insufficient.
func FormatConditionReport(symbol string, cond model.MarketCondition, events []model.DistributionEvent, overlay *indicator.Overlay) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Distribution Scan</b> | %s | %s\n\n",
		symbol, cond.ReferenceDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Close: %.2f\n", cond.ReferenceClose))
	b.WriteString(fmt.Sprintf("Condition: <b>%s</b>\n", tierLabel(cond.Tier)))
	b.WriteString(fmt.Sprintf("%s\n\n", cond.Rationale))

	if len(events) > 0 {
		b.WriteString("📉 <b>Distribution days:</b>\n")
		for _, evt := range events {
			b.WriteString(fmt.Sprintf("  %s: close %.2f, vol %d, weighted %+.2f%%\n",
				evt.Date.Format("2006-01-02"), evt.Close, evt.Volume, evt.WeightedChange))
		}
		b.WriteString("\n")
	}

	if overlay != nil {
		b.WriteString("📈 <b>Technical read:</b>\n")
		for _, line := range overlay.Narrative() {
			b.WriteString("  " + line + "\n")
		}
	}

	return b.String()
}

// FormatBacktestReport formats a trend-guard backtest result side by side with
// buy-and-hold.
func FormatBacktestReport(symbol string, res *model.BacktestResult) string {
	m := res.Metrics
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🛡 <b>Trend Guard Backtest</b> | %s\n", symbol))
	b.WriteString(fmt.Sprintf("Period: %s → %s (%d months)\n\n",
		m.StartDate.Format("2006-01-02"), m.EndDate.Format("2006-01-02"), m.TotalPeriods))

	b.WriteString("<b>Buy &amp; Hold:</b>\n")
	b.WriteString(fmt.Sprintf("  CAGR: %.2f%%\n", m.CAGRBenchmark*100))
	b.WriteString(fmt.Sprintf("  Max drawdown: %.2f%%\n", m.MaxDrawdownBenchmark*100))
	b.WriteString(fmt.Sprintf("  Sharpe: %.2f\n\n", m.SharpeBenchmark))

	b.WriteString("<b>12-Month Trend Guard:</b>\n")
	b.WriteString(fmt.Sprintf("  CAGR: %.2f%%\n", m.CAGRStrategy*100))
	b.WriteString(fmt.Sprintf("  Max drawdown: %.2f%%\n", m.MaxDrawdownStrategy*100))
	b.WriteString(fmt.Sprintf("  Sharpe: %.2f\n", m.SharpeStrategy))
	b.WriteString(fmt.Sprintf("  Time invested: %.1f%%\n\n", m.TimeInvested*100))

	b.WriteString(fmt.Sprintf("Drawdown reduction: <b>%.1f%%</b>\n", m.DrawdownReduction*100))

	return b.String()
}
