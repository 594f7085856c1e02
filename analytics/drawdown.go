package analytics

import (
	"time"

	"github.com/rustyeddy/tradelog/journal"
)

// EquityPoint is one point on the cumulative equity curve.
type EquityPoint struct {
	Time   time.Time `json:"time"`
	Equity float64   `json:"equity"`
}

// EquityCurve folds closed trades (by exit time) into a running equity
// series starting at startBalance.
func EquityCurve(trades []journal.Trade, startBalance float64) []EquityPoint {
	closed := closedByExit(trades)

	out := make([]EquityPoint, 0, len(closed)+1)
	equity := startBalance
	for _, t := range closed {
		equity += *t.PnL
		out = append(out, EquityPoint{Time: *t.ExitTime, Equity: equity})
	}
	return out
}

// DrawdownMetrics describes drawdown over an equity curve.
type DrawdownMetrics struct {
	MaxDrawdown     float64 `json:"maxDrawdown"`     // fraction of peak, 0.25 = 25% off the peak
	CurrentDrawdown float64 `json:"currentDrawdown"` // fraction of peak at the last point
	PeakEquity      float64 `json:"peakEquity"`
	TroughEquity    float64 `json:"troughEquity"` // equity at the deepest point
}

// Drawdown computes drawdown metrics from an equity curve. Returns nil for
// curves with fewer than two points.
func Drawdown(curve []EquityPoint) *DrawdownMetrics {
	if len(curve) < 2 {
		return nil
	}

	m := &DrawdownMetrics{
		PeakEquity:   curve[0].Equity,
		TroughEquity: curve[0].Equity,
	}

	peak := curve[0].Equity
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (peak - p.Equity) / peak
			if dd > m.MaxDrawdown {
				m.MaxDrawdown = dd
				m.TroughEquity = p.Equity
			}
		}
		if peak > m.PeakEquity {
			m.PeakEquity = peak
		}
	}

	last := curve[len(curve)-1].Equity
	if m.PeakEquity > 0 {
		m.CurrentDrawdown = (m.PeakEquity - last) / m.PeakEquity
	}
	return m
}
