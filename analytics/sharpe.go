package analytics

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/tradelog/journal"
)

// DayPnL is the realized P&L for one calendar day (UTC, keyed by exit
// time of closed trades).
type DayPnL struct {
	Date   time.Time `json:"date"`
	PnL    float64   `json:"pnl"`
	Trades int       `json:"trades"`
}

// DailyPnL buckets closed trades by exit day and returns the buckets in
// date order.
func DailyPnL(trades []journal.Trade) []DayPnL {
	byDay := map[time.Time]*DayPnL{}
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		d := t.ExitTime.UTC().Truncate(24 * time.Hour)
		cell, ok := byDay[d]
		if !ok {
			cell = &DayPnL{Date: d}
			byDay[d] = cell
		}
		cell.PnL += *t.PnL
		cell.Trades++
	}

	out := make([]DayPnL, 0, len(byDay))
	for _, cell := range byDay {
		out = append(out, *cell)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// SharpeRatio computes an annualized Sharpe ratio over a series of daily
// P&L values (risk-free rate taken as zero for journal purposes). Returns
// nil with fewer than two data points or zero variance.
func SharpeRatio(dailyPnL []float64, periodsPerYear int) *float64 {
	if len(dailyPnL) < 2 {
		return nil
	}

	mean := stat.Mean(dailyPnL, nil)
	stdDev := stat.StdDev(dailyPnL, nil)
	if stdDev == 0 {
		return nil
	}

	sharpe := mean / stdDev * math.Sqrt(float64(periodsPerYear))
	return &sharpe
}
