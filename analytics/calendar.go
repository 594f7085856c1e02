package analytics

import (
	"time"

	"github.com/rustyeddy/tradelog/journal"
)

// DayCell is one calendar cell. Blank leading cells (weekday alignment)
// have Day == 0.
type DayCell struct {
	Day    int     `json:"day"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

// MonthGrid shapes one month of daily P&L into a calendar grid: leading
// blanks so the first row starts on Sunday, then one cell per day.
func MonthGrid(trades []journal.Trade, year int, month time.Month) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	pnlByDay := map[int]*DayCell{}
	for _, d := range DailyPnL(trades) {
		if d.Date.Year() == year && d.Date.Month() == month {
			day := d.Date.Day()
			pnlByDay[day] = &DayCell{Day: day, PnL: d.PnL, Trades: d.Trades}
		}
	}

	grid := make([]DayCell, 0, 31+6)
	for i := 0; i < int(first.Weekday()); i++ {
		grid = append(grid, DayCell{})
	}
	for day := 1; day <= daysInMonth; day++ {
		if cell, ok := pnlByDay[day]; ok {
			grid = append(grid, *cell)
		} else {
			grid = append(grid, DayCell{Day: day})
		}
	}
	return grid
}

// SeriesPoint is a generic chart point.
type SeriesPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// CumulativePnL shapes closed trades into a running-total P&L series.
func CumulativePnL(trades []journal.Trade) []SeriesPoint {
	closed := closedByExit(trades)

	out := make([]SeriesPoint, 0, len(closed))
	var total float64
	for _, t := range closed {
		total += *t.PnL
		out = append(out, SeriesPoint{Time: *t.ExitTime, Value: total})
	}
	return out
}

// PnLBySymbol buckets realized P&L per symbol.
func PnLBySymbol(trades []journal.Trade) map[string]float64 {
	out := map[string]float64{}
	for _, t := range trades {
		if t.Closed() {
			out[t.Symbol] += *t.PnL
		}
	}
	return out
}

// PnLByWeekday buckets realized P&L by exit weekday (Sunday = 0).
func PnLByWeekday(trades []journal.Trade) [7]float64 {
	var out [7]float64
	for _, t := range trades {
		if t.Closed() {
			out[int(t.ExitTime.UTC().Weekday())] += *t.PnL
		}
	}
	return out
}
