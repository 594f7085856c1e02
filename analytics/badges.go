package analytics

import (
	"time"

	"github.com/rustyeddy/tradelog/journal"
)

// Badge is one gamification achievement with progress toward its target.
type Badge struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Earned      bool    `json:"earned"`
	Progress    float64 `json:"progress"`
	Target      float64 `json:"target"`
}

// EvaluateBadges computes the badge set from closed trades and journal
// notes.
func EvaluateBadges(trades []journal.Trade, notes []journal.Note) []Badge {
	s := Compute(trades)

	noteDays := map[time.Time]bool{}
	for _, n := range notes {
		noteDays[n.Date.UTC().Truncate(24*time.Hour)] = true
	}

	greenWeeks := countGreenWeeks(trades)
	greenMonths := countGreenMonths(trades)

	pf := 0.0
	if s.ProfitFactor != nil {
		pf = *s.ProfitFactor
	}

	badges := []Badge{
		badge("first-trade", "First Trade", "Log your first closed trade",
			float64(s.TotalTrades), 1),
		badge("ten-trades", "Getting Serious", "Log 10 closed trades",
			float64(s.TotalTrades), 10),
		badge("fifty-trades", "Journal Veteran", "Log 50 closed trades",
			float64(s.TotalTrades), 50),
		badge("hot-streak", "Hot Streak", "Win 3 trades in a row",
			float64(s.LongestWinStreak), 3),
		badge("green-week", "Green Week", "Finish a week with positive P&L",
			float64(greenWeeks), 1),
		badge("green-month", "Green Month", "Finish a month with positive P&L",
			float64(greenMonths), 1),
		badge("profit-machine", "Profit Machine", "Profit factor of 2 or better over 10+ trades",
			profitMachineProgress(pf, s.TotalTrades), 1),
		badge("journaling-habit", "Journaling Habit", "Write notes on 5 different days",
			float64(len(noteDays)), 5),
	}
	return badges
}

func badge(id, name, desc string, progress, target float64) Badge {
	if progress > target {
		progress = target
	}
	return Badge{
		ID:          id,
		Name:        name,
		Description: desc,
		Earned:      progress >= target,
		Progress:    progress,
		Target:      target,
	}
}

func profitMachineProgress(pf float64, trades int) float64 {
	if trades >= 10 && pf >= 2 {
		return 1
	}
	return 0
}

// countGreenWeeks counts ISO weeks whose realized P&L sums positive.
func countGreenWeeks(trades []journal.Trade) int {
	type week struct{ year, week int }

	totals := map[week]float64{}
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		y, w := t.ExitTime.UTC().ISOWeek()
		totals[week{y, w}] += *t.PnL
	}

	n := 0
	for _, pnl := range totals {
		if pnl > 0 {
			n++
		}
	}
	return n
}

// countGreenMonths counts calendar months whose realized P&L sums positive.
func countGreenMonths(trades []journal.Trade) int {
	type month struct {
		year int
		m    time.Month
	}

	totals := map[month]float64{}
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		exit := t.ExitTime.UTC()
		totals[month{exit.Year(), exit.Month()}] += *t.PnL
	}

	n := 0
	for _, pnl := range totals {
		if pnl > 0 {
			n++
		}
	}
	return n
}
