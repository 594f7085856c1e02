// Package analytics derives performance metrics, chart series and
// gamification state from closed trades. Open trades never contribute P&L.
package analytics

import (
	"sort"

	"github.com/rustyeddy/tradelog/journal"
)

// Summary aggregates closed-trade performance.
type Summary struct {
	TotalTrades int `json:"totalTrades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Scratches   int `json:"scratches"` // pnl exactly zero

	WinRate      float64  `json:"winRate"` // wins / (wins + losses)
	TotalPnL     float64  `json:"totalPnl"`
	GrossProfit  float64  `json:"grossProfit"`
	GrossLoss    float64  `json:"grossLoss"` // positive magnitude
	ProfitFactor *float64 `json:"profitFactor,omitempty"`
	Expectancy   float64  `json:"expectancy"` // average pnl per closed trade
	AvgWin       float64  `json:"avgWin"`
	AvgLoss      float64  `json:"avgLoss"` // negative
	LargestWin   float64  `json:"largestWin"`
	LargestLoss  float64  `json:"largestLoss"`

	CurrentStreak     int `json:"currentStreak"` // positive = wins, negative = losses
	LongestWinStreak  int `json:"longestWinStreak"`
	LongestLossStreak int `json:"longestLossStreak"`

	Sharpe *float64 `json:"sharpe,omitempty"` // annualized, over daily P&L
}

// closedByExit returns the closed trades ordered by exit time ascending.
func closedByExit(trades []journal.Trade) []journal.Trade {
	var out []journal.Trade
	for _, t := range trades {
		if t.Closed() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExitTime.Before(*out[j].ExitTime)
	})
	return out
}

// Compute builds the summary for a set of trades. Open trades are ignored.
func Compute(trades []journal.Trade) Summary {
	closed := closedByExit(trades)

	var s Summary
	s.TotalTrades = len(closed)

	var winStreak, lossStreak int
	for _, t := range closed {
		pnl := *t.PnL
		s.TotalPnL += pnl

		switch {
		case pnl > 0:
			s.Wins++
			s.GrossProfit += pnl
			if pnl > s.LargestWin {
				s.LargestWin = pnl
			}
			winStreak++
			lossStreak = 0
			if winStreak > s.LongestWinStreak {
				s.LongestWinStreak = winStreak
			}
		case pnl < 0:
			s.Losses++
			s.GrossLoss += -pnl
			if pnl < s.LargestLoss {
				s.LargestLoss = pnl
			}
			lossStreak++
			winStreak = 0
			if lossStreak > s.LongestLossStreak {
				s.LongestLossStreak = lossStreak
			}
		default:
			s.Scratches++
			winStreak = 0
			lossStreak = 0
		}
	}

	if winStreak > 0 {
		s.CurrentStreak = winStreak
	} else if lossStreak > 0 {
		s.CurrentStreak = -lossStreak
	}

	decided := s.Wins + s.Losses
	if decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided)
	}
	if s.GrossLoss > 0 {
		pf := s.GrossProfit / s.GrossLoss
		s.ProfitFactor = &pf
	}
	if s.TotalTrades > 0 {
		s.Expectancy = s.TotalPnL / float64(s.TotalTrades)
	}
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = -s.GrossLoss / float64(s.Losses)
	}

	daily := DailyPnL(closed)
	values := make([]float64, len(daily))
	for i, d := range daily {
		values[i] = d.PnL
	}
	s.Sharpe = SharpeRatio(values, 252)

	return s
}
