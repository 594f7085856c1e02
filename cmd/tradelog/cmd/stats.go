package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/analytics"
	"github.com/rustyeddy/tradelog/journal"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print performance statistics",
	Long: `Compute performance statistics over the closed trades in the journal.

Examples:
  tradelog stats
  tradelog stats --account main --from 2025-03-01 --to 2025-03-31`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsAccount string
	statsFrom    string
	statsTo      string
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsAccount, "account", "a", "", "filter by account ID")
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "start day YYYY-MM-DD (inclusive)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "end day YYYY-MM-DD (inclusive)")
}

func runStats(cmd *cobra.Command, args []string) error {
	filter := journal.TradeFilter{AccountID: statsAccount}

	if statsFrom != "" {
		start, _, err := journal.DayBounds(time.Local, statsFrom)
		if err != nil {
			return fmt.Errorf("from: %w", err)
		}
		filter.From = start
	}
	if statsTo != "" {
		_, end, err := journal.DayBounds(time.Local, statsTo)
		if err != nil {
			return fmt.Errorf("to: %w", err)
		}
		filter.To = end
	}

	store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	trades, err := store.ListTrades(filter)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	s := analytics.Compute(trades)

	fmt.Println("=== Performance ===")
	fmt.Printf("Closed trades:  %d (%d wins / %d losses / %d scratches)\n",
		s.TotalTrades, s.Wins, s.Losses, s.Scratches)
	fmt.Printf("Win rate:       %.1f%%\n", s.WinRate*100)
	fmt.Printf("Total P&L:      %.2f\n", s.TotalPnL)
	if s.ProfitFactor != nil {
		fmt.Printf("Profit factor:  %.2f\n", *s.ProfitFactor)
	} else {
		fmt.Println("Profit factor:  n/a (no losing trades)")
	}
	fmt.Printf("Expectancy:     %.2f per trade\n", s.Expectancy)
	fmt.Printf("Avg win/loss:   %.2f / %.2f\n", s.AvgWin, s.AvgLoss)
	fmt.Printf("Largest:        %.2f / %.2f\n", s.LargestWin, s.LargestLoss)
	fmt.Printf("Streaks:        current %+d, best %d, worst %d\n",
		s.CurrentStreak, s.LongestWinStreak, s.LongestLossStreak)
	if s.Sharpe != nil {
		fmt.Printf("Sharpe (ann.):  %.2f\n", *s.Sharpe)
	}
	return nil
}
