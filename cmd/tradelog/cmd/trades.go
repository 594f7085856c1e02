package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/journal"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Query journal trades",
	Long: `Query and display trades from the journal.

Subcommands:
  show   - Get details of a specific trade by ID
  today  - List trades entered today
  day    - List trades entered on a specific day
  list   - List trades, optionally filtered

Examples:
  tradelog trades show 01J9X7K2M3
  tradelog trades today
  tradelog trades day 2025-03-10
  tradelog trades list --account main --symbol NQZ4`,
}

var tradesShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesShow,
}

var tradesTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades entered today",
	Args:  cobra.NoArgs,
	RunE:  runTradesToday,
}

var tradesDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades entered on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesDay,
}

var tradesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades",
	Args:  cobra.NoArgs,
	RunE:  runTradesList,
}

var (
	tradesAccount string
	tradesSymbol  string
	tradesClosed  bool
)

func init() {
	rootCmd.AddCommand(tradesCmd)
	tradesCmd.AddCommand(tradesShowCmd)
	tradesCmd.AddCommand(tradesTodayCmd)
	tradesCmd.AddCommand(tradesDayCmd)
	tradesCmd.AddCommand(tradesListCmd)

	tradesCmd.PersistentFlags().StringVarP(&tradesAccount, "account", "a", "", "filter by account ID")
	tradesListCmd.Flags().StringVar(&tradesSymbol, "symbol", "", "filter by symbol")
	tradesListCmd.Flags().BoolVar(&tradesClosed, "closed", false, "closed trades only")
}

func runTradesShow(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	t, err := store.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(t))
	return nil
}

func runTradesToday(cmd *cobra.Command, args []string) error {
	return listTradesForDay(time.Now().In(time.Local).Format("2006-01-02"))
}

func runTradesDay(cmd *cobra.Command, args []string) error {
	return listTradesForDay(args[0])
}

func listTradesForDay(day string) error {
	start, end, err := journal.DayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	trades, err := store.ListTrades(journal.TradeFilter{
		AccountID: tradesAccount,
		From:      start,
		To:        end,
	})
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Println(journal.FormatTradesOrg(trades))
	return nil
}

func runTradesList(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	trades, err := store.ListTrades(journal.TradeFilter{
		AccountID:  tradesAccount,
		Symbol:     tradesSymbol,
		ClosedOnly: tradesClosed,
	})
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Println(journal.FormatTradesOrg(trades))
	return nil
}

func openConfiguredStore() (journal.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}
