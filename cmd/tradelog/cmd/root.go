package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/config"
	"github.com/rustyeddy/tradelog/journal"
)

var rootCmd = &cobra.Command{
	Use:   "tradelog",
	Short: "A personal trading journal with broker-import reconciliation",
	Long: `Tradelog is a personal trading journal written in Go.

It provides tools for:
  - Importing broker CSV exports (Tradovate, NinjaTrader, TradingView, IBKR)
  - Reconciling raw fills into round-trip trades with FIFO-style matching
  - Performance analytics: win rate, profit factor, Sharpe, drawdown, streaks
  - Serving a JSON API for the browser front end
  - Compressed backups of the journal database

Complete documentation is available at https://github.com/rustyeddy/tradelog`,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tradelog.yaml if present)")
}

// loadConfig returns the file config when one is given or found, the
// built-in defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	if cfg, err := config.LoadFromFile("./tradelog.yaml"); err == nil {
		return cfg, nil
	}
	return config.Default(), nil
}

func openStore(cfg *config.Config) (journal.Store, error) {
	switch cfg.Storage.Type {
	case "sqlite":
		return journal.OpenSQLite(cfg.Storage.Path)
	default:
		return journal.OpenSnapshot(cfg.Storage.Path)
	}
}

func closeStore(s journal.Store) {
	if err := s.Close(); err != nil {
		fmt.Println("close store:", err)
	}
}
