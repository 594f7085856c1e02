package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.csv]",
	Short: "Export trades as CSV",
	Long: `Write the journal's trades as CSV, to stdout or to a file.

Examples:
  tradelog export
  tradelog export trades.csv --account main`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var exportAccount string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportAccount, "account", "a", "", "filter by account ID")
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	trades, err := store.ListTrades(journal.TradeFilter{AccountID: exportAccount})
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	out := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := journal.ExportCSV(out, trades); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if len(args) == 1 {
		fmt.Printf("✓ Exported %d trades to %s\n", len(trades), args[0])
	}
	return nil
}
