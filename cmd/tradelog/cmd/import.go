package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv|file.zip>",
	Short: "Import a broker CSV export into the journal",
	Long: `Import raw fills from a broker export and reconcile them into trades.

The whole file is validated before anything is written: a single bad row
rejects the import and the report lists what to fix.

Examples:
  tradelog import fills.csv --platform tradovate --account main
  tradelog import Orders.zip --platform ninjatrader --account eval-1`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importPlatform string
	importAccount  string
	importSource   string
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importPlatform, "platform", "p", "", "broker platform: "+strings.Join(platformNames(), ", "))
	importCmd.Flags().StringVarP(&importAccount, "account", "a", "", "account ID the trades belong to (required)")
	importCmd.Flags().StringVarP(&importSource, "source", "s", "", "source label to record instead of the platform name")
	importCmd.MarkFlagRequired("account")
}

func platformNames() []string {
	var names []string
	for _, p := range importer.Platforms() {
		names = append(names, string(p))
	}
	return names
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	platform := importPlatform
	if platform == "" {
		platform = cfg.Import.DefaultPlatform
	}
	if platform == "" {
		return fmt.Errorf("no platform given and no import.default_platform configured")
	}

	res, err := importer.ImportFile(args[0], importer.Request{
		Platform:   importer.Platform(platform),
		AccountID:  importAccount,
		SourceName: importSource,
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore(store)

	if err := store.UpsertTrades(res.Trades...); err != nil {
		return fmt.Errorf("save trades: %w", err)
	}

	fmt.Printf("✓ Imported %d trades (%d closed, %d open)\n", len(res.Trades), res.Closed, res.Open)
	fmt.Printf("  Batch: %s\n", res.BatchID)
	return nil
}
