package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/journal"
)

var backupCmd = &cobra.Command{
	Use:   "backup [dest.xz]",
	Short: "Write a compressed backup of the journal database",
	Long: `Compress the journal database with xz and write it to the given
path. Without an argument a timestamped file is written to the
configured backup directory.

Examples:
  tradelog backup
  tradelog backup /mnt/nas/tradelog-2025-03-10.xz`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup.xz>",
	Short: "Restore the journal database from a backup",
	Long: `Decompress a backup and replace the journal database with it.
The current database file is overwritten.

Example:
  tradelog restore backups/tradelog-20250310-220000.xz`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dst := ""
	if len(args) == 1 {
		dst = args[0]
	} else {
		if err := os.MkdirAll(cfg.Backup.Dir, 0o755); err != nil {
			return fmt.Errorf("backup dir: %w", err)
		}
		dst = filepath.Join(cfg.Backup.Dir,
			fmt.Sprintf("tradelog-%s.xz", time.Now().Format("20060102-150405")))
	}

	if err := journal.Backup(cfg.Storage.Path, dst); err != nil {
		return fmt.Errorf("backup: %w", err)
	}

	fmt.Printf("✓ Backup written: %s\n", dst)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := journal.Restore(args[0], cfg.Storage.Path); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	fmt.Printf("✓ Restored %s from %s\n", cfg.Storage.Path, args[0])
	return nil
}
