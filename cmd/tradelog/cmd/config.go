package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage tradelog configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  tradelog config init -o tradelog.yaml
  tradelog config validate -f tradelog.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "tradelog.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  tradelog serve --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Storage: %s (%s)\n", cfg.Storage.Type, cfg.Storage.Path)
	fmt.Printf("  Server:  port %d\n", cfg.Server.Port)
	if cfg.Import.DefaultPlatform != "" {
		fmt.Printf("  Import:  default platform %s\n", cfg.Import.DefaultPlatform)
	}
	return nil
}
