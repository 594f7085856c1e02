package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/pkg/id"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage journal accounts",
	Long: `List, add or remove the accounts trades are journaled under.

Examples:
  tradelog accounts list
  tradelog accounts add "Apex Eval" --balance 50000
  tradelog accounts rm 01J9X7K2M3`,
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE:  runAccountsList,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsAdd,
}

var accountsRmCmd = &cobra.Command{
	Use:   "rm <account-id>",
	Short: "Remove an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsRm,
}

var (
	accountBalance  float64
	accountCurrency string
)

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsRmCmd)

	accountsAddCmd.Flags().Float64Var(&accountBalance, "balance", 0, "starting balance for equity curves")
	accountsAddCmd.Flags().StringVar(&accountCurrency, "currency", "USD", "account currency")
}

func runAccountsList(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	accounts, err := store.ListAccounts()
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts. Add one with: tradelog accounts add <name>")
		return nil
	}
	for _, a := range accounts {
		fmt.Printf("%s  %-20s %10.2f %s\n", a.ID, a.Name, a.Balance, a.Currency)
	}
	return nil
}

func runAccountsAdd(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	a := journal.Account{
		ID:        id.New(),
		Name:      args[0],
		Currency:  accountCurrency,
		Balance:   accountBalance,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.PutAccount(a); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	fmt.Printf("✓ Added account %s (%s)\n", a.Name, a.ID)
	return nil
}

func runAccountsRm(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	if err := store.DeleteAccount(args[0]); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	fmt.Printf("✓ Removed account %s\n", args[0])
	return nil
}
