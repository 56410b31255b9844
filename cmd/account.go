package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the account bound to the configured wallet",
	Long: `Authenticate with the configured wallet and print the account details:
address, balance, and the number of registered domains.`,
	RunE: runAccount,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	account, err := client.GetAccount(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Address:  %s\n", account.Address)
	fmt.Printf("Balance:  %s USDC\n", account.Balance)
	fmt.Printf("Domains:  %d\n", account.DomainCount)
	if !account.CreatedAt.IsZero() {
		fmt.Printf("Since:    %s\n", account.CreatedAt.Format("2006-01-02"))
	}

	return nil
}
