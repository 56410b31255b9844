package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nameforge/nameforge/registrar"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <domain>...",
	Short: "Check domain availability from the terminal",
	Long: `Check whether one or more domains are available for registration.
Availability checks are free and require no wallet.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	for _, domain := range args {
		availability, err := client.CheckAvailability(ctx, domain)
		if err != nil {
			fmt.Printf("%s: %s\n", domain, registrar.Classify(err).Message)
			continue
		}

		status := "taken"
		if availability.Available {
			status = "available"
			if availability.Premium {
				status = "available (premium)"
			}
			if availability.Price != "" {
				status += fmt.Sprintf(", %s USDC/year", availability.Price)
			}
		}
		fmt.Printf("%s: %s\n", domain, status)
	}

	return nil
}
