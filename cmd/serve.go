package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nameforge/nameforge/tools"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start the MCP server on stdin/stdout. This is the mode an agent host
launches; logs go to stderr so they never corrupt the protocol stream.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info().
		Str("version", appVersion).
		Str("api_url", cfg.API.URL).
		Bool("wallet", cfg.HasWallet()).
		Msg("Starting MCP server")

	s := tools.NewServer(client, logger, appVersion)
	if err := tools.ServeStdio(s); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}
