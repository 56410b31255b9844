package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nameforge/nameforge/config"
	"github.com/nameforge/nameforge/registrar"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *registrar.Client

	appVersion = "dev"
	buildTime  = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nameforge",
	Short: "MCP server for registering domains with crypto payments",
	Long: `nameforge exposes a domain registrar to MCP-capable agents. Searches
and availability checks are free; registration and DNS changes are paid
per request from the configured wallet using the x402 protocol.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion records the build metadata injected via ldflags.
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
	rootCmd.Version = version
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and the registrar client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = registrar.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create registrar client: %w", err)
	}

	if cfg.HasWallet() {
		logger.Debug().Str("address", client.WalletAddress()).Msg("Wallet loaded")
	} else {
		logger.Debug().Msg("No wallet configured, paid operations disabled")
	}

	return nil
}

// setupLogger configures the zerolog logger. Everything goes to stderr
// because stdout belongs to the MCP transport when serving.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
