package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

var (
	// CAIP-2 chain identifier: namespace:reference, e.g. "eip155:8453".
	networkPattern = regexp.MustCompile(`^[a-z0-9]+:[a-zA-Z0-9]+$`)

	// 0x-prefixed 32-byte hex secret.
	privateKeyPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// Load loads the configuration from environment variables and an
// optional config file. Validation happens before anything touches
// the network, so a malformed URL or key fails here instead of
// surfacing as a confusing signing or transport error later.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Environment variables take the NAMEFORGE_ prefix,
	// e.g. NAMEFORGE_API_URL, NAMEFORGE_WALLET_PRIVATE_KEY.
	v.SetEnvPrefix("nameforge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	} else {
		// Look for config in standard locations, but don't require one:
		// the environment alone is a complete configuration.
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".nameforge"))
		}
		v.AddConfigPath("/etc/nameforge/")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", "https://api.nameforge.io")

	// Wallet defaults (Base mainnet)
	v.SetDefault("wallet.network", "eip155:8453")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	u, err := url.Parse(cfg.API.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api.url must be an absolute URL: %q", cfg.API.URL)
	}

	if !networkPattern.MatchString(cfg.Wallet.Network) {
		return fmt.Errorf("wallet.network must be a namespace:reference chain identifier: %q", cfg.Wallet.Network)
	}

	if cfg.Wallet.PrivateKey != "" && !privateKeyPattern.MatchString(cfg.Wallet.PrivateKey) {
		return fmt.Errorf("wallet.private_key must be a 0x-prefixed 64-hex-digit string")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
