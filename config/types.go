package config

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds registrar API connection details
type APIConfig struct {
	URL string `mapstructure:"url"`
}

// WalletConfig holds the signing identity and payment network.
// PrivateKey may be empty, in which case authenticated and paid
// operations are disabled for the lifetime of the client.
type WalletConfig struct {
	PrivateKey string `mapstructure:"private_key"`
	Network    string `mapstructure:"network"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// HasWallet reports whether a signing key was configured.
func (c *Config) HasWallet() bool {
	return c.Wallet.PrivateKey != ""
}
