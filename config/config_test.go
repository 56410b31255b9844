package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			URL: "https://api.nameforge.io",
		},
		Wallet: WalletConfig{
			PrivateKey: "0xab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12",
			Network:    "eip155:8453",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing wallet key is allowed",
			mutate:  func(c *Config) { c.Wallet.PrivateKey = "" },
			wantErr: false,
		},
		{
			name:    "empty API URL",
			mutate:  func(c *Config) { c.API.URL = "" },
			wantErr: true,
		},
		{
			name:    "relative API URL",
			mutate:  func(c *Config) { c.API.URL = "/api/v1" },
			wantErr: true,
		},
		{
			name:    "URL without host",
			mutate:  func(c *Config) { c.API.URL = "https://" },
			wantErr: true,
		},
		{
			name:    "network missing reference",
			mutate:  func(c *Config) { c.Wallet.Network = "eip155" },
			wantErr: true,
		},
		{
			name:    "network with uppercase namespace",
			mutate:  func(c *Config) { c.Wallet.Network = "EIP155:8453" },
			wantErr: true,
		},
		{
			name:    "network with extra separator",
			mutate:  func(c *Config) { c.Wallet.Network = "eip155:8453:extra" },
			wantErr: true,
		},
		{
			name:    "solana style network",
			mutate:  func(c *Config) { c.Wallet.Network = "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp" },
			wantErr: false,
		},
		{
			name:    "private key without 0x prefix",
			mutate:  func(c *Config) { c.Wallet.PrivateKey = c.Wallet.PrivateKey[2:] },
			wantErr: true,
		},
		{
			name:    "private key too short",
			mutate:  func(c *Config) { c.Wallet.PrivateKey = "0xab12" },
			wantErr: true,
		},
		{
			name:    "private key with non-hex characters",
			mutate:  func(c *Config) { c.Wallet.PrivateKey = "0xzz12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12" },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasWallet(t *testing.T) {
	cfg := validConfig()
	if !cfg.HasWallet() {
		t.Error("expected HasWallet() to be true with a private key set")
	}

	cfg.Wallet.PrivateKey = ""
	if cfg.HasWallet() {
		t.Error("expected HasWallet() to be false without a private key")
	}
}
