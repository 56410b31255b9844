package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nameforge/nameforge/config"
	"github.com/nameforge/nameforge/wallet"
	"github.com/nameforge/nameforge/x402"
)

// Timing policy. The poll interval and budget are part of the API
// contract with the provisioning backend; don't change them casually.
const (
	defaultRequestTimeout = 30 * time.Second
	defaultPollInterval   = 2 * time.Second
	defaultPollTimeout    = 5 * time.Minute
	tokenExpiryMargin     = 60 * time.Second
)

// Client wraps the nameforge registrar API.
type Client struct {
	baseURL    string
	network    string
	httpClient *http.Client
	wallet     *wallet.Wallet
	logger     zerolog.Logger

	session *tokenCache

	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewClient creates a new registrar client from a validated config.
// When a signing key is configured the transport is decorated with the
// x402 payment layer; if that decoration cannot be initialized the
// client logs a warning and keeps the plain transport, so free
// operations keep working and paid ones surface as explicit
// payment-required failures.
func NewClient(cfg *config.Config, logger zerolog.Logger, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:      strings.TrimRight(cfg.API.URL, "/"),
		network:      cfg.Wallet.Network,
		httpClient:   &http.Client{Timeout: defaultRequestTimeout},
		logger:       logger,
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}

	if cfg.HasWallet() {
		w, err := wallet.New(cfg.Wallet.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to derive wallet identity: %w", err)
		}
		client.wallet = w

		transport, err := x402.NewTransport(nil, w, cfg.Wallet.Network, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Payment layer unavailable, continuing with plain transport")
		} else {
			client.httpClient.Transport = transport
		}

		logger.Debug().Str("address", w.Address().Hex()).Msg("Wallet identity derived")
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// WalletAddress returns the hex address of the signing identity, or an
// empty string when no wallet is configured.
func (c *Client) WalletAddress() string {
	if c.wallet == nil {
		return ""
	}
	return c.wallet.Address().Hex()
}

// doRequest performs an HTTP request against the registrar API. Authed
// requests ensure a valid session first and attach the bearer header.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, payload any, authed bool) ([]byte, error) {
	if authed {
		if err := c.EnsureAuthenticated(ctx); err != nil {
			return nil, err
		}
	}

	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.AuthHeaders() {
		req.Header.Set(key, value)
	}

	c.logger.Trace().Str("method", method).Str("url", requestURL).Msg("Making registrar API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}
