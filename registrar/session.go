package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// tokenCache holds the session tokens issued by the verification
// endpoint. It lives only in process memory and is discarded whole
// whenever a refresh attempt fails.
type tokenCache struct {
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// EnsureAuthenticated makes sure a valid session token is cached,
// running the challenge-response flow or a refresh as needed. With a
// valid cached token this returns without any network activity.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	if c.wallet == nil {
		return ErrNoWallet
	}

	if c.session != nil {
		if time.Now().Before(c.session.expiresAt) {
			return nil
		}

		if err := c.refreshSession(ctx); err == nil {
			return nil
		}
		// refreshSession discarded the cache; fall through to the full flow.
		c.logger.Debug().Msg("Token refresh failed, re-running full authentication")
	}

	return c.authenticate(ctx)
}

// AuthHeaders returns the bearer header for the cached session, or an
// empty set when unauthenticated. Pure read, never touches the network.
func (c *Client) AuthHeaders() map[string]string {
	if c.session == nil {
		return map[string]string{}
	}
	return map[string]string{
		"Authorization": "Bearer " + c.session.accessToken,
	}
}

// authenticate runs the full challenge-response flow: fetch a nonce
// scoped to the wallet address, sign the sign-in message, and exchange
// the signature for a token pair.
func (c *Client) authenticate(ctx context.Context) error {
	address := c.wallet.Address().Hex()

	params := url.Values{"address": {address}}
	body, err := c.doRequest(ctx, http.MethodGet, "/auth/nonce", params, nil, false)
	if err != nil {
		return fmt.Errorf("%w: challenge request: %v", ErrAuthenticationFailed, err)
	}

	var challenge nonceResponse
	if err := json.Unmarshal(body, &challenge); err != nil {
		return fmt.Errorf("%w: invalid challenge response: %v", ErrAuthenticationFailed, err)
	}
	if challenge.Nonce == "" {
		return fmt.Errorf("%w: challenge response carried no nonce", ErrAuthenticationFailed)
	}
	c.fillChallengeDefaults(&challenge)

	message := buildSignInMessage(challenge.Domain, address, challenge.URI, challenge.ChainID, challenge.Nonce, time.Now())

	signature, err := c.wallet.SignMessage(message)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	body, err = c.doRequest(ctx, http.MethodPost, "/auth/verify", nil, verifyRequest{
		Message:   message,
		Signature: signature,
	}, false)
	if err != nil {
		return fmt.Errorf("%w: verification: %v", ErrAuthenticationFailed, err)
	}

	tokens, err := parseTokenResponse(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	c.session = tokens
	c.logger.Debug().
		Str("address", address).
		Time("expires_at", tokens.expiresAt).
		Msg("Authenticated with registrar")

	return nil
}

// refreshSession exchanges the cached refresh token for a new pair. Any
// failure discards the cache unconditionally so no stale state survives.
func (c *Client) refreshSession(ctx context.Context) error {
	refreshToken := c.session.refreshToken
	c.session = nil

	body, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", nil, refreshRequest{
		RefreshToken: refreshToken,
	}, false)
	if err != nil {
		return fmt.Errorf("%w: %v", errRefreshFailed, err)
	}

	tokens, err := parseTokenResponse(body)
	if err != nil {
		return fmt.Errorf("%w: %v", errRefreshFailed, err)
	}

	c.session = tokens
	c.logger.Debug().Time("expires_at", tokens.expiresAt).Msg("Session token refreshed")

	return nil
}

// parseTokenResponse builds a cache entry from a token grant. The expiry
// is pulled in by a safety margin so tokens are renewed before the
// server would reject them.
func parseTokenResponse(body []byte) (*tokenCache, error) {
	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("invalid token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("token response carried no access token")
	}

	lifetime := time.Duration(tokens.ExpiresIn) * time.Second

	return &tokenCache{
		accessToken:  tokens.AccessToken,
		refreshToken: tokens.RefreshToken,
		expiresAt:    time.Now().Add(lifetime - tokenExpiryMargin),
	}, nil
}

// fillChallengeDefaults derives the sign-in binding values the server
// left empty from the client's own configuration.
func (c *Client) fillChallengeDefaults(challenge *nonceResponse) {
	if challenge.Domain == "" {
		if u, err := url.Parse(c.baseURL); err == nil {
			challenge.Domain = u.Host
		}
	}
	if challenge.URI == "" {
		challenge.URI = c.baseURL
	}
	if challenge.ChainID == "" {
		if _, reference, ok := strings.Cut(c.network, ":"); ok {
			challenge.ChainID = reference
		}
	}
}
