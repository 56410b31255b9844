package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nameforge/nameforge/config"
)

const (
	testPrivateKey  = "0x0000000000000000000000000000000000000000000000000000000000000001"
	testWalletAddr  = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
	testAccessToken = "access-token-1"
)

// authServer fakes the registrar auth endpoints and counts the calls
// each flow makes.
type authServer struct {
	nonceCalls   int
	verifyCalls  int
	refreshCalls int

	refreshFails bool
	verifyFails  bool
	expiresIn    int64
}

func (s *authServer) handle(mux *http.ServeMux) {
	if s.expiresIn == 0 {
		s.expiresIn = 3600
	}

	mux.HandleFunc("/auth/nonce", func(w http.ResponseWriter, r *http.Request) {
		s.nonceCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"nonce":   fmt.Sprintf("nonce-%d", s.nonceCalls),
			"domain":  "api.nameforge.test",
			"uri":     "https://api.nameforge.test",
			"chainId": "8453",
		})
	})

	mux.HandleFunc("/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		s.verifyCalls++
		if s.verifyFails {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": "signature rejected"})
			return
		}

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Recover the signer from the submitted message, the way the
		// real verification endpoint does.
		sig, err := hexutil.Decode(req.Signature)
		if err != nil || len(sig) != 65 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		sig[64] -= 27
		pub, err := crypto.SigToPub(accounts.TextHash([]byte(req.Message)), sig)
		if err != nil || crypto.PubkeyToAddress(*pub).Hex() != testWalletAddr {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  fmt.Sprintf("access-token-%d", s.verifyCalls),
			"refreshToken": fmt.Sprintf("refresh-token-%d", s.verifyCalls),
			"expiresIn":    s.expiresIn,
		})
	})

	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls++
		if s.refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": "refresh token expired"})
			return
		}

		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  fmt.Sprintf("refreshed-token-%d", s.refreshCalls),
			"refreshToken": fmt.Sprintf("rotated-refresh-%d", s.refreshCalls),
			"expiresIn":    s.expiresIn,
		})
	})
}

func newTestClient(t *testing.T, serverURL string, withWallet bool, opts ...Option) *Client {
	t.Helper()

	cfg := &config.Config{
		API:    config.APIConfig{URL: serverURL},
		Wallet: config.WalletConfig{Network: "eip155:8453"},
	}
	if withWallet {
		cfg.Wallet.PrivateKey = testPrivateKey
	}

	client, err := NewClient(cfg, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newAuthServer(t *testing.T, auth *authServer) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	auth.handle(mux)
	return newTestServer(t, mux)
}

func TestEnsureAuthenticatedFirstCall(t *testing.T) {
	auth := &authServer{}
	server := newAuthServer(t, auth)
	client := newTestClient(t, server.URL, true)

	err := client.EnsureAuthenticated(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, auth.nonceCalls)
	assert.Equal(t, 1, auth.verifyCalls)
	assert.Equal(t, 0, auth.refreshCalls)

	headers := client.AuthHeaders()
	assert.Equal(t, "Bearer "+testAccessToken, headers["Authorization"])
}

func TestEnsureAuthenticatedCachedFastPath(t *testing.T) {
	auth := &authServer{}
	server := newAuthServer(t, auth)
	client := newTestClient(t, server.URL, true)

	require.NoError(t, client.EnsureAuthenticated(context.Background()))
	require.NoError(t, client.EnsureAuthenticated(context.Background()))
	require.NoError(t, client.EnsureAuthenticated(context.Background()))

	// Only the first call may touch the network.
	assert.Equal(t, 1, auth.nonceCalls)
	assert.Equal(t, 1, auth.verifyCalls)
	assert.Equal(t, 0, auth.refreshCalls)
}

func TestEnsureAuthenticatedWithoutWallet(t *testing.T) {
	auth := &authServer{}
	server := newAuthServer(t, auth)
	client := newTestClient(t, server.URL, false)

	err := client.EnsureAuthenticated(context.Background())
	require.ErrorIs(t, err, ErrNoWallet)

	// The precondition check is purely local.
	assert.Equal(t, 0, auth.nonceCalls)
	assert.Equal(t, 0, auth.verifyCalls)
}

func TestEnsureAuthenticatedRefreshesExpiredToken(t *testing.T) {
	auth := &authServer{}
	server := newAuthServer(t, auth)
	client := newTestClient(t, server.URL, true)

	require.NoError(t, client.EnsureAuthenticated(context.Background()))
	client.session.expiresAt = time.Now().Add(-time.Minute)

	require.NoError(t, client.EnsureAuthenticated(context.Background()))

	assert.Equal(t, 1, auth.refreshCalls)
	assert.Equal(t, 1, auth.nonceCalls, "expired token must refresh, not re-run the challenge flow")
	assert.Equal(t, 1, auth.verifyCalls)
	assert.Equal(t, "Bearer refreshed-token-1", client.AuthHeaders()["Authorization"])
}

func TestEnsureAuthenticatedFallsBackWhenRefreshFails(t *testing.T) {
	auth := &authServer{refreshFails: true}
	server := newAuthServer(t, auth)
	client := newTestClient(t, server.URL, true)

	require.NoError(t, client.EnsureAuthenticated(context.Background()))
	client.session.expiresAt = time.Now().Add(-time.Minute)

	require.NoError(t, client.EnsureAuthenticated(context.Background()))

	// Exactly one refresh attempt, then one full flow.
	assert.Equal(t, 1, auth.refreshCalls)
	assert.Equal(t, 2, auth.nonceCalls)
	assert.Equal(t, 2, auth.verifyCalls)
	assert.Equal(t, "Bearer access-token-2", client.AuthHeaders()["Authorization"])
}

func TestEnsureAuthenticatedVerifyFailure(t *testing.T) {
	auth := &authServer{verifyFails: true}
	server := newAuthServer(t, auth)
	client := newTestClient(t, server.URL, true)

	err := client.EnsureAuthenticated(context.Background())
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, client.session)
}

func TestAuthHeadersBeforeAuthentication(t *testing.T) {
	auth := &authServer{}
	server := newAuthServer(t, auth)
	client := newTestClient(t, server.URL, true)

	assert.Empty(t, client.AuthHeaders())
	assert.Equal(t, 0, auth.nonceCalls)
}

func TestTokenExpiryMargin(t *testing.T) {
	auth := &authServer{expiresIn: 3600}
	server := newAuthServer(t, auth)
	client := newTestClient(t, server.URL, true)

	before := time.Now()
	require.NoError(t, client.EnsureAuthenticated(context.Background()))

	// expiresAt = now + 3600s - 60s margin
	expected := before.Add(3600*time.Second - tokenExpiryMargin)
	assert.WithinDuration(t, expected, client.session.expiresAt, 5*time.Second)
}

func TestSignInMessageFormat(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	message := buildSignInMessage("api.nameforge.test", testWalletAddr, "https://api.nameforge.test", "8453", "nonce-1", issuedAt)

	lines := strings.Split(message, "\n")
	require.GreaterOrEqual(t, len(lines), 9)

	assert.Equal(t, "api.nameforge.test wants you to sign in with your Ethereum account:", lines[0])
	assert.Equal(t, testWalletAddr, lines[1])
	assert.Contains(t, message, "URI: https://api.nameforge.test")
	assert.Contains(t, message, "Version: 1")
	assert.Contains(t, message, "Chain ID: 8453")
	assert.Contains(t, message, "Nonce: nonce-1")
	assert.Contains(t, message, "Issued At: 2025-06-01T12:00:00Z")
}
