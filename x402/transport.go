package x402

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/rs/zerolog"
)

// maxBodySize caps how much of a 402 body we buffer while looking for
// an offer list.
const maxBodySize = 1 << 20

// defaultAuthWindow is the authorization validity window used when an
// offer doesn't specify maxTimeoutSeconds.
const defaultAuthWindow = 600 * time.Second

// clockSkewTolerance backdates validAfter so a facilitator with a
// slightly behind clock still accepts the authorization.
const clockSkewTolerance = 60 * time.Second

// Signer signs EIP-712 payment authorizations. *wallet.Wallet satisfies it.
type Signer interface {
	Address() common.Address
	SignTypedData(data apitypes.TypedData) (string, error)
}

// Transport decorates an http.RoundTripper with automatic payment of 402
// challenges: when a response carries an exact-scheme offer for our
// network, it signs a transfer authorization and retries the request once
// with an X-PAYMENT header. Responses it cannot pay for pass through
// untouched so the caller can classify them.
type Transport struct {
	base    http.RoundTripper
	signer  Signer
	network string
	chainID *big.Int
	logger  zerolog.Logger
}

// NewTransport wires the payment decorator around base. It fails when no
// signer is available or the network cannot settle payments; callers are
// expected to fall back to the undecorated transport in that case.
func NewTransport(base http.RoundTripper, signer Signer, network string, logger zerolog.Logger) (*Transport, error) {
	if signer == nil {
		return nil, errors.New("payment signer is required")
	}

	chainID, err := ChainID(network)
	if err != nil {
		return nil, err
	}

	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{
		base:    base,
		signer:  signer,
		network: network,
		chainID: chainID,
		logger:  logger,
	}, nil
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusPaymentRequired {
		return resp, err
	}

	// A 402 on a request that already carried a payment is a settlement
	// failure; retrying with a fresh authorization won't change that.
	if req.Header.Get(PaymentHeader) != "" {
		return resp, nil
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if readErr != nil {
		return resp, nil
	}

	required, hasOffer := ParsePaymentRequired(body)
	if !hasOffer {
		return resp, nil
	}

	requirement := t.selectRequirement(required.Accepts)
	if requirement == nil {
		t.logger.Debug().
			Str("network", t.network).
			Int("offers", len(required.Accepts)).
			Msg("No payable offer in 402 response")
		return resp, nil
	}

	header, err := t.buildPayment(*requirement)
	if err != nil {
		t.logger.Warn().Err(err).Msg("Failed to sign payment authorization")
		return resp, nil
	}

	retry, ok := cloneRequest(req)
	if !ok {
		return resp, nil
	}
	retry.Header.Set(PaymentHeader, header)

	t.logger.Debug().
		Str("amount", requirement.DisplayAmount()).
		Str("pay_to", requirement.PayTo).
		Str("resource", requirement.Resource).
		Msg("Retrying request with signed payment")

	return t.base.RoundTrip(retry)
}

// selectRequirement picks the first exact-scheme offer for our network.
func (t *Transport) selectRequirement(accepts []PaymentRequirements) *PaymentRequirements {
	for i := range accepts {
		if accepts[i].Scheme == SchemeExact && accepts[i].Network == t.network {
			return &accepts[i]
		}
	}
	return nil
}

// buildPayment signs a TransferWithAuthorization for the offer and
// returns the encoded X-PAYMENT header value.
func (t *Transport) buildPayment(requirement PaymentRequirements) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate authorization nonce: %w", err)
	}

	window := defaultAuthWindow
	if requirement.MaxTimeoutSeconds > 0 {
		window = time.Duration(requirement.MaxTimeoutSeconds) * time.Second
	}

	now := time.Now()
	auth := Authorization{
		From:        t.signer.Address().Hex(),
		To:          requirement.PayTo,
		Value:       requirement.MaxAmountRequired,
		ValidAfter:  fmt.Sprintf("%d", now.Add(-clockSkewTolerance).Unix()),
		ValidBefore: fmt.Sprintf("%d", now.Add(window).Unix()),
		Nonce:       hexutil.Encode(nonce),
	}

	signature, err := t.signer.SignTypedData(t.typedData(requirement, auth))
	if err != nil {
		return "", err
	}

	payload := PaymentPayload{
		X402Version: Version,
		Scheme:      SchemeExact,
		Network:     t.network,
		Payload: ExactPayload{
			Signature:     signature,
			Authorization: auth,
		},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payment payload: %w", err)
	}

	return base64.StdEncoding.EncodeToString(encoded), nil
}

// typedData assembles the EIP-712 structure the settlement asset verifies.
func (t *Transport) typedData(requirement PaymentRequirements, auth Authorization) apitypes.TypedData {
	name, _ := requirement.Extra["name"].(string)
	version, _ := requirement.Extra["version"].(string)

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"TransferWithAuthorization": []apitypes.Type{
				{Name: "from", Type: "address"},
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "validAfter", Type: "uint256"},
				{Name: "validBefore", Type: "uint256"},
				{Name: "nonce", Type: "bytes32"},
			},
		},
		PrimaryType: "TransferWithAuthorization",
		Domain: apitypes.TypedDataDomain{
			Name:              name,
			Version:           version,
			ChainId:           math.NewHexOrDecimal256(t.chainID.Int64()),
			VerifyingContract: requirement.Asset,
		},
		Message: apitypes.TypedDataMessage{
			"from":        auth.From,
			"to":          auth.To,
			"value":       auth.Value,
			"validAfter":  auth.ValidAfter,
			"validBefore": auth.ValidBefore,
			"nonce":       auth.Nonce,
		},
	}
}

// cloneRequest duplicates a request for the paid retry. Requests with a
// non-replayable body cannot be retried.
func cloneRequest(req *http.Request) (*http.Request, bool) {
	clone := req.Clone(req.Context())
	if req.Body == nil {
		return clone, true
	}
	if req.GetBody == nil {
		return nil, false
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	clone.Body = body
	return clone, true
}
