package x402

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Protocol version and the exact-payment scheme identifier.
const (
	Version     = 1
	SchemeExact = "exact"
)

// HTTP headers used by the payment protocol.
const (
	PaymentHeader         = "X-PAYMENT"
	PaymentResponseHeader = "X-PAYMENT-RESPONSE"
)

// defaultAssetDecimals applies when an offer doesn't declare the asset's
// decimals; stablecoin settlement assets use 6.
const defaultAssetDecimals = 6

// PaymentRequired is the body of a 402 response: the server's offer list.
type PaymentRequired struct {
	X402Version int                   `json:"x402Version"`
	Error       string                `json:"error,omitempty"`
	Accepts     []PaymentRequirements `json:"accepts"`
}

// PaymentRequirements describes one acceptable way to pay for a resource.
type PaymentRequirements struct {
	Scheme            string         `json:"scheme"`
	Network           string         `json:"network"`
	MaxAmountRequired string         `json:"maxAmountRequired"`
	Resource          string         `json:"resource,omitempty"`
	Description       string         `json:"description,omitempty"`
	MimeType          string         `json:"mimeType,omitempty"`
	PayTo             string         `json:"payTo"`
	MaxTimeoutSeconds int            `json:"maxTimeoutSeconds,omitempty"`
	Asset             string         `json:"asset"`
	Extra             map[string]any `json:"extra,omitempty"`
}

// PaymentPayload is the signed payment carried in the X-PAYMENT header,
// base64-encoded JSON.
type PaymentPayload struct {
	X402Version int          `json:"x402Version"`
	Scheme      string       `json:"scheme"`
	Network     string       `json:"network"`
	Payload     ExactPayload `json:"payload"`
}

// ExactPayload is the exact-scheme EVM payload: an EIP-3009 transfer
// authorization plus its EIP-712 signature.
type ExactPayload struct {
	Signature     string        `json:"signature"`
	Authorization Authorization `json:"authorization"`
}

// Authorization are the TransferWithAuthorization parameters.
type Authorization struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	ValidAfter  string `json:"validAfter"`
	ValidBefore string `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// ParsePaymentRequired decodes a 402 response body. The second return
// reports whether the body actually carried an offer list; a 402 without
// one means a payment was already attempted and rejected.
func ParsePaymentRequired(body []byte) (*PaymentRequired, bool) {
	var required PaymentRequired
	if err := json.Unmarshal(body, &required); err != nil {
		return nil, false
	}
	if len(required.Accepts) == 0 {
		return &required, false
	}
	return &required, true
}

// ChainID extracts the numeric chain id from an eip155 CAIP-2 network
// identifier such as "eip155:8453".
func ChainID(network string) (*big.Int, error) {
	namespace, reference, ok := strings.Cut(network, ":")
	if !ok {
		return nil, fmt.Errorf("not a namespace:reference network identifier: %q", network)
	}
	if namespace != "eip155" {
		return nil, fmt.Errorf("unsupported chain namespace %q (only eip155 networks can settle payments)", namespace)
	}

	id, err := strconv.ParseInt(reference, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid eip155 chain reference %q: %w", reference, err)
	}
	return big.NewInt(id), nil
}

// DisplayAmount renders the atomic MaxAmountRequired as a human-readable
// asset amount, honoring an optional "decimals" hint in Extra.
func (r PaymentRequirements) DisplayAmount() string {
	amount, err := decimal.NewFromString(r.MaxAmountRequired)
	if err != nil {
		return r.MaxAmountRequired
	}

	decimals := int32(defaultAssetDecimals)
	if raw, ok := r.Extra["decimals"]; ok {
		if f, ok := raw.(float64); ok {
			decimals = int32(f)
		}
	}

	return amount.Shift(-decimals).String()
}

// AssetName returns the offered asset's display name, if declared.
func (r PaymentRequirements) AssetName() string {
	if name, ok := r.Extra["name"].(string); ok {
		return name
	}
	return ""
}
