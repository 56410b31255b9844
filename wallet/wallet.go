package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Wallet is a secp256k1 signing identity derived once from a private key.
// It signs sign-in challenges (EIP-191 personal messages) and payment
// authorizations (EIP-712 typed data). The key never leaves the process.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// New derives a wallet from a 0x-prefixed hex private key.
func New(privateKeyHex string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the checksummed account address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// SignMessage signs a personal message (EIP-191) and returns the
// 65-byte signature hex-encoded with V in {27, 28}, the form the
// verification endpoint expects.
func (w *Wallet) SignMessage(message string) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), w.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[64] += 27

	return hexutil.Encode(sig), nil
}

// SignTypedData signs EIP-712 typed data and returns the signature
// hex-encoded with V in {27, 28}.
func (w *Wallet) SignTypedData(data apitypes.TypedData) (string, error) {
	hash, _, err := apitypes.TypedDataAndHash(data)
	if err != nil {
		return "", fmt.Errorf("failed to hash typed data: %w", err)
	}

	sig, err := crypto.Sign(hash, w.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign typed data: %w", err)
	}
	sig[64] += 27

	return hexutil.Encode(sig), nil
}
