package wallet

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{
			name: "valid key with 0x prefix",
			key:  "0x0000000000000000000000000000000000000000000000000000000000000001",
		},
		{
			name: "valid key without prefix",
			key:  "0000000000000000000000000000000000000000000000000000000000000001",
		},
		{
			name:    "non-hex key",
			key:     "0xnot-a-key",
			wantErr: true,
		},
		{
			name:    "truncated key",
			key:     "0xab12",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, w)
		})
	}
}

func TestAddressDerivation(t *testing.T) {
	// Private key 1 has a well-known address.
	w, err := New("0x0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", w.Address().Hex())
}

func TestSignMessage(t *testing.T) {
	w, err := New("0x0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)

	message := "api.nameforge.io wants you to sign in with your Ethereum account"
	sigHex, err := w.SignMessage(message)
	require.NoError(t, err)

	sig, err := hexutil.Decode(sigHex)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	// Recover the signer and make sure it matches the wallet address.
	sig[64] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), crypto.PubkeyToAddress(*pub))
}
