package registrar

import (
	"fmt"
	"strings"
	"time"
)

const (
	signInVersion   = "1"
	signInStatement = "Sign in to nameforge to manage your domains."
)

// buildSignInMessage assembles the EIP-4361 sign-in text the wallet
// signs. The layout is fixed by the standard; the server recomputes and
// verifies the exact same string.
func buildSignInMessage(domain, address, uri, chainID, nonce string, issuedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", domain)
	fmt.Fprintf(&b, "%s\n\n", address)
	fmt.Fprintf(&b, "%s\n\n", signInStatement)
	fmt.Fprintf(&b, "URI: %s\n", uri)
	fmt.Fprintf(&b, "Version: %s\n", signInVersion)
	fmt.Fprintf(&b, "Chain ID: %s\n", chainID)
	fmt.Fprintf(&b, "Nonce: %s\n", nonce)
	fmt.Fprintf(&b, "Issued At: %s", issuedAt.UTC().Format(time.RFC3339))

	return b.String()
}
