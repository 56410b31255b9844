// Package registrar provides a client for the nameforge domain
// registration API.
//
// The client owns the session and reliability layer the tool handlers
// build on: wallet-based challenge authentication with token caching and
// refresh, automatic payment of 402 challenges (via the x402 transport
// decorator), polling of asynchronous provisioning jobs, and
// classification of failures into user-facing results.
//
// # Usage
//
//	client, err := registrar.NewClient(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Free lookup, no wallet required
//	avail, err := client.CheckAvailability(ctx, "example.com")
//
//	// Paid registration; blocks until the provisioning job settles
//	job, err := client.RegisterDomain(ctx, "example.com", 1)
//
// A client without a wallet can still perform free lookups; every
// authenticated or paid operation then fails locally with ErrNoWallet
// before any network traffic happens.
package registrar
