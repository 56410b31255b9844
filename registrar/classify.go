package registrar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/nameforge/nameforge/x402"
)

// Result is the uniform outcome handed back to tool callers: a short
// human-readable message plus an error flag. Callers never branch on
// failure kinds beyond the flag.
type Result struct {
	Message string
	IsError bool
}

// Classify maps an arbitrary client failure onto a stable user-facing
// result. Rules apply in order; the first match wins.
func Classify(err error) Result {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if isConnectivityError(urlErr) {
			return Result{
				Message: fmt.Sprintf("Could not reach the registrar service at %s. Check the API URL and your network connection.", urlErr.URL),
				IsError: true,
			}
		}
		if urlErr.Timeout() || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Result{Message: "The request timed out. Please try again.", IsError: true}
		}
		return Result{Message: "Request failed: " + urlErr.Err.Error(), IsError: true}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Result{Message: "The request timed out. Please try again.", IsError: true}
	}

	return Result{Message: err.Error(), IsError: true}
}

func classifyAPIError(apiErr *APIError) Result {
	fields := apiErr.Fields()

	switch {
	case apiErr.IsRateLimited():
		message := firstString(fields, "message", "error", "detail")
		if message == "" {
			message = "too many requests"
		}
		return Result{
			Message: fmt.Sprintf("Rate limited: %s. Wait a moment before retrying.", message),
			IsError: true,
		}

	case apiErr.IsPaymentRequired():
		if required, hasOffer := x402.ParsePaymentRequired(apiErr.Body); hasOffer {
			return classifyPaymentOffer(required)
		}

		message := firstString(fields, "message", "error", "detail")
		if message == "" {
			message = "the payment could not be settled on-chain"
		}
		return Result{
			Message: fmt.Sprintf("Payment failed: %s. Verify your wallet balance and try again.", message),
			IsError: true,
		}

	default:
		code := firstString(fields, "code")
		if code == "" {
			code = fmt.Sprintf("HTTP_%d", apiErr.StatusCode)
		}
		message := firstString(fields, "message", "error", "detail")
		if message == "" {
			message = http.StatusText(apiErr.StatusCode)
		}
		if message == "" {
			message = "request failed"
		}
		return Result{
			Message: fmt.Sprintf("Request failed (%s): %s", code, message),
			IsError: true,
		}
	}
}

// classifyPaymentOffer names the first offered amount so the caller
// knows what balance to fund.
func classifyPaymentOffer(required *x402.PaymentRequired) Result {
	offer := required.Accepts[0]

	asset := offer.AssetName()
	if asset == "" {
		asset = "USDC"
	}

	message := fmt.Sprintf("Payment required: %s %s", offer.DisplayAmount(), asset)
	if offer.Description != "" {
		message += " for " + offer.Description
	}
	message += ". Ensure your wallet holds a sufficient balance, then retry."

	return Result{Message: message, IsError: true}
}

func isConnectivityError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH)
}
