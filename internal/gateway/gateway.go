// Package gateway holds the adapters for the external payment processors.
// Both adapters share one contract: Initiate produces the handoff payload a
// client needs to start the gateway flow, and VerifyCallback validates a
// redirect callback and produces a Verification for the payment service.
package gateway

import (
	"errors"
	"net/http"
	"time"
)

// ErrInvalidInfo is returned when a callback fails signature or status
// verification. Callers must never retry on it.
var ErrInvalidInfo = errors.New("invalid info")

// Verification is the common result of a successful callback check.
type Verification struct {
	OrderID       string
	Amount        float64
	TransactionID string
	// RawPayload carries the gateway's verification response as JSON for
	// audit storage.
	RawPayload string
}

// newHTTPClient bounds every gateway call; neither processor documents a
// long-poll endpoint, so 10 seconds is generous.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
