package billing

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the request boundary, where controllers map
// them to HTTP status codes.
var (
	ErrTierNotFound             = errors.New("tier not found")
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrActiveSubscriptionExists = errors.New("user already has an active subscription")
	ErrUnknownProviderStatus    = errors.New("unknown provider subscription status")
	ErrMissingPaymentIntent     = errors.New("invoice event carries no payment intent id")
)

// ProviderError wraps a failed Stripe API call. Local state is never mutated
// when a provider call fails, so the two systems stay consistent until the
// caller (or Stripe's redelivery) retries.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("stripe %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
