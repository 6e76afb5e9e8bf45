package billing

import (
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// VerifyWebhookEvent checks the Stripe-Signature header against the signing
// secret and returns the parsed event. Verification fails closed: an invalid
// or expired signature yields an error and the payload is never trusted.
// API version mismatches are tolerated; the reconciler only reads fields that
// are stable across the versions Stripe delivers.
func VerifyWebhookEvent(payload []byte, signatureHeader, webhookSecret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signatureHeader, webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
