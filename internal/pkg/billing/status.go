package billing

import (
	"strings"

	"github.com/nimbusdb/nimbus/app/models"
)

// MapProviderStatus translates Stripe's subscription status vocabulary into
// the local enum. Unrecognized values are rejected instead of being written
// through into the closed status set.
func MapProviderStatus(providerStatus string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "active", "trialing":
		return models.SubscriptionStatusActive, nil
	case "past_due", "unpaid":
		return models.SubscriptionStatusPastDue, nil
	case "canceled", "incomplete_expired":
		return models.SubscriptionStatusCanceled, nil
	case "paused":
		return models.SubscriptionStatusPaused, nil
	default:
		return "", ErrUnknownProviderStatus
	}
}
