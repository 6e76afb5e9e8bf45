package billing

import (
	"errors"
	"testing"

	"github.com/nimbusdb/nimbus/app/models"
)

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "active", want: models.SubscriptionStatusActive},
		{in: "trialing", want: models.SubscriptionStatusActive},
		{in: "past_due", want: models.SubscriptionStatusPastDue},
		{in: "unpaid", want: models.SubscriptionStatusPastDue},
		{in: "canceled", want: models.SubscriptionStatusCanceled},
		{in: "incomplete_expired", want: models.SubscriptionStatusCanceled},
		{in: "paused", want: models.SubscriptionStatusPaused},
		{in: "ACTIVE", want: models.SubscriptionStatusActive},
	}

	for _, tt := range tests {
		got, err := MapProviderStatus(tt.in)
		if err != nil {
			t.Fatalf("MapProviderStatus(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("MapProviderStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapProviderStatusRejectsUnknown(t *testing.T) {
	for _, status := range []string{"", "incomplete", "bogus"} {
		if _, err := MapProviderStatus(status); !errors.Is(err, ErrUnknownProviderStatus) {
			t.Fatalf("expected %q to be rejected, got %v", status, err)
		}
	}
}
