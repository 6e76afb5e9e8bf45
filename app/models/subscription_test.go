package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIsBillable(t *testing.T) {
	billable := []string{SubscriptionStatusActive, SubscriptionStatusPastDue}
	for _, status := range billable {
		sub := Subscription{Status: status}
		assert.True(t, sub.IsBillable(), "status %q should be billable", status)
	}

	nonBillable := []string{SubscriptionStatusCanceled, SubscriptionStatusPaused, SubscriptionStatusFree, ""}
	for _, status := range nonBillable {
		sub := Subscription{Status: status}
		assert.False(t, sub.IsBillable(), "status %q should not be billable", status)
	}
}
