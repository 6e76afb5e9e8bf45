package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPaused   = "paused"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusFree     = "free"
)

// SubscriptionBillableStatuses are the statuses that count as an occupied
// billing slot: a user may hold at most one subscription in one of these.
var SubscriptionBillableStatuses = []string{
	SubscriptionStatusActive,
	SubscriptionStatusPastDue,
}

// Subscription mirrors one Stripe subscription for a user. The tier name is
// denormalized at checkout time so the record stays meaningful even if the
// tier is later retired or repriced.
type Subscription struct {
	ID                   uint              `gorm:"primaryKey" json:"id"`
	UserID               uint              `gorm:"not null;index:idx_subscriptions_user_created,priority:1" json:"user_id"`
	TierID               uint              `gorm:"not null;index" json:"tier_id"`
	Tier                 *SubscriptionTier `gorm:"foreignKey:TierID" json:"tier,omitempty"`
	TierName             string            `gorm:"type:varchar(100);not null" json:"tier_name"`
	StripeCustomerID     string            `gorm:"type:varchar(191);not null;index" json:"stripe_customer_id"`
	StripeSubscriptionID string            `gorm:"type:varchar(191);not null;default:'';uniqueIndex:ux_subscriptions_stripe_sub_id" json:"stripe_subscription_id,omitempty"`
	Status               string            `gorm:"type:varchar(32);not null;default:'free';index" json:"status"`
	CurrentPeriodStart   time.Time         `gorm:"type:timestamp;not null" json:"current_period_start"`
	CurrentPeriodEnd     *time.Time        `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CanceledAt           *time.Time        `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	TotalUsageHours      float64           `gorm:"not null;default:0" json:"total_usage_hours"`
	TotalCost            float64           `gorm:"not null;default:0" json:"total_cost"`
	CreatedAt            time.Time         `gorm:"autoCreateTime;index:idx_subscriptions_user_created,priority:2" json:"created_at"`
	UpdatedAt            time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsBillable reports whether the subscription occupies the user's single
// billing slot.
func (s *Subscription) IsBillable() bool {
	for _, status := range SubscriptionBillableStatuses {
		if s.Status == status {
			return true
		}
	}
	return false
}
