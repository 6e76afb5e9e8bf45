package models

import "time"

const (
	PaymentStatusSucceeded      = "succeeded"
	PaymentStatusProcessing     = "processing"
	PaymentStatusRequiresAction = "requires_action"
	PaymentStatusFailed         = "failed"
)

// Payment is one entry in the append-only payment ledger. Records are created
// by webhook reconciliation only and never updated; the Stripe payment intent
// id is the natural key that rejects duplicate inserts.
type Payment struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UserID                uint      `gorm:"not null;index" json:"user_id"`
	SubscriptionID        uint      `gorm:"not null;index" json:"subscription_id"`
	StripePaymentIntentID string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_payments_stripe_payment_intent_id" json:"stripe_payment_intent_id"`
	Amount                int64     `gorm:"not null" json:"amount"`
	Currency              string    `gorm:"type:varchar(10);not null;default:'usd'" json:"currency"`
	Status                string    `gorm:"type:varchar(32);not null;default:'processing'" json:"status"`
	PaymentMethod         string    `gorm:"type:varchar(100);default:''" json:"payment_method,omitempty"`
	InvoiceURL            string    `gorm:"type:text" json:"invoice_url,omitempty"`
	CreatedAt             time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
