package billing

import "time"

// CheckoutSession is the hosted payment flow handle returned to the client.
type CheckoutSession struct {
	SessionID  string `json:"sessionId"`
	SessionURL string `json:"sessionUrl"`
}

// CheckoutSessionParams is the provider-facing input for creating a hosted
// subscription checkout.
type CheckoutSessionParams struct {
	CustomerID         string
	ClientReferenceID  string
	ProductName        string
	ProductDescription string
	UnitAmount         int64
	Currency           string
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
}

// CheckoutCompleted is the normalized payload of a completed checkout
// session, extracted from the session metadata and provider-assigned ids.
type CheckoutCompleted struct {
	UserID               uint
	TierID               uint
	TierName             string
	StripeCustomerID     string
	StripeSubscriptionID string
}

// SubscriptionUpdate carries the absolute provider-side state of a
// subscription as delivered by a subscription-updated event.
type SubscriptionUpdate struct {
	StripeSubscriptionID string
	ProviderStatus       string
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
}

// InvoiceEvent is the normalized payload of an invoice paid/failed event.
type InvoiceEvent struct {
	StripeSubscriptionID string
	PaymentIntentID      string
	AmountPaid           int64
	Currency             string
	HostedInvoiceURL     string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	StripeEventID  string
	EventType      string
	PayloadJSON    string
	SignatureValid bool
}
