package billing

import (
	"context"
	"strconv"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/nimbusdb/nimbus/internal/pkg/env"
)

// Gateway abstracts the Stripe operations the billing service depends on, so
// tests can substitute a fake instead of hitting the live API.
type Gateway interface {
	// EnsureCustomer resolves an existing Stripe customer for the email or
	// creates a new one, returning its id.
	EnsureCustomer(ctx context.Context, userID uint, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	CancelSubscription(ctx context.Context, stripeSubscriptionID string) error
}

type stripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a Gateway backed by the Stripe SDK.
func NewStripeGateway(secretKey string) Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{api: api}
}

// NewStripeGatewayFromEnv creates a Gateway configured from STRIPE_SECRET_KEY.
func NewStripeGatewayFromEnv() Gateway {
	return NewStripeGateway(env.GetEnv("STRIPE_SECRET_KEY", ""))
}

func (g *stripeGateway) EnsureCustomer(ctx context.Context, userID uint, email string) (string, error) {
	listParams := &stripe.CustomerListParams{}
	listParams.Context = ctx
	listParams.Email = stripe.String(email)
	listParams.Limit = stripe.Int64(1)

	it := g.api.Customers.List(listParams)
	for it.Next() {
		return it.Customer().ID, nil
	}
	if err := it.Err(); err != nil {
		return "", &ProviderError{Op: "customers.list", Err: err}
	}

	createParams := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	createParams.Context = ctx
	createParams.AddMetadata("user_id", strconv.FormatUint(uint64(userID), 10))

	customer, err := g.api.Customers.New(createParams)
	if err != nil {
		return "", &ProviderError{Op: "customers.create", Err: err}
	}
	return customer.ID, nil
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:           stripe.String(params.CustomerID),
		ClientReferenceID:  stripe.String(params.ClientReferenceID),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(params.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(params.ProductName),
						Description: stripe.String(params.ProductDescription),
					},
					UnitAmount: stripe.Int64(params.UnitAmount),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval:      stripe.String(string(stripe.PriceRecurringIntervalMonth)),
						IntervalCount: stripe.Int64(1),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	sessionParams.Context = ctx
	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	session, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, &ProviderError{Op: "checkout.sessions.create", Err: err}
	}
	return &CheckoutSession{SessionID: session.ID, SessionURL: session.URL}, nil
}

func (g *stripeGateway) CancelSubscription(ctx context.Context, stripeSubscriptionID string) error {
	cancelParams := &stripe.SubscriptionCancelParams{}
	cancelParams.Context = ctx

	if _, err := g.api.Subscriptions.Cancel(stripeSubscriptionID, cancelParams); err != nil {
		return &ProviderError{Op: "subscriptions.cancel", Err: err}
	}
	return nil
}
