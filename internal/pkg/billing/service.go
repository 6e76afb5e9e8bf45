package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nimbusdb/nimbus/app/models"
	"github.com/nimbusdb/nimbus/internal/pkg/env"
)

// hoursPerMonth is the fixed-hours approximation used to turn an hourly tier
// price into a recurring monthly amount. Not usage metering.
const hoursPerMonth = 730

// subscriptionPeriodDays is the initial billing period granted on checkout
// completion; subsequent periods are overwritten from provider events.
const subscriptionPeriodDays = 30

// Config carries the caller-configured redirect targets for hosted checkout.
type Config struct {
	SuccessURL string
	CancelURL  string
}

// ConfigFromEnv reads the checkout redirect URLs from the environment.
func ConfigFromEnv() Config {
	return Config{
		SuccessURL: env.GetEnv("STRIPE_SUCCESS_URL", ""),
		CancelURL:  env.GetEnv("STRIPE_CANCEL_URL", ""),
	}
}

// Service orchestrates checkout and reconciles Stripe webhook events into
// the local subscription and payment tables.
type Service struct {
	repo    Repository
	gateway Gateway
	cfg     Config
	locks   *userLocks
}

// NewService creates a billing service from injected dependencies. All
// services share one per-user lock table, so per-request construction still
// serializes mutations for the same user.
func NewService(repo Repository, gateway Gateway, cfg Config) *Service {
	return &Service{repo: repo, gateway: gateway, cfg: cfg, locks: sharedUserLocks}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway Gateway, cfg Config) *Service {
	return NewService(NewRepository(db), gateway, cfg)
}

// MonthlyAmountMinorUnits converts an hourly tier price into the recurring
// monthly charge in minor currency units.
func MonthlyAmountMinorUnits(pricePerHour float64) int64 {
	return int64(math.Round(pricePerHour * hoursPerMonth * 100))
}

// CreateCheckout starts a hosted subscription checkout for the user and tier.
// No local subscription is created here; that happens when Stripe confirms
// completion via webhook.
func (s *Service) CreateCheckout(ctx context.Context, userID uint, email string, tierID uint) (*CheckoutSession, error) {
	if userID == 0 {
		return nil, errors.New("user_id is required")
	}

	s.locks.lock(userID)
	defer s.locks.unlock(userID)

	tier, err := s.repo.GetTierByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}

	if _, err := s.repo.GetBillableSubscriptionByUser(userID); err == nil {
		return nil, ErrActiveSubscriptionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customerID, err := s.resolveCustomer(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	successURL := s.cfg.SuccessURL
	if successURL != "" && !strings.Contains(successURL, "session_id=") {
		sep := "?"
		if strings.Contains(successURL, "?") {
			sep = "&"
		}
		successURL += sep + "session_id={CHECKOUT_SESSION_ID}"
	}

	return s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		CustomerID:         customerID,
		ClientReferenceID:  uuid.NewString(),
		ProductName:        tier.DisplayName,
		ProductDescription: tier.Description,
		UnitAmount:         MonthlyAmountMinorUnits(tier.PricePerHour),
		Currency:           "usd",
		SuccessURL:         successURL,
		CancelURL:          s.cfg.CancelURL,
		Metadata: map[string]string{
			"userId":   strconv.FormatUint(uint64(userID), 10),
			"tierId":   strconv.FormatUint(uint64(tier.ID), 10),
			"tierName": tier.Name,
		},
	})
}

// resolveCustomer returns the user's pinned Stripe customer id, establishing
// and persisting the mapping on first use.
func (s *Service) resolveCustomer(ctx context.Context, userID uint, email string) (string, error) {
	customer, err := s.repo.GetBillingCustomerByUser(userID)
	if err == nil {
		return customer.StripeCustomerID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	stripeCustomerID, err := s.gateway.EnsureCustomer(ctx, userID, email)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpsertBillingCustomer(&models.BillingCustomer{
		UserID:           userID,
		StripeCustomerID: stripeCustomerID,
		Email:            strings.TrimSpace(email),
	}); err != nil {
		return "", err
	}
	return stripeCustomerID, nil
}

// GetCurrentSubscription returns the user's most recent subscription with
// its tier populated.
func (s *Service) GetCurrentSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	_ = ctx
	sub, err := s.repo.GetLatestSubscriptionByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// CancelSubscription cancels the user's billable subscription at Stripe and
// locally. A failed provider call leaves the local record untouched.
func (s *Service) CancelSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	s.locks.lock(userID)
	defer s.locks.unlock(userID)

	sub, err := s.repo.GetBillableSubscriptionByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	if sub.StripeSubscriptionID != "" {
		if err := s.gateway.CancelSubscription(ctx, sub.StripeSubscriptionID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	sub.Status = models.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	if err := s.repo.SaveSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ApplyCheckoutCompleted reconciles a completed checkout session into a local
// subscription. Creation is keyed on the Stripe subscription id, so redelivery
// of the same event is an overwrite rather than a duplicate insert.
func (s *Service) ApplyCheckoutCompleted(ctx context.Context, in CheckoutCompleted) (*models.Subscription, error) {
	_ = ctx
	if in.UserID == 0 || in.StripeSubscriptionID == "" {
		return nil, errors.New("userId metadata and subscription id are required")
	}

	s.locks.lock(in.UserID)
	defer s.locks.unlock(in.UserID)

	// Two checkout sessions created before either completed would otherwise
	// both land as billable subscriptions. The first completion wins; a
	// completion for a different Stripe subscription is rejected.
	if existing, err := s.repo.GetBillableSubscriptionByUser(in.UserID); err == nil {
		if existing.StripeSubscriptionID != in.StripeSubscriptionID {
			return nil, ErrActiveSubscriptionExists
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	periodEnd := now.Add(subscriptionPeriodDays * 24 * time.Hour)
	sub := &models.Subscription{
		UserID:               in.UserID,
		TierID:               in.TierID,
		TierName:             in.TierName,
		StripeCustomerID:     in.StripeCustomerID,
		StripeSubscriptionID: in.StripeSubscriptionID,
		Status:               models.SubscriptionStatusActive,
		CurrentPeriodStart:   now,
		CurrentPeriodEnd:     &periodEnd,
	}
	if err := s.repo.UpsertSubscriptionByStripeID(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ApplySubscriptionUpdated overwrites local status and period bounds with the
// provider-side state. Unrecognized provider statuses are rejected before any
// write happens.
func (s *Service) ApplySubscriptionUpdated(ctx context.Context, in SubscriptionUpdate) error {
	_ = ctx
	status, err := MapProviderStatus(in.ProviderStatus)
	if err != nil {
		return err
	}

	sub, err := s.repo.GetSubscriptionByStripeID(in.StripeSubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	sub.Status = status
	if !in.CurrentPeriodStart.IsZero() {
		sub.CurrentPeriodStart = in.CurrentPeriodStart
	}
	if !in.CurrentPeriodEnd.IsZero() {
		end := in.CurrentPeriodEnd
		sub.CurrentPeriodEnd = &end
	}
	return s.repo.SaveSubscription(sub)
}

// ApplySubscriptionDeleted marks the matching subscription canceled and
// stamps the cancellation time.
func (s *Service) ApplySubscriptionDeleted(ctx context.Context, stripeSubscriptionID string) error {
	_ = ctx
	sub, err := s.repo.GetSubscriptionByStripeID(stripeSubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	now := time.Now()
	sub.Status = models.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	return s.repo.SaveSubscription(sub)
}

// ApplyInvoicePaid appends a succeeded payment to the ledger. The unique
// constraint on the payment intent id rejects a duplicate insert arriving
// under a distinct event id.
func (s *Service) ApplyInvoicePaid(ctx context.Context, in InvoiceEvent) error {
	_ = ctx
	sub, err := s.repo.GetSubscriptionByStripeID(in.StripeSubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	if in.PaymentIntentID == "" {
		return ErrMissingPaymentIntent
	}

	currency := in.Currency
	if currency == "" {
		currency = "usd"
	}
	return s.repo.CreatePayment(&models.Payment{
		UserID:                sub.UserID,
		SubscriptionID:        sub.ID,
		StripePaymentIntentID: in.PaymentIntentID,
		Amount:                in.AmountPaid,
		Currency:              currency,
		Status:                models.PaymentStatusSucceeded,
		InvoiceURL:            in.HostedInvoiceURL,
	})
}

// ApplyInvoiceFailed flags the matching subscription past_due. Period bounds
// are left untouched and no payment record is written for the failure.
func (s *Service) ApplyInvoiceFailed(ctx context.Context, stripeSubscriptionID string) error {
	_ = ctx
	sub, err := s.repo.GetSubscriptionByStripeID(stripeSubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	sub.Status = models.SubscriptionStatusPastDue
	return s.repo.SaveSubscription(sub)
}

// RecordWebhookEvent persists webhook payloads idempotently. The bool result
// reports whether this delivery was the first one.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.WebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(in.StripeEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		StripeEventID:  eventID,
		EventType:      strings.TrimSpace(in.EventType),
		PayloadJSON:    in.PayloadJSON,
		SignatureValid: in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
