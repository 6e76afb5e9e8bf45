package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v81"

	"github.com/nimbusdb/nimbus/app/models"
	"github.com/nimbusdb/nimbus/internal/pkg/billing"
	"github.com/nimbusdb/nimbus/internal/pkg/env"
)

// HandleStripeWebhook receives Stripe events and reconciles them into local
// state. The raw body is required for signature verification; an invalid
// signature rejects the delivery before anything is persisted.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	event, err := billing.VerifyWebhookEvent(rawBody, signature, secret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid webhook signature"})
	}

	svc := billingService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		StripeEventID:  event.ID,
		EventType:      string(event.Type),
		PayloadJSON:    string(rawBody),
		SignatureValid: true,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}
	if duplicateDelivery(created, stored) {
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	applyErr := applyStripeEvent(ctx, svc, event)
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, applyErr)

	if applyErr != nil {
		// Events referencing unknown local state are acknowledged so Stripe
		// does not redeliver them forever; the ledger keeps the note.
		if errors.Is(applyErr, billing.ErrSubscriptionNotFound) ||
			errors.Is(applyErr, billing.ErrUnknownProviderStatus) ||
			errors.Is(applyErr, billing.ErrMissingPaymentIntent) ||
			errors.Is(applyErr, billing.ErrActiveSubscriptionExists) {
			log.Printf("Webhook %s (%s) skipped: %v", event.ID, event.Type, applyErr)
			return c.JSON(fiber.Map{"received": true, "ignored": true})
		}
		log.Printf("Webhook %s (%s) failed: %v", event.ID, event.Type, applyErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}

	return c.JSON(fiber.Map{"received": true})
}

// duplicateDelivery reports whether a redelivered event was already applied.
// A delivery whose first attempt returned 500 never finished, so Stripe's
// retry must run the appliers again instead of being acked as a duplicate.
func duplicateDelivery(created bool, stored *models.WebhookEvent) bool {
	if created {
		return false
	}
	return stored.ProcessedAt != nil && stored.ProcessingError == ""
}

func applyStripeEvent(ctx context.Context, svc *billing.Service, event stripe.Event) error {
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return err
		}
		in, err := checkoutCompletedFromSession(&session)
		if err != nil {
			return err
		}
		_, err = svc.ApplyCheckoutCompleted(ctx, in)
		return err

	case stripe.EventTypeCustomerSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return svc.ApplySubscriptionUpdated(ctx, billing.SubscriptionUpdate{
			StripeSubscriptionID: sub.ID,
			ProviderStatus:       string(sub.Status),
			CurrentPeriodStart:   time.Unix(sub.CurrentPeriodStart, 0),
			CurrentPeriodEnd:     time.Unix(sub.CurrentPeriodEnd, 0),
		})

	case stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return svc.ApplySubscriptionDeleted(ctx, sub.ID)

	case stripe.EventTypeInvoicePaymentSucceeded:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return err
		}
		in := billing.InvoiceEvent{
			AmountPaid:       invoice.AmountPaid,
			Currency:         string(invoice.Currency),
			HostedInvoiceURL: invoice.HostedInvoiceURL,
		}
		if invoice.Subscription != nil {
			in.StripeSubscriptionID = invoice.Subscription.ID
		}
		if invoice.PaymentIntent != nil {
			in.PaymentIntentID = invoice.PaymentIntent.ID
		}
		return svc.ApplyInvoicePaid(ctx, in)

	case stripe.EventTypeInvoicePaymentFailed:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return err
		}
		if invoice.Subscription == nil {
			return billing.ErrSubscriptionNotFound
		}
		return svc.ApplyInvoiceFailed(ctx, invoice.Subscription.ID)

	default:
		// Unhandled event types are acknowledged without a state change.
		return nil
	}
}

func checkoutCompletedFromSession(session *stripe.CheckoutSession) (billing.CheckoutCompleted, error) {
	in := billing.CheckoutCompleted{
		TierName: session.Metadata["tierName"],
	}

	userID, err := strconv.ParseUint(session.Metadata["userId"], 10, 32)
	if err != nil {
		return in, errors.New("checkout session metadata is missing userId")
	}
	in.UserID = uint(userID)

	if tierID, err := strconv.ParseUint(session.Metadata["tierId"], 10, 32); err == nil {
		in.TierID = uint(tierID)
	}

	if session.Customer != nil {
		in.StripeCustomerID = session.Customer.ID
	}
	if session.Subscription != nil {
		in.StripeSubscriptionID = session.Subscription.ID
	}
	return in, nil
}
