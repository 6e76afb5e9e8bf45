package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nimbusdb/nimbus/internal/pkg/billing"
	"github.com/nimbusdb/nimbus/internal/pkg/database"
	"github.com/nimbusdb/nimbus/internal/pkg/usercontext"
)

type checkoutRequest struct {
	TierID uint `json:"tierId"`
}

func billingService() *billing.Service {
	return billing.NewServiceFromDB(
		database.GetDB(),
		billing.NewStripeGatewayFromEnv(),
		billing.ConfigFromEnv(),
	)
}

// HandleCreateCheckout starts a hosted Stripe checkout for the caller.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	session, err := billingService().CreateCheckout(ctx, userCtx.UserID, userCtx.Email, req.TierID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrTierNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tier not found"})
		case errors.Is(err, billing.ErrActiveSubscriptionExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User already has an active subscription"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create checkout session"})
		}
	}

	return c.JSON(fiber.Map{"sessionId": session.SessionID, "sessionUrl": session.SessionURL})
}

// HandleGetMySubscription returns the caller's most recent subscription.
func HandleGetMySubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := billingService().GetCurrentSubscription(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No subscription found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch subscription"})
	}

	return c.JSON(fiber.Map{"subscription": sub})
}

// HandleCancelSubscription cancels the caller's active subscription at Stripe
// first, then locally.
func HandleCancelSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sub, err := billingService().CancelSubscription(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active subscription not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel subscription"})
	}

	return c.JSON(fiber.Map{"message": "Subscription canceled successfully", "subscription": sub})
}
