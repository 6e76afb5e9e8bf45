package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/nimbusdb/nimbus/app/controllers"
	"github.com/nimbusdb/nimbus/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(), middleware.UserContextMiddleware())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")
	subs := v1.Group("/subscriptions")

	// Tier catalog
	subs.Post("/tiers", controllers.HandleCreateTier)
	subs.Get("/tiers", controllers.HandleListTiers)
	subs.Get("/tiers/:tierId", controllers.HandleGetTier)
	subs.Patch("/tiers/:tierId", controllers.HandleUpdateTier)
	subs.Post("/tiers/initialize", controllers.HandleInitializeTiers)

	// Subscription lifecycle (authenticated caller)
	subs.Post("/checkout", middleware.RequireAuth, controllers.HandleCreateCheckout)
	subs.Get("/my-subscription", middleware.RequireAuth, controllers.HandleGetMySubscription)
	subs.Post("/cancel", middleware.RequireAuth, controllers.HandleCancelSubscription)

	// Stripe events (signature-verified, no session auth)
	subs.Post("/webhook", controllers.HandleStripeWebhook)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
