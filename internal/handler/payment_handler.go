package handler

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"github.com/fitgrid/fitgrid-backend/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	ledger         *service.Ledger
	packageService *service.PackageService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, ledger *service.Ledger, packageService *service.PackageService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		ledger:         ledger,
		packageService: packageService,
		logger:         logger,
	}
}

func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	session, err := h.paymentService.Checkout(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(session, ""))
}

// HandleStripeWebhook verifies the provider signature and applies the
// event. A non-200 response here makes Stripe retry, which is safe
// because reconciliation is idempotent.
func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid webhook signature"))
	}

	if err := h.paymentService.HandleStripeWebhook(&event); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		// Not acknowledged; the provider will retry.
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("webhook processing failed"))
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PaymentHandler) GetCreditPackages(c *fiber.Ctx) error {
	packages, err := h.packageService.GetAllPackages()
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(packages, ""))
}

func (h *PaymentHandler) GetBalance(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	balance, err := h.ledger.GetBalance(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(balance, ""))
}

func (h *PaymentHandler) GetCreditHistory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	entries, err := h.ledger.GetHistory(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(entries, ""))
}
