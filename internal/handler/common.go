package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"github.com/fitgrid/fitgrid-backend/internal/service"
)

func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

// serviceError translates the business error taxonomy into stable HTTP
// codes. Unknown errors become 500 without leaking internals.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCapacityExceeded):
		return c.Status(fiber.StatusConflict).JSON(models.CodedErrorResponse("CapacityExceeded", "class is fully booked"))
	case errors.Is(err, service.ErrInsufficientCredits):
		return c.Status(fiber.StatusPaymentRequired).JSON(models.CodedErrorResponse("InsufficientCredits", "not enough credits"))
	case errors.Is(err, service.ErrCancellationWindowClosed):
		return c.Status(fiber.StatusConflict).JSON(models.CodedErrorResponse("CancellationWindowClosed", "too close to class start to cancel"))
	case errors.Is(err, service.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(models.CodedErrorResponse("EmptyCart", "cart is empty"))
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(models.CodedErrorResponse("Forbidden", "not allowed"))
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.CodedErrorResponse("NotFound", "resource not found"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("internal error"))
	}
}
