package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"github.com/fitgrid/fitgrid-backend/internal/service"
	"github.com/fitgrid/fitgrid-backend/pkg/utils"
)

type BookingHandler struct {
	bookingService *service.BookingService
	validator      *utils.Validator
}

func NewBookingHandler(bookingService *service.BookingService, validator *utils.Validator) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      validator,
	}
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	booking, err := h.bookingService.Reserve(userID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(booking, "booking confirmed"))
}

func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid booking ID"))
	}

	if err := h.bookingService.Cancel(userID, uint(bookingID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "booking cancelled"))
}

func (h *BookingHandler) GetMyBookings(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	bookings, err := h.bookingService.GetUserBookings(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(bookings, ""))
}
