package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"github.com/fitgrid/fitgrid-backend/internal/service"
	"github.com/fitgrid/fitgrid-backend/pkg/utils"
)

type CartHandler struct {
	cartService *service.CartService
	validator   *utils.Validator
}

func NewCartHandler(cartService *service.CartService, validator *utils.Validator) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator,
	}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	cart, err := h.cartService.GetCart(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(cart, ""))
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	cart, err := h.cartService.AddItem(userID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(cart, "item added"))
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid item ID"))
	}

	if err := h.cartService.RemoveItem(userID, uint(itemID)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "item removed"))
}
