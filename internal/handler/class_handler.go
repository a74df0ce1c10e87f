package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"github.com/fitgrid/fitgrid-backend/internal/service"
	"github.com/fitgrid/fitgrid-backend/pkg/utils"
)

type ClassHandler struct {
	classService    *service.ClassService
	scheduleService *service.ScheduleService
	validator       *utils.Validator
}

func NewClassHandler(classService *service.ClassService, scheduleService *service.ScheduleService, validator *utils.Validator) *ClassHandler {
	return &ClassHandler{
		classService:    classService,
		scheduleService: scheduleService,
		validator:       validator,
	}
}

func (h *ClassHandler) CreateClass(c *fiber.Ctx) error {
	trainerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	def, err := h.classService.CreateClass(trainerID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(def, "class created"))
}

func (h *ClassHandler) GetMyClasses(c *fiber.Ctx) error {
	trainerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	defs, err := h.classService.GetTrainerClasses(trainerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(defs, ""))
}

func (h *ClassHandler) AssignWorkout(c *fiber.Ctx) error {
	trainerID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	classID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid class ID"))
	}
	date := c.Params("date")

	var req models.AssignWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	workout, err := h.classService.AssignWorkout(trainerID, uint(classID), date, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(workout, "workout assigned"))
}

// GetSchedule returns the expanded occurrences for the week containing
// the requested start date (defaults to the current week).
func (h *ClassHandler) GetSchedule(c *fiber.Ctx) error {
	weekStart := time.Now().UTC()
	if week := c.Query("week"); week != "" {
		parsed, err := time.ParseInLocation("2006-01-02", week, time.UTC)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid week date, expected YYYY-MM-DD"))
		}
		weekStart = parsed
	}

	occurrences, err := h.scheduleService.WeekSchedule(weekStart)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(occurrences, ""))
}
