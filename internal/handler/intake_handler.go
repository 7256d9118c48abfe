package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
)

// IntakeServiceInterface defines the interface for intake business logic.
type IntakeServiceInterface interface {
	Apply(ctx context.Context, req *model.CareerApplicationRequest) (*model.CareerApplication, error)
	Subscribe(ctx context.Context, email string) error
}

// IntakeHandler handles career applications and newsletter signups.
type IntakeHandler struct {
	service   IntakeServiceInterface
	validator *validator.Validate
}

// NewIntakeHandler creates a new IntakeHandler with the given service and validator.
func NewIntakeHandler(svc IntakeServiceInterface, v *validator.Validate) *IntakeHandler {
	return &IntakeHandler{service: svc, validator: v}
}

// Apply handles POST /api/careers/apply.
func (h *IntakeHandler) Apply(c *fiber.Ctx) error {
	var req model.CareerApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	app, err := h.service.Apply(c.Context(), &req)
	if err != nil {
		log.Error().Err(err).Str("position", req.Position).Msg("failed to record career application")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

// Subscribe handles POST /api/newsletter/subscribe.
func (h *IntakeHandler) Subscribe(c *fiber.Ctx) error {
	var req model.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.Subscribe(c.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrAlreadySubscribed) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already subscribed"})
		}
		log.Error().Err(err).Msg("failed to subscribe email")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "subscribed"})
}
