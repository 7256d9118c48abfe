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

// CartServiceInterface defines the interface for cart business logic.
type CartServiceInterface interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID string, productID int64, quantity int) (*model.Cart, error)
	UpdateItem(ctx context.Context, userID string, productID int64, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID string, productID int64) (*model.Cart, error)
	ApplyCoupon(ctx context.Context, userID, code string) (*model.Cart, error)
	RemoveCoupon(ctx context.Context, userID string) (*model.Cart, error)
	Clear(ctx context.Context, userID string) (*model.Cart, error)
}

// CartHandler handles HTTP requests for cart operations.
type CartHandler struct {
	service   CartServiceInterface
	validator *validator.Validate
}

// NewCartHandler creates a new CartHandler with the given service and validator.
func NewCartHandler(svc CartServiceInterface, v *validator.Validate) *CartHandler {
	return &CartHandler{service: svc, validator: v}
}

// cartError maps cart service errors to HTTP responses.
func cartError(c *fiber.Ctx, err error, userID string) error {
	var rejected *service.CouponRejectedError
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	case errors.Is(err, service.ErrProductOutOfStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "product out of stock"})
	case errors.Is(err, service.ErrItemNotInCart):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not in cart"})
	case errors.Is(err, service.ErrCouponNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invalid coupon code"})
	case errors.As(err, &rejected):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": rejected.Reason})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	log.Error().Err(err).Str("user_id", userID).Str("path", c.Path()).Msg("cart operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// GetCart handles GET /api/cart/:userId, creating an empty cart on first read.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: user_id is required"})
	}

	cart, err := h.service.Get(c.Context(), userID)
	if err != nil {
		return cartError(c, err, userID)
	}
	return c.JSON(cart)
}

// AddItem handles POST /api/cart/add.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req model.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	cart, err := h.service.AddItem(c.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return cartError(c, err, req.UserID)
	}
	return c.JSON(cart)
}

// UpdateItem handles PUT /api/cart/update.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var req model.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	cart, err := h.service.UpdateItem(c.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return cartError(c, err, req.UserID)
	}
	return c.JSON(cart)
}

// RemoveItem handles DELETE /api/cart/remove.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	var req model.RemoveItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	cart, err := h.service.RemoveItem(c.Context(), req.UserID, req.ProductID)
	if err != nil {
		return cartError(c, err, req.UserID)
	}
	return c.JSON(cart)
}

// ApplyCoupon handles POST /api/cart/apply-coupon.
func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	var req model.ApplyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	cart, err := h.service.ApplyCoupon(c.Context(), req.UserID, req.CouponCode)
	if err != nil {
		return cartError(c, err, req.UserID)
	}

	log.Info().
		Str("user_id", req.UserID).
		Str("coupon_code", cart.CouponCode).
		Int64("discount", cart.Discount).
		Msg("coupon applied to cart")
	return c.JSON(cart)
}

// RemoveCoupon handles POST /api/cart/remove-coupon.
func (h *CartHandler) RemoveCoupon(c *fiber.Ctx) error {
	var req model.RemoveCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	cart, err := h.service.RemoveCoupon(c.Context(), req.UserID)
	if err != nil {
		return cartError(c, err, req.UserID)
	}
	return c.JSON(cart)
}

// ClearCart handles DELETE /api/cart/clear/:userId.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: user_id is required"})
	}

	cart, err := h.service.Clear(c.Context(), userID)
	if err != nil {
		return cartError(c, err, userID)
	}
	return c.JSON(cart)
}
