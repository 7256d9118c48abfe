package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
)

// CatalogServiceInterface defines the interface for catalog business logic.
type CatalogServiceInterface interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	AddReview(ctx context.Context, productID int64, req *model.CreateReviewRequest) (*model.Review, error)
	ListReviews(ctx context.Context, productID int64) ([]model.Review, error)
}

// CatalogHandler handles HTTP requests for products and reviews.
type CatalogHandler struct {
	service   CatalogServiceInterface
	validator *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler with the given service and validator.
func NewCatalogHandler(svc CatalogServiceInterface, v *validator.Validate) *CatalogHandler {
	return &CatalogHandler{service: svc, validator: v}
}

func productID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// ListProducts handles GET /api/products.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(products)
}

// GetProduct handles GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: product id must be numeric"})
	}

	product, err := h.service.GetProduct(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(product)
}

// ListReviews handles GET /api/products/:id/reviews.
func (h *CatalogHandler) ListReviews(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: product id must be numeric"})
	}

	reviews, err := h.service.ListReviews(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to list reviews")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(reviews)
}

// CreateReview handles POST /api/products/:id/reviews.
func (h *CatalogHandler) CreateReview(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: product id must be numeric"})
	}

	var req model.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	review, err := h.service.AddReview(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to create review")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
