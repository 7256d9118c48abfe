package service

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/storefront-api/internal/model"
)

// ReviewRepositoryInterface defines the interface for review data access.
type ReviewRepositoryInterface interface {
	InsertReview(ctx context.Context, review *model.Review) error
	ListReviews(ctx context.Context, productID int64) ([]model.Review, error)
}

// CatalogService provides product and review reads plus review intake.
type CatalogService struct {
	productRepo ProductRepositoryInterface
	reviewRepo  ReviewRepositoryInterface
}

// NewCatalogService creates a new CatalogService with the given repositories.
func NewCatalogService(productRepo ProductRepositoryInterface, reviewRepo ReviewRepositoryInterface) *CatalogService {
	return &CatalogService{productRepo: productRepo, reviewRepo: reviewRepo}
}

// ListProducts returns the catalog.
func (s *CatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.List(ctx)
}

// GetProduct retrieves a single product.
// Returns ErrProductNotFound when the id does not exist.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// AddReview records a review for an existing product.
// Returns ErrProductNotFound when the product does not exist.
func (s *CatalogService) AddReview(ctx context.Context, productID int64, req *model.CreateReviewRequest) (*model.Review, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	review := &model.Review{
		ProductID: productID,
		Author:    req.Author,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviewRepo.InsertReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns the reviews for an existing product.
// Returns ErrProductNotFound when the product does not exist.
func (s *CatalogService) ListReviews(ctx context.Context, productID int64) ([]model.Review, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.reviewRepo.ListReviews(ctx, productID)
}
