package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/pricing"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, code string) error
	IncrementUsage(ctx context.Context, code string) (bool, error)
}

// NormalizeCode canonicalizes a coupon code for storage and comparison.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponService provides business logic for coupon operations.
type CouponService struct {
	couponRepo CouponRepositoryInterface
}

// NewCouponService creates a new CouponService with the given repository.
func NewCouponService(couponRepo CouponRepositoryInterface) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Create creates a new coupon from the request.
// Returns ErrCouponExists if the code is already taken.
// Returns ErrInvalidRequest if request data is nil or inconsistent.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	// Defense-in-depth: check for nil pointer even though handler validates
	if req == nil || req.DiscountValue == nil {
		return nil, ErrInvalidRequest
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidRequest
	}

	coupon := &model.Coupon{
		Code:          NormalizeCode(req.Code),
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: *req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		UsageLimit:    req.UsageLimit,
		IsActive:      true,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := s.couponRepo.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// ListActive returns the coupons currently inside their validity window.
func (s *CouponService) ListActive(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.couponRepo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return coupons, nil
}

// Validate checks a coupon against an order value and quotes the discount.
// Returns ErrCouponNotFound for unknown codes and CouponRejectedError with
// the specific reason when the coupon is not redeemable.
func (s *CouponService) Validate(ctx context.Context, code string, orderValue int64) (*model.CouponQuote, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	if v := pricing.Validate(*coupon, orderValue, time.Now()); !v.OK {
		return nil, &CouponRejectedError{Reason: v.Reason}
	}

	discount := pricing.Discount(*coupon, orderValue)
	return &model.CouponQuote{
		Code:          coupon.Code,
		Description:   coupon.Description,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
		Discount:      discount,
		FinalAmount:   orderValue - discount,
	}, nil
}

// Update applies a partial update to an existing coupon.
// Returns ErrCouponNotFound when the code does not exist.
func (s *CouponService) Update(ctx context.Context, code string, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	coupon, err := s.couponRepo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	if req.Description != nil {
		coupon.Description = *req.Description
	}
	if req.DiscountType != nil {
		coupon.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.MinOrderValue != nil {
		coupon.MinOrderValue = *req.MinOrderValue
	}
	if req.MaxDiscount != nil {
		coupon.MaxDiscount = req.MaxDiscount
	}
	if req.StartDate != nil {
		coupon.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		coupon.EndDate = *req.EndDate
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = req.UsageLimit
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if coupon.EndDate.Before(coupon.StartDate) {
		return nil, ErrInvalidRequest
	}

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete removes a coupon.
// Returns ErrCouponNotFound when the code does not exist.
func (s *CouponService) Delete(ctx context.Context, code string) error {
	return s.couponRepo.Delete(ctx, NormalizeCode(code))
}
