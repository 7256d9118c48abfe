package model

import "time"

// Discount types supported by coupons.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a named, time-bounded discount rule with an optional usage cap.
// Codes are stored canonically upper-cased; lookups are case-insensitive.
type Coupon struct {
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue int64     `json:"discount_value"`
	MinOrderValue int64     `json:"min_order_value"`
	MaxDiscount   *int64    `json:"max_discount,omitempty"` // percentage coupons only
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	UsageLimit    *int      `json:"usage_limit,omitempty"` // nil = unlimited
	UsedCount     int       `json:"used_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// CreateCouponRequest is the DTO for the admin create endpoint.
type CreateCouponRequest struct {
	Code          string    `json:"code" validate:"required,notblank,couponcode,max=64"`
	Description   string    `json:"description" validate:"required,notblank,max=255"`
	DiscountType  string    `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue *int64    `json:"discount_value" validate:"required,gte=1"`
	MinOrderValue int64     `json:"min_order_value" validate:"gte=0"`
	MaxDiscount   *int64    `json:"max_discount" validate:"omitempty,gte=1"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	UsageLimit    *int      `json:"usage_limit" validate:"omitempty,gte=1"`
	IsActive      *bool     `json:"is_active"`
}

// UpdateCouponRequest carries partial coupon updates; nil fields are left
// unchanged. UsedCount is deliberately not updatable through the API.
type UpdateCouponRequest struct {
	Description   *string    `json:"description" validate:"omitempty,notblank,max=255"`
	DiscountType  *string    `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *int64     `json:"discount_value" validate:"omitempty,gte=1"`
	MinOrderValue *int64     `json:"min_order_value" validate:"omitempty,gte=0"`
	MaxDiscount   *int64     `json:"max_discount" validate:"omitempty,gte=1"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	UsageLimit    *int       `json:"usage_limit" validate:"omitempty,gte=1"`
	IsActive      *bool      `json:"is_active"`
}

// ValidateCouponRequest is the DTO for POST /api/coupons/validate.
type ValidateCouponRequest struct {
	Code       string `json:"code" validate:"required,notblank,couponcode,max=64"`
	OrderValue int64  `json:"order_value" validate:"gte=0"`
}

// CouponQuote is the response for a successful coupon validation: the
// discount the coupon would yield against the given order value.
type CouponQuote struct {
	Code          string `json:"code"`
	Description   string `json:"description"`
	DiscountType  string `json:"discount_type"`
	DiscountValue int64  `json:"discount_value"`
	Discount      int64  `json:"discount"`
	FinalAmount   int64  `json:"final_amount"`
}
