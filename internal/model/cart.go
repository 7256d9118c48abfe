package model

import "time"

// CartItem is a single cart line. UnitPrice is captured when the item is
// added and never re-read from the catalog.
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// LineTotal returns the item's contribution to the cart subtotal.
func (i CartItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Cart is the per-user mutable cart. Subtotal, Discount and Total are
// derived fields, recomputed on every mutation; the persisted values are
// the source of truth at checkout.
type Cart struct {
	UserID     string     `json:"user_id"`
	Items      []CartItem `json:"items"`
	Subtotal   int64      `json:"subtotal"`
	Discount   int64      `json:"discount"`
	CouponCode string     `json:"coupon_code,omitempty"`
	Total      int64      `json:"total"`
	UpdatedAt  time.Time  `json:"-"`
}

// AddItemRequest is the DTO for POST /api/cart/add.
type AddItemRequest struct {
	UserID    string `json:"user_id" validate:"required,notblank,max=255"`
	ProductID int64  `json:"product_id" validate:"required,gte=1"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

// UpdateItemRequest is the DTO for PUT /api/cart/update.
type UpdateItemRequest struct {
	UserID    string `json:"user_id" validate:"required,notblank,max=255"`
	ProductID int64  `json:"product_id" validate:"required,gte=1"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// RemoveItemRequest is the DTO for DELETE /api/cart/remove.
type RemoveItemRequest struct {
	UserID    string `json:"user_id" validate:"required,notblank,max=255"`
	ProductID int64  `json:"product_id" validate:"required,gte=1"`
}

// ApplyCouponRequest is the DTO for POST /api/cart/apply-coupon.
type ApplyCouponRequest struct {
	UserID     string `json:"user_id" validate:"required,notblank,max=255"`
	CouponCode string `json:"coupon_code" validate:"required,notblank,couponcode,max=64"`
}

// RemoveCouponRequest is the DTO for POST /api/cart/remove-coupon.
type RemoveCouponRequest struct {
	UserID string `json:"user_id" validate:"required,notblank,max=255"`
}
