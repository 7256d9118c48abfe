// Package pricing implements the coupon validation, discount calculation
// and cart recomputation rules. Everything here is a pure function of its
// inputs; persistence and transport live elsewhere.
package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/storefront-api/internal/model"
)

// Validation is the outcome of checking a coupon against an order value.
// Reason is set only when OK is false and is safe to show to customers.
type Validation struct {
	OK     bool
	Reason string
}

var hundred = decimal.NewFromInt(100)

// Validate checks whether a coupon is redeemable against the given order
// subtotal at the given instant. Checks run in a fixed order so the caller
// always gets the single most specific reason. The validity window is
// inclusive on both ends, and orderValue equal to the minimum qualifies.
func Validate(c model.Coupon, orderValue int64, now time.Time) Validation {
	if !c.IsActive {
		return Validation{Reason: "coupon is inactive"}
	}
	if now.Before(c.StartDate) {
		return Validation{Reason: "coupon not yet active"}
	}
	if now.After(c.EndDate) {
		return Validation{Reason: "coupon has expired"}
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return Validation{Reason: "coupon usage limit reached"}
	}
	if orderValue < c.MinOrderValue {
		return Validation{Reason: fmt.Sprintf("minimum order value ₹%d required", c.MinOrderValue)}
	}
	return Validation{OK: true}
}

// Discount computes the discount amount a coupon yields on the given order
// value. Percentage discounts round half-up to the nearest whole unit and
// are clamped to MaxDiscount when set. The result never exceeds the order
// value, so totals cannot go negative.
func Discount(c model.Coupon, orderValue int64) int64 {
	var amount int64
	switch c.DiscountType {
	case model.DiscountPercentage:
		amount = decimal.NewFromInt(orderValue).
			Mul(decimal.NewFromInt(c.DiscountValue)).
			Div(hundred).
			Round(0).
			IntPart()
		if c.MaxDiscount != nil && amount > *c.MaxDiscount {
			amount = *c.MaxDiscount
		}
	case model.DiscountFixed:
		amount = c.DiscountValue
	}
	if amount > orderValue {
		amount = orderValue
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

// Totals is the result of recomputing a cart.
type Totals struct {
	Subtotal   int64
	Discount   int64
	Total      int64
	CouponCode string
	// Detached reports that a previously applied coupon no longer holds
	// (expired mid-session, subtotal dropped below the minimum, or the
	// coupon record disappeared) and was dropped from the cart.
	Detached bool
}

// Recompute derives cart totals from the current items and the applied
// coupon, if any. Pass nil for coupon when no coupon is applied or when the
// recorded code no longer resolves; a stale coupon is detached rather than
// silently kept. The function is deterministic and idempotent: recomputing
// an unchanged cart yields identical totals.
func Recompute(items []model.CartItem, coupon *model.Coupon, now time.Time) Totals {
	var subtotal int64
	for _, it := range items {
		subtotal += it.LineTotal()
	}

	t := Totals{Subtotal: subtotal, Total: subtotal}
	if coupon == nil {
		return t
	}

	if v := Validate(*coupon, subtotal, now); !v.OK {
		t.Detached = true
		return t
	}

	t.CouponCode = coupon.Code
	t.Discount = Discount(*coupon, subtotal)
	t.Total = subtotal - t.Discount
	if t.Total < 0 {
		t.Total = 0
	}
	return t
}
