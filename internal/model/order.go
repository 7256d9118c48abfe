package model

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Payment is bypassed in this deployment, so orders are
// confirmed and marked paid at creation.
const (
	OrderStatusConfirmed = "confirmed"

	PaymentStatusCompleted = "completed"
)

// OrderItem is an immutable snapshot of a cart line at checkout.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// CustomerInfo is the shipping/contact block recorded on an order.
// Email is optional; confirmation mail is only sent when present.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
}

// Order is a priced, confirmed purchase. Totals are copied from the
// authoritative cart recomputation at checkout, never from the client.
type Order struct {
	ID            uuid.UUID    `json:"id"`
	UserID        string       `json:"user_id"`
	Customer      CustomerInfo `json:"customer"`
	Items         []OrderItem  `json:"items"`
	CouponCode    string       `json:"coupon_code,omitempty"`
	Subtotal      int64        `json:"subtotal"`
	Discount      int64        `json:"discount"`
	TotalAmount   int64        `json:"total_amount"`
	Status        string       `json:"status"`
	PaymentStatus string       `json:"payment_status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// CheckoutRequest is the DTO for POST /api/orders.
type CheckoutRequest struct {
	UserID  string `json:"user_id" validate:"required,notblank,max=255"`
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Phone   string `json:"phone" validate:"required,notblank,max=20"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Address string `json:"address" validate:"required,notblank,max=500"`
}
