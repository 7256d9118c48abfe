package service

import "errors"

var (
	// ErrCouponExists is returned when creating a coupon whose code is already taken
	ErrCouponExists = errors.New("coupon already exists")

	// ErrCouponNotFound is returned when a coupon code cannot be resolved
	ErrCouponNotFound = errors.New("invalid coupon code")

	// ErrCartNotFound is returned when an operation requires an existing cart
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartEmpty is returned when checkout is attempted on an empty cart
	ErrCartEmpty = errors.New("cart is empty")

	// ErrProductNotFound is returned when a product id cannot be resolved
	ErrProductNotFound = errors.New("product not found")

	// ErrProductOutOfStock is returned when adding an unavailable product to a cart
	ErrProductOutOfStock = errors.New("product out of stock")

	// ErrItemNotInCart is returned when updating a cart line that does not exist
	ErrItemNotInCart = errors.New("item not in cart")

	// ErrOrderNotFound is returned when an order id cannot be resolved
	ErrOrderNotFound = errors.New("order not found")

	// ErrAlreadySubscribed is returned when an email is already on the newsletter list
	ErrAlreadySubscribed = errors.New("email already subscribed")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)

// CouponRejectedError reports why a coupon failed validation. The reason is
// customer-facing (handlers return it verbatim with a 400), which is why it
// is carried as data instead of a fixed sentinel.
type CouponRejectedError struct {
	Reason string
}

func (e *CouponRejectedError) Error() string {
	return e.Reason
}
