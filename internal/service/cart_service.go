package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/pricing"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

// CartRepositoryInterface defines the interface for cart data access.
type CartRepositoryInterface interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, userID string) (*model.Cart, error)
	Save(ctx context.Context, tx database.TxQuerier, cart *model.Cart) error
}

// ProductRepositoryInterface defines the interface for catalog reads.
type ProductRepositoryInterface interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CartService provides business logic for cart operations. Every mutation
// runs as one read-modify-write transaction: lock the cart row, apply the
// change, recompute totals, persist. The recompute re-validates an applied
// coupon and detaches it when it no longer holds, so a cart can never carry
// a stale discount.
type CartService struct {
	pool        TxBeginner
	cartRepo    CartRepositoryInterface
	productRepo ProductRepositoryInterface
	couponRepo  CouponRepositoryInterface
}

// NewCartService creates a new CartService with the given pool and repositories.
func NewCartService(pool *pgxpool.Pool, cartRepo CartRepositoryInterface, productRepo ProductRepositoryInterface, couponRepo CouponRepositoryInterface) *CartService {
	return &CartService{pool: pool, cartRepo: cartRepo, productRepo: productRepo, couponRepo: couponRepo}
}

// NewCartServiceWithTxBeginner creates a CartService with a custom TxBeginner.
// Primarily used for testing.
func NewCartServiceWithTxBeginner(pool TxBeginner, cartRepo CartRepositoryInterface, productRepo ProductRepositoryInterface, couponRepo CouponRepositoryInterface) *CartService {
	return &CartService{pool: pool, cartRepo: cartRepo, productRepo: productRepo, couponRepo: couponRepo}
}

// mutate runs fn against the user's cart inside a single transaction,
// creating the cart lazily, then recomputes and persists it.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(cart *model.Cart) error) (*model.Cart, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	cart, err := s.cartRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		cart = &model.Cart{UserID: userID, Items: []model.CartItem{}}
	}

	if err := fn(cart); err != nil {
		return nil, err
	}

	if err := s.recompute(ctx, cart); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, tx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return cart, nil
}

// recompute derives subtotal, discount and total from the cart's items and
// applied coupon. A coupon that no longer resolves or validates is detached
// rather than silently kept; that heals carts whose coupon expired or whose
// subtotal dropped below the minimum mid-session.
func (s *CartService) recompute(ctx context.Context, cart *model.Cart) error {
	var coupon *model.Coupon
	if cart.CouponCode != "" {
		var err error
		coupon, err = s.couponRepo.GetByCode(ctx, cart.CouponCode)
		if err != nil {
			return fmt.Errorf("get applied coupon: %w", err)
		}
		if coupon == nil {
			log.Warn().
				Str("user_id", cart.UserID).
				Str("coupon_code", cart.CouponCode).
				Msg("applied coupon no longer exists, detaching")
		}
	}

	totals := pricing.Recompute(cart.Items, coupon, time.Now())
	if totals.Detached {
		log.Info().
			Str("user_id", cart.UserID).
			Str("coupon_code", cart.CouponCode).
			Int64("subtotal", totals.Subtotal).
			Msg("coupon no longer valid for cart, detaching")
	}

	cart.Subtotal = totals.Subtotal
	cart.Discount = totals.Discount
	cart.Total = totals.Total
	cart.CouponCode = totals.CouponCode
	return nil
}

// Get returns the user's cart, creating an empty one on first read. Totals
// are recomputed on the way out, so a stale coupon is healed even on reads.
func (s *CartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	return s.mutate(ctx, userID, func(*model.Cart) error { return nil })
}

// AddItem adds a product to the cart or bumps its quantity, snapshotting
// the catalog price at add time.
// Returns ErrProductNotFound or ErrProductOutOfStock for bad products.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.InStock {
		return nil, ErrProductOutOfStock
	}

	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity += quantity
				return nil
			}
		}
		cart.Items = append(cart.Items, model.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.Price,
		})
		return nil
	})
}

// UpdateItem sets the quantity of an existing cart line.
// Returns ErrItemNotInCart when the product is not in the cart.
func (s *CartService) UpdateItem(ctx context.Context, userID string, productID int64, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidRequest
	}

	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity = quantity
				return nil
			}
		}
		return ErrItemNotInCart
	})
}

// RemoveItem drops a product from the cart. Removing a product that is not
// in the cart is a no-op, matching the storefront's idempotent delete.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int64) (*model.Cart, error) {
	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		kept := cart.Items[:0]
		for _, it := range cart.Items {
			if it.ProductID != productID {
				kept = append(kept, it)
			}
		}
		cart.Items = kept
		return nil
	})
}

// ApplyCoupon validates a coupon against the cart's current subtotal and
// attaches it. Returns ErrCouponNotFound for unknown codes and
// CouponRejectedError with the specific reason when not redeemable.
func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (*model.Cart, error) {
	code = NormalizeCode(code)

	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		var subtotal int64
		for _, it := range cart.Items {
			subtotal += it.LineTotal()
		}
		if v := pricing.Validate(*coupon, subtotal, time.Now()); !v.OK {
			return &CouponRejectedError{Reason: v.Reason}
		}
		cart.CouponCode = coupon.Code
		return nil
	})
}

// RemoveCoupon detaches the applied coupon, if any.
func (s *CartService) RemoveCoupon(ctx context.Context, userID string) (*model.Cart, error) {
	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		cart.CouponCode = ""
		return nil
	})
}

// Clear empties the cart and resets the coupon and totals.
func (s *CartService) Clear(ctx context.Context, userID string) (*model.Cart, error) {
	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		cart.Items = []model.CartItem{}
		cart.CouponCode = ""
		return nil
	})
}
