package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

// CartRepository provides data access for carts using pgx. A cart is one
// row in carts plus its cart_items rows; the two are always written
// together inside the caller's transaction.
type CartRepository struct {
	pool PoolInterface
}

// NewCartRepository creates a new CartRepository with the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// NewCartRepositoryWithPool creates a new CartRepository with a custom pool interface.
// This is primarily used for testing.
func NewCartRepositoryWithPool(pool PoolInterface) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get retrieves a user's cart without locking.
// Returns nil, nil if the user has no cart yet (service layer creates one lazily).
func (r *CartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	return r.get(ctx, r.pool, userID, false)
}

// GetForUpdate retrieves a user's cart with a row lock, scoping the caller's
// read-modify-write to a single transaction. Returns nil, nil when absent.
func (r *CartRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, userID string) (*model.Cart, error) {
	return r.get(ctx, tx, userID, true)
}

func (r *CartRepository) get(ctx context.Context, q database.TxQuerier, userID string, lock bool) (*model.Cart, error) {
	query := `SELECT user_id, COALESCE(coupon_code, ''), subtotal, discount, total, updated_at
		FROM carts WHERE user_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var cart model.Cart
	err := q.QueryRow(ctx, query, userID).Scan(
		&cart.UserID, &cart.CouponCode, &cart.Subtotal, &cart.Discount, &cart.Total, &cart.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart for user %s: %w", userID, err)
	}

	rows, err := q.Query(ctx,
		`SELECT product_id, quantity, unit_price FROM cart_items WHERE user_id = $1 ORDER BY product_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("get cart items for user %s: %w", userID, err)
	}
	defer rows.Close()

	cart.Items = []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}
	return &cart, nil
}

// Save upserts the cart row and replaces its items. Must be called within
// the transaction that read the cart, so the recompute stays one
// read-modify-write.
func (r *CartRepository) Save(ctx context.Context, tx database.TxQuerier, cart *model.Cart) error {
	var couponCode any
	if cart.CouponCode != "" {
		couponCode = cart.CouponCode
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO carts (user_id, coupon_code, subtotal, discount, total, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			coupon_code = EXCLUDED.coupon_code,
			subtotal = EXCLUDED.subtotal,
			discount = EXCLUDED.discount,
			total = EXCLUDED.total,
			updated_at = now()`,
		cart.UserID, couponCode, cart.Subtotal, cart.Discount, cart.Total)
	if err != nil {
		return fmt.Errorf("upsert cart for user %s: %w", cart.UserID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, cart.UserID); err != nil {
		return fmt.Errorf("clear cart items for user %s: %w", cart.UserID, err)
	}

	for _, it := range cart.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO cart_items (user_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4)`,
			cart.UserID, it.ProductID, it.Quantity, it.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert cart item for user %s: %w", cart.UserID, err)
		}
	}
	return nil
}
