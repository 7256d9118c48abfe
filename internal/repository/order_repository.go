package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

// OrderRepository provides data access for orders using pgx.
type OrderRepository struct {
	pool PoolInterface
}

// NewOrderRepository creates a new OrderRepository with the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// NewOrderRepositoryWithPool creates a new OrderRepository with a custom pool interface.
// This is primarily used for testing.
func NewOrderRepositoryWithPool(pool PoolInterface) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Insert writes an order and its item snapshot within the caller's
// transaction, so the order only exists together with the cart clear.
func (r *OrderRepository) Insert(ctx context.Context, tx database.TxQuerier, order *model.Order) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, customer_name, customer_phone, customer_email, address,
			coupon_code, subtotal, discount, total_amount, status, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		order.ID, order.UserID, order.Customer.Name, order.Customer.Phone, order.Customer.Email,
		order.Customer.Address, order.CouponCode, order.Subtotal, order.Discount,
		order.TotalAmount, order.Status, order.PaymentStatus)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", order.ID, err)
	}

	for _, it := range order.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4)`,
			order.ID, it.ProductID, it.Quantity, it.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert order item for %s: %w", order.ID, err)
		}
	}
	return nil
}

// GetByID retrieves an order with its items.
// Returns service.ErrOrderNotFound when the id does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, customer_name, customer_phone, customer_email, address,
			coupon_code, subtotal, discount, total_amount, status, payment_status, created_at
		 FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.UserID, &o.Customer.Name, &o.Customer.Phone, &o.Customer.Email,
			&o.Customer.Address, &o.CouponCode, &o.Subtotal, &o.Discount, &o.TotalAmount,
			&o.Status, &o.PaymentStatus, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity, unit_price FROM order_items WHERE order_id = $1 ORDER BY product_id`,
		id)
	if err != nil {
		return nil, fmt.Errorf("get order items for %s: %w", id, err)
	}
	defer rows.Close()

	o.Items = []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}
	return &o, nil
}
