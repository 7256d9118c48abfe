package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `code, description, discount_type, discount_value, min_order_value,
	max_discount, start_date, end_date, usage_limit, used_count, is_active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.Code, &c.Description, &c.DiscountType, &c.DiscountValue, &c.MinOrderValue,
		&c.MaxDiscount, &c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsedCount,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert inserts a new coupon. Codes are stored upper-cased.
// Returns service.ErrCouponExists on a duplicate code.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO coupons (code, description, discount_type, discount_value, min_order_value,
			max_discount, start_date, end_date, usage_limit, used_count, is_active)
		 VALUES (upper($1), $2, $3, $4, $5, $6, $7, $8, $9, 0, $10)`,
		coupon.Code, coupon.Description, coupon.DiscountType, coupon.DiscountValue,
		coupon.MinOrderValue, coupon.MaxDiscount, coupon.StartDate, coupon.EndDate,
		coupon.UsageLimit, coupon.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by code, case-insensitively.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = upper($1)`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	return coupon, nil
}

// ListActive returns coupons that are active and inside their validity
// window at the given instant.
func (r *CouponRepository) ListActive(ctx context.Context, now time.Time) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons
		WHERE is_active AND start_date <= $1 AND end_date >= $1
		ORDER BY code`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// Update persists coupon fields other than the usage counter.
// Returns service.ErrCouponNotFound when the code does not exist.
func (r *CouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE coupons SET description = $2, discount_type = $3, discount_value = $4,
			min_order_value = $5, max_discount = $6, start_date = $7, end_date = $8,
			usage_limit = $9, is_active = $10, updated_at = now()
		 WHERE code = upper($1)`,
		coupon.Code, coupon.Description, coupon.DiscountType, coupon.DiscountValue,
		coupon.MinOrderValue, coupon.MaxDiscount, coupon.StartDate, coupon.EndDate,
		coupon.UsageLimit, coupon.IsActive)
	if err != nil {
		return fmt.Errorf("update coupon %s: %w", coupon.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// Delete removes a coupon by code.
// Returns service.ErrCouponNotFound when the code does not exist.
func (r *CouponRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE code = upper($1)`, code)
	if err != nil {
		return fmt.Errorf("delete coupon %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// IncrementUsage bumps a coupon's redemption counter by exactly one, but
// only while the counter is still below the usage limit. The conditional
// UPDATE makes concurrent redemptions near the limit safe: the counter can
// never pass usage_limit. Returns false when no row qualified (coupon gone
// or limit already reached).
func (r *CouponRepository) IncrementUsage(ctx context.Context, code string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE coupons SET used_count = used_count + 1, updated_at = now()
		 WHERE code = upper($1) AND (usage_limit IS NULL OR used_count < usage_limit)`,
		code)
	if err != nil {
		return false, fmt.Errorf("increment usage for %s: %w", code, err)
	}
	return tag.RowsAffected() > 0, nil
}
