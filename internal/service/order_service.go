package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/pricing"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

// OrderRepositoryInterface defines the interface for order data access.
type OrderRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// Mailer sends order and intake notifications. Delivery is best-effort;
// callers dispatch asynchronously and only log failures.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order) error
	SendOrderAlert(ctx context.Context, order *model.Order) error
	SendCareerAlert(ctx context.Context, app *model.CareerApplication) error
}

const mailTimeout = 30 * time.Second

// OrderService turns carts into confirmed orders. Payment is bypassed in
// this deployment, so order creation is the single redemption commit point:
// the coupon usage counter is incremented exactly once per placed order.
type OrderService struct {
	pool       TxBeginner
	cartRepo   CartRepositoryInterface
	couponRepo CouponRepositoryInterface
	orderRepo  OrderRepositoryInterface
	mailer     Mailer
}

// NewOrderService creates a new OrderService with the given pool, repositories and mailer.
func NewOrderService(pool *pgxpool.Pool, cartRepo CartRepositoryInterface, couponRepo CouponRepositoryInterface, orderRepo OrderRepositoryInterface, mailer Mailer) *OrderService {
	return &OrderService{pool: pool, cartRepo: cartRepo, couponRepo: couponRepo, orderRepo: orderRepo, mailer: mailer}
}

// NewOrderServiceWithTxBeginner creates an OrderService with a custom TxBeginner.
// Primarily used for testing.
func NewOrderServiceWithTxBeginner(pool TxBeginner, cartRepo CartRepositoryInterface, couponRepo CouponRepositoryInterface, orderRepo OrderRepositoryInterface, mailer Mailer) *OrderService {
	return &OrderService{pool: pool, cartRepo: cartRepo, couponRepo: couponRepo, orderRepo: orderRepo, mailer: mailer}
}

// Checkout places an order for the user's cart. The cart is re-read and
// recomputed inside the transaction; client-supplied totals are never
// trusted. The order insert and the cart clear commit together, then the
// coupon redemption counter is bumped. A failed bump is logged as a data
// inconsistency and does not undo the order: the customer's transaction
// already completed.
func (s *OrderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	cart, err := s.cartRepo.GetForUpdate(ctx, tx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	// Authoritative totals: recompute from the persisted cart state.
	var coupon *model.Coupon
	if cart.CouponCode != "" {
		coupon, err = s.couponRepo.GetByCode(ctx, cart.CouponCode)
		if err != nil {
			return nil, fmt.Errorf("get applied coupon: %w", err)
		}
	}
	totals := pricing.Recompute(cart.Items, coupon, time.Now())
	if totals.Detached {
		log.Info().
			Str("user_id", req.UserID).
			Str("coupon_code", cart.CouponCode).
			Msg("coupon detached at checkout")
	}

	order := &model.Order{
		ID:     uuid.New(),
		UserID: req.UserID,
		Customer: model.CustomerInfo{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
		},
		Items:         make([]model.OrderItem, 0, len(cart.Items)),
		CouponCode:    totals.CouponCode,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		TotalAmount:   totals.Total,
		Status:        model.OrderStatusConfirmed,
		PaymentStatus: model.PaymentStatusCompleted,
		CreatedAt:     time.Now(),
	}
	for _, it := range cart.Items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	if err := s.orderRepo.Insert(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	// Clear the cart in the same transaction. A checkout retry then finds
	// an empty cart, which also guarantees the redemption below cannot run
	// twice for the same order.
	cleared := &model.Cart{UserID: req.UserID, Items: []model.CartItem{}}
	if err := s.cartRepo.Save(ctx, tx, cleared); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	if order.CouponCode != "" {
		s.redeem(ctx, order)
	}
	s.notify(order)

	return order, nil
}

// redeem commits the coupon redemption for a placed order. Failures are
// reported, never propagated: counter accuracy ranks below order
// correctness for the customer.
func (s *OrderService) redeem(ctx context.Context, order *model.Order) {
	redeemed, err := s.couponRepo.IncrementUsage(ctx, order.CouponCode)
	if err != nil {
		log.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("coupon_code", order.CouponCode).
			Msg("coupon redemption commit failed, order stands")
		return
	}
	if !redeemed {
		log.Warn().
			Str("order_id", order.ID.String()).
			Str("coupon_code", order.CouponCode).
			Msg("coupon vanished or limit reached before redemption commit, order stands")
	}
}

// notify dispatches order emails in the background so checkout latency
// never depends on the mail server.
func (s *OrderService) notify(order *model.Order) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if order.Customer.Email != "" {
			if err := s.mailer.SendOrderConfirmation(ctx, order); err != nil {
				log.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to send order confirmation")
			}
		}
		if err := s.mailer.SendOrderAlert(ctx, order); err != nil {
			log.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to send admin order alert")
		}
	}()
}

// GetByID retrieves a placed order.
// Returns ErrOrderNotFound when the id does not exist.
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}
