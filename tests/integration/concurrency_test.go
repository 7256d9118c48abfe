//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/repository"
	"github.com/fairyhunter13/storefront-api/internal/service"
)

// TestConcurrentRedemptionAtLimit verifies that the conditional UPDATE keeps
// the redemption counter at or below usage_limit no matter how many
// increments race for the last slots.
func TestConcurrentRedemptionAtLimit(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 5 redemption slots, 20 concurrent attempts
	usageLimit := 5
	attempts := 20
	createTestCoupon(t, "LAST_SLOTS", "fixed", 50, 0, 0, usageLimit)

	couponRepo := repository.NewCouponRepository(testPool)

	var wg sync.WaitGroup
	results := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			redeemed, err := couponRepo.IncrementUsage(ctx, "LAST_SLOTS")
			require.NoError(t, err)
			results <- redeemed
		}()
	}

	wg.Wait()
	close(results)

	var successes, refusals int
	for redeemed := range results {
		if redeemed {
			successes++
		} else {
			refusals++
		}
	}

	assert.Equal(t, usageLimit, successes, "Exactly %d increments should succeed", usageLimit)
	assert.Equal(t, attempts-usageLimit, refusals, "The rest should be refused")
	assert.Equal(t, usageLimit, getCouponUsage(t, "LAST_SLOTS"), "used_count must never pass usage_limit")
}

// TestConcurrentCheckoutsRedeemOncePerOrder runs concurrent checkouts from
// distinct users sharing one coupon and verifies one redemption per placed
// order.
func TestConcurrentCheckoutsRedeemOncePerOrder(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	users := 8
	productID := createTestProduct(t, "Mango Cooler 6-pack", 425)
	createTestCoupon(t, "SHARED10", "percentage", 10, 500, 0, 0)

	couponRepo := repository.NewCouponRepository(testPool)
	cartRepo := repository.NewCartRepository(testPool)
	productRepo := repository.NewProductRepository(testPool)
	orderRepo := repository.NewOrderRepository(testPool)

	cartService := service.NewCartService(testPool, cartRepo, productRepo, couponRepo)
	orderService := service.NewOrderService(testPool, cartRepo, couponRepo, orderRepo, nil)

	// Each user builds a qualifying cart with the coupon applied
	for i := 0; i < users; i++ {
		userID := fmt.Sprintf("conc_user_%d", i)
		_, err := cartService.AddItem(ctx, userID, productID, 2)
		require.NoError(t, err)
		_, err = cartService.ApplyCoupon(ctx, userID, "SHARED10")
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make(chan error, users)

	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := orderService.Checkout(ctx, &model.CheckoutRequest{
				UserID:  userID,
				Name:    "Load Tester",
				Phone:   "+910000000000",
				Address: "1 Test Lane",
			})
			results <- err
		}(fmt.Sprintf("conc_user_%d", i))
	}

	wg.Wait()
	close(results)

	for err := range results {
		assert.NoError(t, err)
	}

	assert.Equal(t, users, getCouponUsage(t, "SHARED10"), "one redemption per placed order")

	var orderCount int
	err := testPool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&orderCount)
	require.NoError(t, err)
	assert.Equal(t, users, orderCount)
}

// TestConcurrentCartMutationsSameUser hammers one cart with concurrent
// mutations; the row lock serializes them, so the final state is consistent
// and totals always match the items.
func TestConcurrentCartMutationsSameUser(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	productID := createTestProduct(t, "Lychee Fizz", 100)

	couponRepo := repository.NewCouponRepository(testPool)
	cartRepo := repository.NewCartRepository(testPool)
	productRepo := repository.NewProductRepository(testPool)
	cartService := service.NewCartService(testPool, cartRepo, productRepo, couponRepo)

	adds := 10
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cartService.AddItem(ctx, "hammer_user", productID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := cartService.Get(ctx, "hammer_user")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, adds, cart.Items[0].Quantity, "every add must land exactly once")
	assert.Equal(t, int64(adds*100), cart.Subtotal)
	assert.Equal(t, cart.Subtotal, cart.Total)
}
