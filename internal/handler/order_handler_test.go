package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
	"github.com/fairyhunter13/storefront-api/internal/validator"
)

// mockOrderService is a mock implementation of OrderServiceInterface.
type mockOrderService struct {
	checkoutFn func(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error)
	getByIDFn  func(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

func (m *mockOrderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	if m.checkoutFn != nil {
		return m.checkoutFn(ctx, req)
	}
	return &model.Order{ID: uuid.New()}, nil
}

func (m *mockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, service.ErrOrderNotFound
}

func setupOrderApp(mockSvc *mockOrderService) *fiber.App {
	app := fiber.New()
	h := NewOrderHandler(mockSvc, validator.New())
	app.Post("/api/orders", h.Checkout)
	app.Get("/api/orders/:id", h.GetOrder)
	return app
}

const checkoutBody = `{
	"user_id": "user-1",
	"name": "Asha Rao",
	"phone": "+911234567890",
	"email": "asha@example.com",
	"address": "12 MG Road, Bengaluru"
}`

func TestCheckout_Success(t *testing.T) {
	orderID := uuid.New()
	mockSvc := &mockOrderService{
		checkoutFn: func(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
			assert.Equal(t, "user-1", req.UserID)
			assert.Equal(t, "Asha Rao", req.Name)
			return &model.Order{
				ID:            orderID,
				UserID:        "user-1",
				Subtotal:      850,
				Discount:      85,
				TotalAmount:   765,
				CouponCode:    "WELCOME10",
				Status:        model.OrderStatusConfirmed,
				PaymentStatus: model.PaymentStatusCompleted,
			}, nil
		},
	}
	app := setupOrderApp(mockSvc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/orders", checkoutBody))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var order model.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, int64(765), order.TotalAmount)
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
}

func TestCheckout_EmptyCart(t *testing.T) {
	mockSvc := &mockOrderService{
		checkoutFn: func(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
			return nil, service.ErrCartEmpty
		},
	}
	app := setupOrderApp(mockSvc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/orders", checkoutBody))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "cart is empty", decodeError(t, resp))
}

func TestCheckout_MissingAddress(t *testing.T) {
	app := setupOrderApp(&mockOrderService{})

	body := `{"user_id": "user-1", "name": "Asha Rao", "phone": "+911234567890"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/orders", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: address is required", decodeError(t, resp))
}

func TestCheckout_BadEmail(t *testing.T) {
	app := setupOrderApp(&mockOrderService{})

	body := `{
		"user_id": "user-1",
		"name": "Asha Rao",
		"phone": "+911234567890",
		"email": "not-an-email",
		"address": "12 MG Road, Bengaluru"
	}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/orders", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: email must be a valid email address", decodeError(t, resp))
}

func TestGetOrder_Success(t *testing.T) {
	orderID := uuid.New()
	mockSvc := &mockOrderService{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Order, error) {
			assert.Equal(t, orderID, id)
			return &model.Order{ID: orderID, TotalAmount: 765}, nil
		},
	}
	app := setupOrderApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetOrder_NotFound(t *testing.T) {
	mockSvc := &mockOrderService{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Order, error) {
			return nil, service.ErrOrderNotFound
		},
	}
	app := setupOrderApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/"+uuid.NewString(), nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "order not found", decodeError(t, resp))
}

func TestGetOrder_BadID(t *testing.T) {
	app := setupOrderApp(&mockOrderService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/not-a-uuid", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: order id must be a UUID", decodeError(t, resp))
}
