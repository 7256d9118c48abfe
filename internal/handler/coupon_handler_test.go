package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
	"github.com/fairyhunter13/storefront-api/internal/validator"
)

// mockCouponService is a mock implementation of CouponServiceInterface.
type mockCouponService struct {
	createFn     func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	listActiveFn func(ctx context.Context) ([]model.Coupon, error)
	validateFn   func(ctx context.Context, code string, orderValue int64) (*model.CouponQuote, error)
	updateFn     func(ctx context.Context, code string, req *model.UpdateCouponRequest) (*model.Coupon, error)
	deleteFn     func(ctx context.Context, code string) error
}

func (m *mockCouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &model.Coupon{}, nil
}

func (m *mockCouponService) ListActive(ctx context.Context) ([]model.Coupon, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return []model.Coupon{}, nil
}

func (m *mockCouponService) Validate(ctx context.Context, code string, orderValue int64) (*model.CouponQuote, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, code, orderValue)
	}
	return &model.CouponQuote{}, nil
}

func (m *mockCouponService) Update(ctx context.Context, code string, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, code, req)
	}
	return &model.Coupon{}, nil
}

func (m *mockCouponService) Delete(ctx context.Context, code string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, code)
	}
	return nil
}

func setupCouponApp(mockSvc *mockCouponService) *fiber.App {
	app := fiber.New()
	validate := validator.New()
	h := NewCouponHandler(mockSvc, validate)
	app.Get("/api/coupons", h.ListCoupons)
	app.Post("/api/coupons/validate", h.ValidateCoupon)
	app.Post("/api/coupons", h.CreateCoupon)
	app.Put("/api/coupons/:code", h.UpdateCoupon)
	app.Delete("/api/coupons/:code", h.DeleteCoupon)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result["error"]
}

func TestValidateCoupon_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		validateFn: func(ctx context.Context, code string, orderValue int64) (*model.CouponQuote, error) {
			assert.Equal(t, "WELCOME10", code)
			assert.Equal(t, int64(850), orderValue)
			return &model.CouponQuote{
				Code:          "WELCOME10",
				DiscountType:  model.DiscountPercentage,
				DiscountValue: 10,
				Discount:      85,
				FinalAmount:   765,
			}, nil
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons/validate",
		`{"code": "WELCOME10", "order_value": 850}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quote model.CouponQuote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
	assert.Equal(t, int64(85), quote.Discount)
	assert.Equal(t, int64(765), quote.FinalAmount)
}

func TestValidateCoupon_UnknownCode(t *testing.T) {
	mockSvc := &mockCouponService{
		validateFn: func(ctx context.Context, code string, orderValue int64) (*model.CouponQuote, error) {
			return nil, service.ErrCouponNotFound
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons/validate",
		`{"code": "NOPE", "order_value": 850}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "invalid coupon code", decodeError(t, resp))
}

func TestValidateCoupon_Rejected(t *testing.T) {
	mockSvc := &mockCouponService{
		validateFn: func(ctx context.Context, code string, orderValue int64) (*model.CouponQuote, error) {
			return nil, &service.CouponRejectedError{Reason: "minimum order value ₹500 required"}
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons/validate",
		`{"code": "WELCOME10", "order_value": 400}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "minimum order value ₹500 required", decodeError(t, resp))
}

func TestValidateCoupon_MissingCode(t *testing.T) {
	app := setupCouponApp(&mockCouponService{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons/validate",
		`{"order_value": 850}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: code is required", decodeError(t, resp))
}

func TestValidateCoupon_BadCharactersInCode(t *testing.T) {
	app := setupCouponApp(&mockCouponService{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons/validate",
		`{"code": "WELCOME 10!", "order_value": 850}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: code contains invalid characters", decodeError(t, resp))
}

func TestCreateCoupon_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		createFn: func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
			return &model.Coupon{Code: "SUMMER20", IsActive: true}, nil
		},
	}
	app := setupCouponApp(mockSvc)

	body := `{
		"code": "SUMMER20",
		"description": "Summer sale",
		"discount_type": "percentage",
		"discount_value": 20,
		"min_order_value": 300,
		"start_date": "2026-06-01T00:00:00Z",
		"end_date": "2026-08-31T23:59:59Z"
	}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var coupon model.Coupon
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&coupon))
	assert.Equal(t, "SUMMER20", coupon.Code)
}

func TestCreateCoupon_MissingDiscountValue(t *testing.T) {
	app := setupCouponApp(&mockCouponService{})

	body := `{
		"code": "SUMMER20",
		"description": "Summer sale",
		"discount_type": "percentage",
		"start_date": "2026-06-01T00:00:00Z",
		"end_date": "2026-08-31T23:59:59Z"
	}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: discount_value is required", decodeError(t, resp))
}

func TestCreateCoupon_BadDiscountType(t *testing.T) {
	app := setupCouponApp(&mockCouponService{})

	body := `{
		"code": "SUMMER20",
		"description": "Summer sale",
		"discount_type": "bogus",
		"discount_value": 20,
		"start_date": "2026-06-01T00:00:00Z",
		"end_date": "2026-08-31T23:59:59Z"
	}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: discount_type must be one of percentage fixed", decodeError(t, resp))
}

func TestCreateCoupon_Duplicate(t *testing.T) {
	mockSvc := &mockCouponService{
		createFn: func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
			return nil, service.ErrCouponExists
		},
	}
	app := setupCouponApp(mockSvc)

	body := `{
		"code": "SUMMER20",
		"description": "Summer sale",
		"discount_type": "percentage",
		"discount_value": 20,
		"start_date": "2026-06-01T00:00:00Z",
		"end_date": "2026-08-31T23:59:59Z"
	}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/coupons", body))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "coupon already exists", decodeError(t, resp))
}

func TestListCoupons_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		listActiveFn: func(ctx context.Context) ([]model.Coupon, error) {
			return []model.Coupon{
				{Code: "WELCOME10", DiscountType: model.DiscountPercentage, DiscountValue: 10, IsActive: true,
					StartDate: time.Now().Add(-time.Hour), EndDate: time.Now().Add(time.Hour)},
			}, nil
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/coupons", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var coupons []model.Coupon
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&coupons))
	require.Len(t, coupons, 1)
	assert.Equal(t, "WELCOME10", coupons[0].Code)
}

func TestListCoupons_ServiceError(t *testing.T) {
	mockSvc := &mockCouponService{
		listActiveFn: func(ctx context.Context) ([]model.Coupon, error) {
			return nil, errors.New("database error")
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/coupons", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", decodeError(t, resp))
}

func TestUpdateCoupon_NotFound(t *testing.T) {
	mockSvc := &mockCouponService{
		updateFn: func(ctx context.Context, code string, req *model.UpdateCouponRequest) (*model.Coupon, error) {
			return nil, service.ErrCouponNotFound
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/coupons/NOPE", `{"is_active": false}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "coupon not found", decodeError(t, resp))
}

func TestUpdateCoupon_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		updateFn: func(ctx context.Context, code string, req *model.UpdateCouponRequest) (*model.Coupon, error) {
			assert.Equal(t, "WELCOME10", code)
			require.NotNil(t, req.IsActive)
			assert.False(t, *req.IsActive)
			return &model.Coupon{Code: "WELCOME10", IsActive: false}, nil
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/coupons/WELCOME10", `{"is_active": false}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteCoupon_Success(t *testing.T) {
	var deleted string
	mockSvc := &mockCouponService{
		deleteFn: func(ctx context.Context, code string) error {
			deleted = code
			return nil
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/coupons/WELCOME10", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "WELCOME10", deleted)
}

func TestDeleteCoupon_NotFound(t *testing.T) {
	mockSvc := &mockCouponService{
		deleteFn: func(ctx context.Context, code string) error {
			return service.ErrCouponNotFound
		},
	}
	app := setupCouponApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/coupons/NOPE", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
