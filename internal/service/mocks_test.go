package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

// mockCouponRepository is a mock implementation of CouponRepositoryInterface.
type mockCouponRepository struct {
	insertFn         func(ctx context.Context, coupon *model.Coupon) error
	getByCodeFn      func(ctx context.Context, code string) (*model.Coupon, error)
	listActiveFn     func(ctx context.Context, now time.Time) ([]model.Coupon, error)
	updateFn         func(ctx context.Context, coupon *model.Coupon) error
	deleteFn         func(ctx context.Context, code string) error
	incrementUsageFn func(ctx context.Context, code string) (bool, error)
}

func (m *mockCouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, coupon)
	}
	return nil
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockCouponRepository) ListActive(ctx context.Context, now time.Time) ([]model.Coupon, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, now)
	}
	return []model.Coupon{}, nil
}

func (m *mockCouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, coupon)
	}
	return nil
}

func (m *mockCouponRepository) Delete(ctx context.Context, code string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, code)
	}
	return nil
}

func (m *mockCouponRepository) IncrementUsage(ctx context.Context, code string) (bool, error) {
	if m.incrementUsageFn != nil {
		return m.incrementUsageFn(ctx, code)
	}
	return true, nil
}

// mockCartRepository is a mock implementation of CartRepositoryInterface.
type mockCartRepository struct {
	getFn          func(ctx context.Context, userID string) (*model.Cart, error)
	getForUpdateFn func(ctx context.Context, tx database.TxQuerier, userID string) (*model.Cart, error)
	saveFn         func(ctx context.Context, tx database.TxQuerier, cart *model.Cart) error
}

func (m *mockCartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCartRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, userID string) (*model.Cart, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, userID)
	}
	return nil, nil
}

func (m *mockCartRepository) Save(ctx context.Context, tx database.TxQuerier, cart *model.Cart) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, tx, cart)
	}
	return nil
}

// mockProductRepository is a mock implementation of ProductRepositoryInterface.
type mockProductRepository struct {
	listFn    func(ctx context.Context) ([]model.Product, error)
	getByIDFn func(ctx context.Context, id int64) (*model.Product, error)
}

func (m *mockProductRepository) List(ctx context.Context) ([]model.Product, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Product{}, nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

// mockOrderRepository is a mock implementation of OrderRepositoryInterface.
type mockOrderRepository struct {
	insertFn  func(ctx context.Context, tx database.TxQuerier, order *model.Order) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

func (m *mockOrderRepository) Insert(ctx context.Context, tx database.TxQuerier, order *model.Order) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, order)
	}
	return nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrOrderNotFound
}

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
