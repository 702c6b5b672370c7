package cart_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *zap.Logger {
	return zap.NewNop()
}

type mockCarts struct {
	mock.Mock
}

func (m *mockCarts) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *mockCarts) AddItem(ctx context.Context, ownerID string, line domain.CartLine) error {
	args := m.Called(ctx, ownerID, line)
	return args.Error(0)
}

func (m *mockCarts) UpdateItemQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) (bool, error) {
	args := m.Called(ctx, ownerID, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *mockCarts) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCarts) ClearCart(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).(map[uuid.UUID]domain.Product)
	return products, args.Error(1)
}

func (m *mockCatalog) LockProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).(map[uuid.UUID]domain.Product)
	return products, args.Error(1)
}

func (m *mockCatalog) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(domain.Customer), args.Error(1)
}
