package cart_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/cart"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAggregator_ComputeSummary(t *testing.T) {
	carts := new(mockCarts)
	catalog := new(mockCatalog)
	defer carts.AssertExpectations(t)
	defer catalog.AssertExpectations(t)

	a, b := uuid.New(), uuid.New()
	discount := decimal.RequireFromString("80.00")

	carts.On("GetCart", mock.Anything, "customer").Return(domain.Cart{
		OwnerID: "customer",
		Lines: []domain.CartLine{
			{ProductID: a, Quantity: 2, Price: usd("100.00")},
			{ProductID: b, Quantity: 1, Price: usd("100.00")},
		},
	}, nil)
	catalog.On("GetProducts", mock.Anything, []uuid.UUID{a, b}).Return(map[uuid.UUID]domain.Product{
		a: {ID: a, VendorID: "v1", Price: usd("100.00"), Active: true, Stock: 10},
		b: {ID: b, VendorID: "v1", Price: usd("100.00"), DiscountPrice: &discount, Active: true, Stock: 10},
	}, nil)

	aggregator := cart.NewAggregator(carts, catalog, domain.Pricing{}, discardLogger())

	summary, err := aggregator.ComputeSummary(t.Context(), "customer")
	require.NoError(t, err)

	assert.Equal(t, "300", summary.SubTotal.Amount.String())
	assert.Equal(t, "20", summary.Discount.Amount.String())
	assert.Equal(t, "280", summary.GrandTotal.Amount.String())
	assert.Equal(t, int32(3), summary.ItemCount)
	assert.Equal(t, "v1", summary.VendorID)
}

func TestAggregator_ComputeSummaryLocked(t *testing.T) {
	carts := new(mockCarts)
	catalog := new(mockCatalog)
	defer carts.AssertExpectations(t)
	defer catalog.AssertExpectations(t)

	productID := uuid.New()

	carts.On("GetCart", mock.Anything, "customer").Return(domain.Cart{
		OwnerID: "customer",
		Lines:   []domain.CartLine{{ProductID: productID, Quantity: 1, Price: usd("5.00")}},
	}, nil)
	catalog.On("LockProducts", mock.Anything, []uuid.UUID{productID}).Return(map[uuid.UUID]domain.Product{
		productID: {ID: productID, VendorID: "v1", Price: usd("5.00"), Active: false, Stock: 10},
	}, nil)

	aggregator := cart.NewAggregator(nil, nil, domain.Pricing{}, discardLogger())

	_, err := aggregator.ComputeSummaryLocked(t.Context(), port.Repositories{Carts: carts, Catalog: catalog}, "customer")
	require.ErrorIs(t, err, domain.ErrProductUnavailable)
}

func TestAggregator_Errors(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		carts := new(mockCarts)
		carts.On("GetCart", mock.Anything, "customer").Return(domain.Cart{OwnerID: "customer"}, nil)

		aggregator := cart.NewAggregator(carts, new(mockCatalog), domain.Pricing{}, discardLogger())

		_, err := aggregator.ComputeSummary(t.Context(), "customer")
		require.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("storage failure is hidden", func(t *testing.T) {
		carts := new(mockCarts)
		carts.On("GetCart", mock.Anything, "customer").Return(domain.Cart{}, errors.New("pq: secret detail"))

		aggregator := cart.NewAggregator(carts, new(mockCatalog), domain.Pricing{}, discardLogger())

		_, err := aggregator.ComputeSummary(t.Context(), "customer")
		require.ErrorIs(t, err, domain.ErrDatabase)
		assert.NotContains(t, err.Error(), "secret")
	})

	t.Run("empty customer id", func(t *testing.T) {
		aggregator := cart.NewAggregator(new(mockCarts), new(mockCatalog), domain.Pricing{}, discardLogger())

		_, err := aggregator.ComputeSummary(t.Context(), "")
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}
