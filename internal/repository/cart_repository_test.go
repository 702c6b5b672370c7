package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"github.com/nikolayk812/checkout-demo/internal/repository"
	"github.com/nikolayk812/checkout-demo/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type cartRepositorySuite struct {
	pgSuite

	repo port.CartRepository
}

func TestCartRepositorySuite(t *testing.T) {
	suite.Run(t, new(cartRepositorySuite))
}

func (suite *cartRepositorySuite) SetupSuite() {
	suite.Require().NoError(suite.startPostgres(suite.T().Context()))

	suite.repo = repository.NewCart(suite.pool)
}

func (suite *cartRepositorySuite) TearDownSuite() {
	suite.stopPostgres()
}

func (suite *cartRepositorySuite) TestAddItem() {
	defer suite.deleteAll()

	discount := decimal.RequireFromString("7.50")

	tests := []struct {
		name      string
		ownerID   string
		line      domain.CartLine
		wantError string
	}{
		{
			name:    "add line to cart: ok",
			ownerID: gofakeit.UUID(),
			line:    randomCartLine(),
		},
		{
			name:    "add line with discount: ok",
			ownerID: gofakeit.UUID(),
			line: domain.CartLine{
				ProductID:     uuid.New(),
				Quantity:      2,
				Price:         testutil.USD("10.00"),
				DiscountPrice: &discount,
			},
		},
		{
			name:    "add line with zero price amount: ok",
			ownerID: gofakeit.UUID(),
			line: domain.CartLine{
				ProductID: uuid.New(),
				Quantity:  1,
				Price: domain.Money{
					Amount:   decimal.Zero,
					Currency: testutil.RandomCurrency(),
				},
			},
		},
		{
			name:      "add line with empty owner ID: error",
			ownerID:   "",
			line:      randomCartLine(),
			wantError: "ownerID is empty",
		},
		{
			name:    "add line with zero quantity: error",
			ownerID: gofakeit.UUID(),
			line: domain.CartLine{
				ProductID: uuid.New(),
				Price:     testutil.RandomMoney(),
			},
			wantError: "quantity must be positive",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			err := suite.repo.AddItem(ctx, tt.ownerID, tt.line)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			cart, err := suite.repo.GetCart(ctx, tt.ownerID)
			require.NoError(t, err)

			require.Len(t, cart.Lines, 1)
			assertCartLine(t, tt.line, cart.Lines[0])
		})
	}
}

func (suite *cartRepositorySuite) TestAddItem_Duplicate() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()
	line := randomCartLine()

	require.NoError(t, suite.repo.AddItem(ctx, ownerID, line))

	err := suite.repo.AddItem(ctx, ownerID, line)
	require.ErrorIs(t, err, domain.ErrDuplicateCartLine)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// another owner may hold the same product
	require.NoError(t, suite.repo.AddItem(ctx, gofakeit.UUID(), line))
}

func (suite *cartRepositorySuite) TestUpdateItemQuantity() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		existing    bool
		quantity    int32
		wantUpdated bool
		wantError   string
	}{
		{
			name:        "update existing line: ok",
			existing:    true,
			quantity:    5,
			wantUpdated: true,
		},
		{
			name:        "update missing line: not found",
			quantity:    5,
			wantUpdated: false,
		},
		{
			name:      "update to zero quantity: error",
			existing:  true,
			quantity:  0,
			wantError: "quantity must be positive",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ownerID := gofakeit.UUID()
			line := randomCartLine()
			if tt.existing {
				require.NoError(t, suite.repo.AddItem(ctx, ownerID, line))
			}

			updated, err := suite.repo.UpdateItemQuantity(ctx, ownerID, line.ProductID, tt.quantity)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdated, updated)

			if tt.wantUpdated {
				cart, err := suite.repo.GetCart(ctx, ownerID)
				require.NoError(t, err)
				require.Len(t, cart.Lines, 1)
				assert.Equal(t, tt.quantity, cart.Lines[0].Quantity)
			}
		})
	}
}

func (suite *cartRepositorySuite) TestDeleteItem() {
	defer suite.deleteAll()

	existingProductID := uuid.New()

	tests := []struct {
		name        string
		ownerID     string
		productID   uuid.UUID
		setupLines  []domain.CartLine
		wantDeleted bool
		wantError   string
	}{
		{
			name:      "delete existing line: ok",
			ownerID:   gofakeit.UUID(),
			productID: existingProductID,
			setupLines: []domain.CartLine{
				{ProductID: existingProductID, Quantity: 1, Price: testutil.RandomMoney()},
			},
			wantDeleted: true,
		},
		{
			name:      "delete non-existing line: not found",
			ownerID:   gofakeit.UUID(),
			productID: uuid.New(),
			setupLines: []domain.CartLine{
				randomCartLine(),
			},
			wantDeleted: false,
		},
		{
			name:        "delete from empty cart: not found",
			ownerID:     gofakeit.UUID(),
			productID:   uuid.New(),
			wantDeleted: false,
		},
		{
			name:      "delete with empty owner ID: error",
			ownerID:   "",
			productID: uuid.New(),
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			for _, line := range tt.setupLines {
				require.NoError(t, suite.repo.AddItem(ctx, tt.ownerID, line))
			}

			deleted, err := suite.repo.DeleteItem(ctx, tt.ownerID, tt.productID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)
		})
	}
}

func (suite *cartRepositorySuite) TestGetCart() {
	defer suite.deleteAll()

	tests := []struct {
		name       string
		ownerID    string
		setupLines []domain.CartLine
		wantError  string
	}{
		{
			name:    "get cart with lines: ok",
			ownerID: gofakeit.UUID(),
			setupLines: []domain.CartLine{
				randomCartLine(),
				randomCartLine(),
			},
		},
		{
			name:    "get empty cart: ok",
			ownerID: gofakeit.UUID(),
		},
		{
			name:      "get cart with empty owner ID: error",
			ownerID:   "",
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			for _, line := range tt.setupLines {
				require.NoError(t, suite.repo.AddItem(ctx, tt.ownerID, line))
			}

			cart, err := suite.repo.GetCart(ctx, tt.ownerID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.ownerID, cart.OwnerID)
			require.Len(t, cart.Lines, len(tt.setupLines))

			byProduct := make(map[uuid.UUID]domain.CartLine, len(cart.Lines))
			for _, line := range cart.Lines {
				byProduct[line.ProductID] = line
			}
			for _, expected := range tt.setupLines {
				assertCartLine(t, expected, byProduct[expected.ProductID])
			}
		})
	}
}

func (suite *cartRepositorySuite) TestClearCart() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()
	otherID := gofakeit.UUID()

	for range 3 {
		require.NoError(t, suite.repo.AddItem(ctx, ownerID, randomCartLine()))
	}
	require.NoError(t, suite.repo.AddItem(ctx, otherID, randomCartLine()))

	cleared, err := suite.repo.ClearCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cleared)

	cart, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	other, err := suite.repo.GetCart(ctx, otherID)
	require.NoError(t, err)
	assert.Len(t, other.Lines, 1)
}

func randomCartLine() domain.CartLine {
	return domain.CartLine{
		ProductID: uuid.New(),
		Quantity:  int32(gofakeit.IntRange(1, 10)),
		Price:     testutil.RandomMoney(),
	}
}

func assertCartLine(t *testing.T, expected, actual domain.CartLine) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})
	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.CartLine{}, "CreatedAt", "UpdatedAt"),
		currencyComparer,
		decimalComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
}
