package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestSummarize(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	catalog := map[uuid.UUID]domain.Product{
		productA: product(productA, "vendor-1", "100", nil, 10),
		productB: product(productB, "vendor-1", "100", dec("80"), 10),
	}

	tests := []struct {
		name         string
		cart         domain.Cart
		products     map[uuid.UUID]domain.Product
		pricing      domain.Pricing
		wantSubTotal string
		wantDiscount string
		wantGrand    string
		wantItems    int32
		wantErr      error
	}{
		{
			name: "two lines with discount: ok",
			cart: cart(
				line(productA, 2),
				line(productB, 1),
			),
			products:     catalog,
			wantSubTotal: "300",
			wantDiscount: "20",
			wantGrand:    "280",
			wantItems:    3,
		},
		{
			name:         "shipping and tax applied on net: ok",
			cart:         cart(line(productA, 2), line(productB, 1)),
			products:     catalog,
			pricing:      domain.Pricing{ShippingCharge: decimal.NewFromInt(40), TaxRate: decimal.RequireFromString("0.1")},
			wantSubTotal: "300",
			wantDiscount: "20",
			wantGrand:    "348",
			wantItems:    3,
		},
		{
			name:     "free shipping above threshold: ok",
			cart:     cart(line(productA, 2), line(productB, 1)),
			products: catalog,
			pricing: domain.Pricing{
				ShippingCharge:        decimal.NewFromInt(40),
				FreeShippingThreshold: decimal.NewFromInt(250),
			},
			wantSubTotal: "300",
			wantDiscount: "20",
			wantGrand:    "280",
			wantItems:    3,
		},
		{
			name:    "empty cart: error",
			cart:    cart(),
			wantErr: domain.ErrEmptyCart,
		},
		{
			name: "inactive product: error",
			cart: cart(line(productA, 1)),
			products: map[uuid.UUID]domain.Product{
				productA: func() domain.Product {
					p := catalog[productA]
					p.Active = false
					return p
				}(),
			},
			wantErr: domain.ErrProductUnavailable,
		},
		{
			name:     "missing product: error",
			cart:     cart(line(uuid.New(), 1)),
			products: catalog,
			wantErr:  domain.ErrProductUnavailable,
		},
		{
			name:     "stock below quantity: error",
			cart:     cart(line(productA, 11)),
			products: catalog,
			wantErr:  domain.ErrInsufficientStock,
		},
		{
			name: "lines from two vendors: error",
			cart: cart(line(productA, 1), line(productB, 1)),
			products: map[uuid.UUID]domain.Product{
				productA: catalog[productA],
				productB: product(productB, "vendor-2", "100", nil, 10),
			},
			wantErr: domain.ErrValidation,
		},
		{
			name:         "cart in checkout currency: ok",
			cart:         cart(line(productA, 1)),
			products:     catalog,
			pricing:      domain.Pricing{Currency: currency.USD},
			wantSubTotal: "100",
			wantDiscount: "0",
			wantGrand:    "100",
			wantItems:    1,
		},
		{
			name:     "cart in another currency: error",
			cart:     cart(line(productA, 1)),
			products: catalog,
			pricing:  domain.Pricing{Currency: currency.INR},
			wantErr:  domain.ErrValidation,
		},
		{
			name: "lines in two currencies: error",
			cart: cart(line(productA, 1), line(productB, 1)),
			products: map[uuid.UUID]domain.Product{
				productA: catalog[productA],
				productB: func() domain.Product {
					p := product(productB, "vendor-1", "100", nil, 10)
					p.Price.Currency = currency.EUR
					return p
				}(),
			},
			wantErr: domain.ErrValidation,
		},
		{
			name:     "non-positive quantity: error",
			cart:     cart(line(productA, 0)),
			products: catalog,
			wantErr:  domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := domain.Summarize(tt.cart, tt.products, tt.pricing)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assertAmount(t, tt.wantSubTotal, summary.SubTotal)
			assertAmount(t, tt.wantDiscount, summary.Discount)
			assertAmount(t, tt.wantGrand, summary.GrandTotal)
			assert.Equal(t, tt.wantItems, summary.ItemCount)
			assert.Equal(t, "vendor-1", summary.VendorID)

			// grandTotal = subTotal - discount + shipping + tax
			want := summary.SubTotal.Amount.
				Sub(summary.Discount.Amount).
				Add(summary.ShippingCharges.Amount).
				Add(summary.TaxAmount.Amount)
			assert.True(t, want.Equal(summary.GrandTotal.Amount))
		})
	}
}

func TestSummarize_IgnoresDiscountAboveListPrice(t *testing.T) {
	id := uuid.New()
	products := map[uuid.UUID]domain.Product{
		id: product(id, "vendor-1", "50", dec("70"), 5),
	}

	summary, err := domain.Summarize(cart(line(id, 2)), products, domain.Pricing{})
	require.NoError(t, err)

	assertAmount(t, "0", summary.Discount)
	assertAmount(t, "100", summary.GrandTotal)
	assert.Nil(t, summary.Lines[0].DiscountPrice)
}

func cart(lines ...domain.CartLine) domain.Cart {
	return domain.Cart{OwnerID: "customer-1", Lines: lines}
}

func line(productID uuid.UUID, qty int32) domain.CartLine {
	return domain.CartLine{ProductID: productID, Quantity: qty}
}

func product(id uuid.UUID, vendor, price string, discount *decimal.Decimal, stock int32) domain.Product {
	return domain.Product{
		ID:            id,
		VendorID:      vendor,
		Name:          "product " + id.String()[:4],
		Price:         domain.NewMoney(decimal.RequireFromString(price), currency.USD),
		DiscountPrice: discount,
		Active:        true,
		Stock:         stock,
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func assertAmount(t *testing.T, want string, got domain.Money) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got.Amount), "want %s, got %s", want, got.Amount)
}
