package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Pricing holds the checkout charges applied on top of the cart lines.
type Pricing struct {
	Currency              currency.Unit // zero Unit accepts any single currency
	ShippingCharge        decimal.Decimal
	FreeShippingThreshold decimal.Decimal // zero disables free shipping
	TaxRate               decimal.Decimal // fraction, 0.18 means 18%
}

type SummaryLine struct {
	ProductID     uuid.UUID
	Name          string
	Quantity      int32
	UnitPrice     Money
	DiscountPrice *decimal.Decimal
	LineTotal     Money
}

// CheckoutSummary is derived from the cart at checkout time and never persisted.
// GrandTotal = SubTotal - Discount + ShippingCharges + TaxAmount.
type CheckoutSummary struct {
	CustomerID string
	VendorID   string
	Currency   currency.Unit
	Lines      []SummaryLine

	SubTotal        Money
	Discount        Money
	ShippingCharges Money
	TaxAmount       Money
	GrandTotal      Money
	ItemCount       int32
}

// Summarize joins cart lines with live catalog products.
// products must contain every product referenced by the cart.
func Summarize(cart Cart, products map[uuid.UUID]Product, pricing Pricing) (CheckoutSummary, error) {
	if cart.IsEmpty() {
		return CheckoutSummary{}, ErrEmptyCart
	}

	var (
		summary  = CheckoutSummary{CustomerID: cart.OwnerID}
		subTotal Money
		discount Money
	)

	for i, line := range cart.Lines {
		if line.Quantity <= 0 {
			return CheckoutSummary{}, fmt.Errorf("%w: quantity %d for product %s", ErrValidation, line.Quantity, line.ProductID)
		}

		product, ok := products[line.ProductID]
		if !ok || !product.Active {
			return CheckoutSummary{}, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
		}
		if product.Stock < line.Quantity {
			return CheckoutSummary{}, fmt.Errorf("%w: product %s has %d, requested %d",
				ErrInsufficientStock, line.ProductID, product.Stock, line.Quantity)
		}

		if i == 0 {
			summary.VendorID = product.VendorID
			summary.Currency = product.Price.Currency
			if pricing.Currency != (currency.Unit{}) && summary.Currency != pricing.Currency {
				return CheckoutSummary{}, fmt.Errorf("%w: cart is priced in %s, checkout accepts %s", ErrValidation, summary.Currency, pricing.Currency)
			}
			subTotal = ZeroMoney(summary.Currency)
			discount = ZeroMoney(summary.Currency)
		}
		if product.VendorID != summary.VendorID {
			return CheckoutSummary{}, fmt.Errorf("%w: cart spans vendors %s and %s", ErrValidation, summary.VendorID, product.VendorID)
		}
		if product.Price.Currency != summary.Currency {
			return CheckoutSummary{}, fmt.Errorf("%w: cart mixes currencies %s and %s", ErrValidation, summary.Currency, product.Price.Currency)
		}

		var err error
		if subTotal, err = subTotal.Add(product.Price.Mul(line.Quantity)); err != nil {
			return CheckoutSummary{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}

		sl := SummaryLine{
			ProductID: line.ProductID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: product.EffectivePrice().Mul(line.Quantity),
		}
		if product.HasDiscount() {
			dp := *product.DiscountPrice
			sl.DiscountPrice = &dp
			off, err := product.Price.Sub(NewMoney(dp, summary.Currency))
			if err != nil {
				return CheckoutSummary{}, fmt.Errorf("%w: %w", ErrValidation, err)
			}
			if discount, err = discount.Add(off.Mul(line.Quantity)); err != nil {
				return CheckoutSummary{}, fmt.Errorf("%w: %w", ErrValidation, err)
			}
		}

		summary.Lines = append(summary.Lines, sl)
		summary.ItemCount += line.Quantity
	}

	cur := summary.Currency
	scale, _ := currency.Standard.Rounding(cur)

	net, err := subTotal.Sub(discount)
	if err != nil {
		return CheckoutSummary{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	shipping := NewMoney(pricing.ShippingCharge, cur)
	if pricing.FreeShippingThreshold.IsPositive() && net.Amount.GreaterThanOrEqual(pricing.FreeShippingThreshold) {
		shipping = ZeroMoney(cur)
	}
	tax := NewMoney(net.Amount.Mul(pricing.TaxRate).Round(int32(scale)), cur)

	grand, err := net.Add(shipping)
	if err == nil {
		grand, err = grand.Add(tax)
	}
	if err != nil {
		return CheckoutSummary{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if grand.IsNegative() {
		grand = ZeroMoney(cur)
	}

	summary.SubTotal = subTotal
	summary.Discount = discount
	summary.ShippingCharges = shipping
	summary.TaxAmount = tax
	summary.GrandTotal = grand

	return summary, nil
}
