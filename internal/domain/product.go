package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the read-only catalog view the checkout pipeline joins against.
type Product struct {
	ID            uuid.UUID
	VendorID      string
	Name          string
	Price         Money
	DiscountPrice *decimal.Decimal
	Active        bool
	Stock         int32
}

// EffectivePrice is the discounted unit price when a valid discount exists.
// A discount above the list price or below zero is ignored.
func (p Product) EffectivePrice() Money {
	if !p.HasDiscount() {
		return p.Price
	}
	return Money{Amount: *p.DiscountPrice, Currency: p.Price.Currency}
}

func (p Product) HasDiscount() bool {
	if p.DiscountPrice == nil {
		return false
	}
	d := *p.DiscountPrice
	return !d.IsNegative() && d.LessThan(p.Price.Amount)
}

type Customer struct {
	ID    string
	Email string
	Name  string
}
