package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	OwnerID string
	Lines   []CartLine
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Lines))
	for _, line := range c.Lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

// CartLine is unique per (owner, product). Price and DiscountPrice are the catalog
// values seen when the line was added; checkout always re-reads live prices.
type CartLine struct {
	ProductID     uuid.UUID
	Quantity      int32
	Price         Money
	DiscountPrice *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
