package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

type StockLine struct {
	ProductID uuid.UUID
	Quantity  int32
}

type LedgerKind string

const (
	LedgerKindConsume LedgerKind = "consume"
	LedgerKindRelease LedgerKind = "release"
	LedgerKindRestock LedgerKind = "restock"
)

type StockLevel struct {
	ProductID uuid.UUID
	Quantity  int32
}

// NormalizeStockLines validates lines, merges duplicates and sorts by product id
// so concurrent debits lock rows in a consistent order.
func NormalizeStockLines(lines []StockLine) ([]StockLine, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no stock lines", ErrValidation)
	}

	merged := make(map[uuid.UUID]int32, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: empty product id", ErrValidation)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity %d for product %s", ErrValidation, line.Quantity, line.ProductID)
		}
		merged[line.ProductID] += line.Quantity
	}

	out := make([]StockLine, 0, len(merged))
	for id, qty := range merged {
		out = append(out, StockLine{ProductID: id, Quantity: qty})
	}
	slices.SortFunc(out, func(a, b StockLine) int {
		return slices.Compare(a.ProductID[:], b.ProductID[:])
	})

	return out, nil
}

// StockMovement is one audited stock delta. Quantity is signed: consume is
// negative, release and restock are positive. OrderID is nil for restocks.
type StockMovement struct {
	ID        int64
	OrderID   *uuid.UUID
	ProductID uuid.UUID
	Kind      LedgerKind
	Quantity  int32
	CreatedAt time.Time
}
