package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

// InventoryLedger is the single writer of stock quantities.
type InventoryLedger interface {
	// Consume debits every line or none. It reports false when stock was
	// already consumed for the order.
	Consume(ctx context.Context, orderID uuid.UUID, lines []domain.StockLine) (bool, error)
	// Release credits back what Consume debited for the order. It reports false
	// when there is nothing to release.
	Release(ctx context.Context, orderID uuid.UUID, lines []domain.StockLine) (bool, error)
	Restock(ctx context.Context, productID uuid.UUID, quantity int32) error
	Stock(ctx context.Context, productIDs []uuid.UUID) ([]domain.StockLevel, error)
	Movements(ctx context.Context, orderID uuid.UUID) ([]domain.StockMovement, error)
}
