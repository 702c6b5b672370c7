package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	// TransitionStatus moves the order from one status to another atomically.
	// It fails with domain.ErrInvalidState if the order is no longer in from.
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) error
	// ListByStatus returns orders without items, oldest first.
	ListByStatus(ctx context.Context, statuses []domain.OrderStatus, createdBefore time.Time, limit int32) ([]domain.Order, error)
}
