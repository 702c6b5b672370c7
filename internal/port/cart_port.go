package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	// AddItem fails with domain.ErrDuplicateCartLine if the product is already in the cart.
	AddItem(ctx context.Context, ownerID string, line domain.CartLine) error
	UpdateItemQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) (bool, error)
	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)
	ClearCart(ctx context.Context, ownerID string) (int64, error)
}
