package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

// CatalogRepository is a read-only view over products, their stock and customers.
// Products absent from the catalog are absent from the returned map.
type CatalogRepository interface {
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error)
	// LockProducts is GetProducts holding a share lock until the surrounding
	// transaction ends.
	LockProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error)
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)
}
