package port

import "context"

// Repositories are bound to a single transaction.
type Repositories struct {
	Carts    CartRepository
	Catalog  CatalogRepository
	Orders   OrderRepository
	Payments PaymentRepository
	Ledger   InventoryLedger
}

type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
