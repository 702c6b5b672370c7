package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/logger"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
)

// Aggregator computes checkout summaries. It never mutates the cart.
type Aggregator struct {
	carts   port.CartRepository
	catalog port.CatalogRepository
	pricing domain.Pricing
	logger  *zap.Logger
}

func NewAggregator(carts port.CartRepository, catalog port.CatalogRepository, pricing domain.Pricing, log *zap.Logger) *Aggregator {
	return &Aggregator{
		carts:   carts,
		catalog: catalog,
		pricing: pricing,
		logger:  log.With(zap.String("component", "aggregator")),
	}
}

// ComputeSummary joins the cart with live catalog prices. An empty cart
// yields domain.ErrEmptyCart.
func (a *Aggregator) ComputeSummary(ctx context.Context, customerID string) (domain.CheckoutSummary, error) {
	return a.summarize(ctx, a.carts, a.catalog.GetProducts, customerID)
}

// ComputeSummaryLocked is ComputeSummary inside a transaction. The products
// stay share-locked until the transaction ends, so they cannot be deactivated
// or repriced while an order is being created from them.
func (a *Aggregator) ComputeSummaryLocked(ctx context.Context, repos port.Repositories, customerID string) (domain.CheckoutSummary, error) {
	return a.summarize(ctx, repos.Carts, repos.Catalog.LockProducts, customerID)
}

type productLoader func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error)

func (a *Aggregator) summarize(ctx context.Context, carts port.CartRepository, load productLoader, customerID string) (domain.CheckoutSummary, error) {
	if customerID == "" {
		return domain.CheckoutSummary{}, fmt.Errorf("%w: customer id is empty", domain.ErrValidation)
	}

	cart, err := carts.GetCart(ctx, customerID)
	if err != nil {
		logger.WithSpan(ctx, a.logger).Error("get cart failed", zap.String("customer_id", customerID), zap.Error(err))
		return domain.CheckoutSummary{}, fmt.Errorf("get cart: %w", domain.ErrDatabase)
	}
	if cart.IsEmpty() {
		return domain.CheckoutSummary{}, domain.ErrEmptyCart
	}

	products, err := load(ctx, cart.ProductIDs())
	if err != nil {
		logger.WithSpan(ctx, a.logger).Error("load products failed", zap.String("customer_id", customerID), zap.Error(err))
		return domain.CheckoutSummary{}, fmt.Errorf("load products: %w", domain.ErrDatabase)
	}

	return domain.Summarize(cart, products, a.pricing)
}
