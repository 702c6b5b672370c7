// Package cart owns customer carts and turns them into checkout summaries.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/logger"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	carts   port.CartRepository
	catalog port.CatalogRepository
	cache   Cache
	logger  *zap.Logger

	sfg singleflight.Group
}

func NewService(carts port.CartRepository, catalog port.CatalogRepository, cache Cache, log *zap.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{
		carts:   carts,
		catalog: catalog,
		cache:   cache,
		logger:  log.With(zap.String("component", "cart")),
	}
}

// GetCart serves from cache and collapses concurrent misses for the same owner.
// A miss caches the database snapshot only if no mutation invalidated the
// cart while it was being read.
func (s *Service) GetCart(ctx context.Context, customerID string) (domain.Cart, error) {
	if customerID == "" {
		return domain.Cart{}, fmt.Errorf("%w: customer id is empty", domain.ErrValidation)
	}

	v, err, _ := s.sfg.Do(customerID, func() (any, error) {
		cart, err := s.cache.Get(ctx, customerID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log(ctx).Warn("cart cache get failed", zap.String("customer_id", customerID), zap.Error(err))
		}

		version, versionErr := s.cache.Version(ctx, customerID)
		if versionErr != nil {
			s.log(ctx).Warn("cart cache version failed", zap.String("customer_id", customerID), zap.Error(versionErr))
		}

		cart, err = s.carts.GetCart(ctx, customerID)
		if err != nil {
			return domain.Cart{}, s.storageError(ctx, "get cart", err)
		}

		if versionErr == nil {
			stored, err := s.cache.SetIfVersion(ctx, cart, version)
			switch {
			case err != nil:
				s.log(ctx).Warn("cart cache set failed", zap.String("customer_id", customerID), zap.Error(err))
			case !stored:
				s.log(ctx).Debug("cart changed while reading, not cached", zap.String("customer_id", customerID))
			}
		}

		return cart, nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return v.(domain.Cart), nil
}

// AddItem adds a new line priced from the live catalog. Stock is checked
// optimistically and is not reserved.
func (s *Service) AddItem(ctx context.Context, customerID string, productID uuid.UUID, quantity int32) error {
	product, err := s.availableProduct(ctx, customerID, productID, quantity)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	line := domain.CartLine{
		ProductID: productID,
		Quantity:  quantity,
		Price:     product.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if product.HasDiscount() {
		line.DiscountPrice = product.DiscountPrice
	}

	if err := s.carts.AddItem(ctx, customerID, line); err != nil {
		return s.storageError(ctx, "add item", err)
	}

	s.invalidate(ctx, customerID)
	return nil
}

func (s *Service) UpdateQuantity(ctx context.Context, customerID string, productID uuid.UUID, quantity int32) error {
	if _, err := s.availableProduct(ctx, customerID, productID, quantity); err != nil {
		return err
	}

	updated, err := s.carts.UpdateItemQuantity(ctx, customerID, productID, quantity)
	if err != nil {
		return s.storageError(ctx, "update quantity", err)
	}
	if !updated {
		return fmt.Errorf("%w: product %s", domain.ErrCartLineNotFound, productID)
	}

	s.invalidate(ctx, customerID)
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, customerID string, productID uuid.UUID) error {
	if customerID == "" {
		return fmt.Errorf("%w: customer id is empty", domain.ErrValidation)
	}

	deleted, err := s.carts.DeleteItem(ctx, customerID, productID)
	if err != nil {
		return s.storageError(ctx, "remove item", err)
	}
	if !deleted {
		return fmt.Errorf("%w: product %s", domain.ErrCartLineNotFound, productID)
	}

	s.invalidate(ctx, customerID)
	return nil
}

// Clear empties the cart. Checkout calls it only after the order is committed.
func (s *Service) Clear(ctx context.Context, customerID string) error {
	if customerID == "" {
		return fmt.Errorf("%w: customer id is empty", domain.ErrValidation)
	}

	if _, err := s.carts.ClearCart(ctx, customerID); err != nil {
		return s.storageError(ctx, "clear cart", err)
	}

	s.invalidate(ctx, customerID)
	return nil
}

// Invalidate drops the cached cart of a customer whose lines changed elsewhere.
func (s *Service) Invalidate(ctx context.Context, customerID string) {
	s.invalidate(ctx, customerID)
}

func (s *Service) availableProduct(ctx context.Context, customerID string, productID uuid.UUID, quantity int32) (domain.Product, error) {
	if customerID == "" {
		return domain.Product{}, fmt.Errorf("%w: customer id is empty", domain.ErrValidation)
	}
	if quantity <= 0 {
		return domain.Product{}, fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrValidation, quantity)
	}

	products, err := s.catalog.GetProducts(ctx, []uuid.UUID{productID})
	if err != nil {
		return domain.Product{}, s.storageError(ctx, "get products", err)
	}

	product, ok := products[productID]
	if !ok || !product.Active {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductUnavailable, productID)
	}
	if product.Stock < quantity {
		return domain.Product{}, fmt.Errorf("%w: product %s has %d, requested %d",
			domain.ErrInsufficientStock, productID, product.Stock, quantity)
	}

	return product, nil
}

func (s *Service) invalidate(ctx context.Context, customerID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	if err := s.cache.Delete(ctx, customerID); err != nil {
		s.log(ctx).Warn("cart cache invalidate failed", zap.String("customer_id", customerID), zap.Error(err))
	}
}

// storageError hides unclassified storage failures behind ErrDatabase.
func (s *Service) storageError(ctx context.Context, op string, err error) error {
	if domain.IsClassified(err) {
		return err
	}
	s.log(ctx).Error(op+" failed", zap.Error(err))
	return fmt.Errorf("%s: %w", op, domain.ErrDatabase)
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.WithSpan(ctx, s.logger)
}
