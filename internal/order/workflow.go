// Package order drives the order state machine and its inventory effects.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/logger"
	"github.com/nikolayk812/checkout-demo/internal/metrics"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
)

type summarizer interface {
	ComputeSummaryLocked(ctx context.Context, repos port.Repositories, customerID string) (domain.CheckoutSummary, error)
}

type cartInvalidator interface {
	Invalidate(ctx context.Context, customerID string)
}

type Workflow struct {
	tx         port.Transactor
	orders     port.OrderRepository
	summarizer summarizer
	carts      cartInvalidator
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// WithCartInvalidator drops cached carts once an order has emptied them.
func WithCartInvalidator(c cartInvalidator) Option {
	return func(w *Workflow) {
		w.carts = c
	}
}

func NewWorkflow(tx port.Transactor, orders port.OrderRepository, summarizer summarizer, log *zap.Logger, opts ...Option) *Workflow {
	w := &Workflow{
		tx:         tx,
		orders:     orders,
		summarizer: summarizer,
		metrics:    metrics.Nop(),
		logger:     log.With(zap.String("component", "order_workflow")),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Create snapshots the customer's cart into a Created order. Products are
// re-checked under a share lock and the cart is emptied in the same transaction.
func (w *Workflow) Create(ctx context.Context, customerID string) (domain.Order, error) {
	var order domain.Order

	err := w.tx.WithinTx(ctx, func(repos port.Repositories) error {
		summary, err := w.summarizer.ComputeSummaryLocked(ctx, repos, customerID)
		if err != nil {
			return err
		}

		order = domain.NewOrder(summary, w.now().UTC())

		if err := repos.Orders.CreateOrder(ctx, order); err != nil {
			return err
		}

		if _, err := repos.Carts.ClearCart(ctx, customerID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, w.storageError(ctx, "create order", err)
	}

	if w.carts != nil {
		w.carts.Invalidate(ctx, customerID)
	}

	w.log(ctx).Info("order created",
		zap.Stringer("order_id", order.ID), zap.String("order_number", order.Number), zap.String("total", order.Total.String()))
	w.metrics.OrderTransitions.WithLabelValues(string(domain.OrderStatusCreated)).Inc()

	return order, nil
}

// Get returns the order if it belongs to customerID.
func (w *Workflow) Get(ctx context.Context, customerID string, orderID uuid.UUID) (domain.Order, error) {
	order, err := w.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, w.storageError(ctx, "get order", err)
	}
	if order.CustomerID != customerID {
		return domain.Order{}, fmt.Errorf("%w: order %s", domain.ErrUnauthorized, orderID)
	}
	return order, nil
}

// MarkPendingPayment records that a payment intent exists for the order.
func (w *Workflow) MarkPendingPayment(ctx context.Context, repos port.Repositories, order domain.Order) (domain.Order, error) {
	return w.transition(ctx, repos, order, domain.OrderStatusPendingPayment)
}

// MarkPaymentFailed records a declined payment.
func (w *Workflow) MarkPaymentFailed(ctx context.Context, repos port.Repositories, order domain.Order) (domain.Order, error) {
	return w.transition(ctx, repos, order, domain.OrderStatusPaymentFailed)
}

// ConfirmPaid consumes stock for a paid order and confirms it. When stock
// cannot be consumed the order moves to RequiresManualReview instead and the
// consume error is returned alongside the updated order; the caller's
// transaction must still commit so the state change is kept.
func (w *Workflow) ConfirmPaid(ctx context.Context, repos port.Repositories, order domain.Order) (domain.Order, error) {
	if order.Status != domain.OrderStatusPendingPayment {
		return order, fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, order.ID, order.Status)
	}

	consumeErr := w.consume(ctx, repos, order)
	if consumeErr != nil {
		reviewed, err := w.transition(ctx, repos, order, domain.OrderStatusRequiresManualReview)
		if err != nil {
			return order, err
		}

		w.log(ctx).Error("paid order needs manual review: inventory not consumed",
			zap.Stringer("order_id", order.ID), zap.String("order_number", order.Number), zap.Error(consumeErr))

		return reviewed, consumeErr
	}

	return w.transition(ctx, repos, order, domain.OrderStatusConfirmed)
}

// Cancel cancels an order on behalf of its customer. Stock already consumed
// by a confirmed order is released.
func (w *Workflow) Cancel(ctx context.Context, customerID string, orderID uuid.UUID) (domain.Order, error) {
	var cancelled domain.Order

	err := w.tx.WithinTx(ctx, func(repos port.Repositories) error {
		order, err := repos.Orders.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.CustomerID != customerID {
			return fmt.Errorf("%w: order %s", domain.ErrUnauthorized, orderID)
		}

		cancelled, err = w.cancel(ctx, repos, order)
		return err
	})
	if err != nil {
		return domain.Order{}, w.storageError(ctx, "cancel order", err)
	}

	return cancelled, nil
}

// ExpireStale cancels Created and PendingPayment orders created before
// now-olderThan, at most limit of them. Orders that moved on concurrently are
// skipped.
func (w *Workflow) ExpireStale(ctx context.Context, olderThan time.Duration, limit int32) (int, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("%w: olderThan must be positive", domain.ErrValidation)
	}

	stale, err := w.orders.ListByStatus(ctx,
		[]domain.OrderStatus{domain.OrderStatusCreated, domain.OrderStatusPendingPayment},
		w.now().Add(-olderThan), limit)
	if err != nil {
		return 0, w.storageError(ctx, "list stale orders", err)
	}

	expired := 0
	for _, order := range stale {
		err := w.tx.WithinTx(ctx, func(repos port.Repositories) error {
			_, err := w.transition(ctx, repos, order, domain.OrderStatusCancelled)
			return err
		})
		if errors.Is(err, domain.ErrInvalidState) {
			w.log(ctx).Info("stale order moved on, skipped", zap.Stringer("order_id", order.ID))
			continue
		}
		if err != nil {
			return expired, w.storageError(ctx, "expire order", err)
		}

		w.log(ctx).Info("stale order expired", zap.Stringer("order_id", order.ID), zap.String("status", string(order.Status)))
		expired++
	}

	return expired, nil
}

func (w *Workflow) ListManualReview(ctx context.Context, limit int32) ([]domain.Order, error) {
	orders, err := w.orders.ListByStatus(ctx,
		[]domain.OrderStatus{domain.OrderStatusRequiresManualReview}, w.now().Add(time.Minute), limit)
	if err != nil {
		return nil, w.storageError(ctx, "list manual review", err)
	}
	return orders, nil
}

// RetryManualReview retries stock consumption for a paid order parked in
// RequiresManualReview, confirming it on success.
func (w *Workflow) RetryManualReview(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var confirmed domain.Order

	err := w.tx.WithinTx(ctx, func(repos port.Repositories) error {
		order, err := repos.Orders.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusRequiresManualReview {
			return fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, order.ID, order.Status)
		}

		if err := w.consume(ctx, repos, order); err != nil {
			return err
		}

		confirmed, err = w.transition(ctx, repos, order, domain.OrderStatusConfirmed)
		return err
	})
	if err != nil {
		return domain.Order{}, w.storageError(ctx, "retry manual review", err)
	}

	w.log(ctx).Info("manual review resolved", zap.Stringer("order_id", orderID))

	return confirmed, nil
}

func (w *Workflow) cancel(ctx context.Context, repos port.Repositories, order domain.Order) (domain.Order, error) {
	if order.Status.IsTerminal() {
		return order, fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, order.ID, order.Status)
	}

	if !order.Status.IsPreConfirmed() {
		released, err := repos.Ledger.Release(ctx, order.ID, order.StockLines())
		if err != nil {
			return order, err
		}
		w.log(ctx).Warn("confirmed order cancelled, refund is handled outside checkout",
			zap.Stringer("order_id", order.ID), zap.Bool("stock_released", released))
	}

	return w.transition(ctx, repos, order, domain.OrderStatusCancelled)
}

func (w *Workflow) consume(ctx context.Context, repos port.Repositories, order domain.Order) error {
	applied, err := repos.Ledger.Consume(ctx, order.ID, order.StockLines())
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		w.metrics.InventoryConsume.WithLabelValues(metrics.ResultInsufficient).Inc()
	case err != nil:
		w.metrics.InventoryConsume.WithLabelValues(metrics.ResultError).Inc()
	case !applied:
		w.metrics.InventoryConsume.WithLabelValues(metrics.ResultAlreadyApplied).Inc()
	default:
		w.metrics.InventoryConsume.WithLabelValues(metrics.ResultOK).Inc()
	}
	return err
}

func (w *Workflow) transition(ctx context.Context, repos port.Repositories, order domain.Order, to domain.OrderStatus) (domain.Order, error) {
	if err := repos.Orders.TransitionStatus(ctx, order.ID, order.Status, to); err != nil {
		return order, err
	}

	w.log(ctx).Debug("order transitioned",
		zap.Stringer("order_id", order.ID), zap.String("from", string(order.Status)), zap.String("to", string(to)))
	w.metrics.OrderTransitions.WithLabelValues(string(to)).Inc()

	order.Status = to
	order.UpdatedAt = w.now().UTC()
	return order, nil
}

// storageError hides unclassified storage failures behind ErrDatabase.
func (w *Workflow) storageError(ctx context.Context, op string, err error) error {
	if domain.IsClassified(err) {
		return err
	}
	w.log(ctx).Error(op+" failed", zap.Error(err))
	return fmt.Errorf("%s: %w", op, domain.ErrDatabase)
}

func (w *Workflow) log(ctx context.Context) *zap.Logger {
	return logger.WithSpan(ctx, w.logger)
}
