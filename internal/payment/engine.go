// Package payment reconciles gateway payments with orders and inventory.
package payment

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
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/nikolayk812/checkout-demo/internal/payment"

type workflow interface {
	MarkPendingPayment(ctx context.Context, repos port.Repositories, order domain.Order) (domain.Order, error)
	MarkPaymentFailed(ctx context.Context, repos port.Repositories, order domain.Order) (domain.Order, error)
	ConfirmPaid(ctx context.Context, repos port.Repositories, order domain.Order) (domain.Order, error)
}

type Engine struct {
	tx       port.Transactor
	orders   port.OrderRepository
	payments port.PaymentRepository
	catalog  port.CatalogRepository
	gateway  port.PaymentGateway
	workflow workflow
	notifier port.Notifier

	metrics *metrics.Metrics
	logger  *zap.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

type Deps struct {
	Tx       port.Transactor
	Orders   port.OrderRepository
	Payments port.PaymentRepository
	Catalog  port.CatalogRepository
	Gateway  port.PaymentGateway
	Workflow workflow
	Notifier port.Notifier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewEngine(deps Deps) (*Engine, error) {
	switch {
	case deps.Tx == nil:
		return nil, fmt.Errorf("tx is nil")
	case deps.Orders == nil:
		return nil, fmt.Errorf("orders is nil")
	case deps.Payments == nil:
		return nil, fmt.Errorf("payments is nil")
	case deps.Catalog == nil:
		return nil, fmt.Errorf("catalog is nil")
	case deps.Gateway == nil:
		return nil, fmt.Errorf("gateway is nil")
	case deps.Workflow == nil:
		return nil, fmt.Errorf("workflow is nil")
	case deps.Notifier == nil:
		return nil, fmt.Errorf("notifier is nil")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger is nil")
	}

	e := &Engine{
		tx:       deps.Tx,
		orders:   deps.Orders,
		payments: deps.Payments,
		catalog:  deps.Catalog,
		gateway:  deps.Gateway,
		workflow: deps.Workflow,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With(zap.String("component", "payment_engine")),
		tracer:   otel.Tracer(tracerName),
		now:      deps.Now,
	}
	if e.metrics == nil {
		e.metrics = metrics.Nop()
	}
	if e.now == nil {
		e.now = time.Now
	}

	return e, nil
}

// Initiate opens a gateway payment intent for a Created order and records a
// pending payment. A gateway failure leaves no local trace, so it is safe to retry.
func (e *Engine) Initiate(ctx context.Context, customerID string, orderID uuid.UUID, method domain.PaymentMethod) (_ domain.PaymentIntentRef, err error) {
	ctx, span := e.tracer.Start(ctx, "payment.Initiate", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("payment.method", string(method)),
	))
	defer func() {
		endSpan(span, err)
		e.metrics.PaymentsInitiated.WithLabelValues(resultLabel(err)).Inc()
	}()

	if !method.Valid() {
		return domain.PaymentIntentRef{}, fmt.Errorf("%w: payment method %q", domain.ErrValidation, method)
	}

	order, err := e.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.PaymentIntentRef{}, e.storageError(ctx, "get order", err)
	}
	if order.CustomerID != customerID {
		return domain.PaymentIntentRef{}, fmt.Errorf("%w: order %s", domain.ErrUnauthorized, orderID)
	}
	if order.Status != domain.OrderStatusCreated {
		return domain.PaymentIntentRef{}, fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, orderID, order.Status)
	}

	intent, err := e.gateway.CreateIntent(ctx, order.Total, order.Number)
	if err != nil {
		e.log(ctx).Error("gateway create intent failed",
			zap.Stringer("order_id", order.ID), zap.String("amount", order.Total.String()), zap.Error(err))
		return domain.PaymentIntentRef{}, fmt.Errorf("create intent: %w", domain.ErrPaymentGateway)
	}
	if !intent.Amount.Equal(order.Total) {
		e.log(ctx).Error("gateway intent amount differs from order total",
			zap.Stringer("order_id", order.ID), zap.String("total", order.Total.String()), zap.String("intent_amount", intent.Amount.String()))
		return domain.PaymentIntentRef{}, fmt.Errorf("create intent: amount mismatch: %w", domain.ErrPaymentGateway)
	}

	now := e.now().UTC()
	payment := domain.Payment{
		ID:              uuid.New(),
		OrderID:         order.ID,
		Amount:          order.Total,
		Method:          method,
		Status:          domain.PaymentStatusPending,
		GatewayOrderRef: intent.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = e.tx.WithinTx(ctx, func(repos port.Repositories) error {
		if err := repos.Payments.CreatePayment(ctx, payment); err != nil {
			return err
		}
		_, err := e.workflow.MarkPendingPayment(ctx, repos, order)
		return err
	})
	if err != nil {
		return domain.PaymentIntentRef{}, e.storageError(ctx, "record payment", err)
	}

	e.log(ctx).Info("payment initiated",
		zap.Stringer("order_id", order.ID), zap.Stringer("payment_id", payment.ID), zap.String("gateway_order_ref", intent.ID))

	return domain.PaymentIntentRef{
		PaymentID:       payment.ID,
		OrderID:         order.ID,
		OrderNumber:     order.Number,
		GatewayOrderRef: intent.ID,
		Amount:          order.Total,
	}, nil
}

// Verify authenticates a successful payment callback and confirms the order
// exactly once. Replays and concurrent duplicates return the current snapshot.
// A paid order whose stock cannot be consumed is parked in
// RequiresManualReview; that is reported through the snapshot, not an error.
func (e *Engine) Verify(ctx context.Context, cb domain.Callback, expectedOrderRef string) (_ domain.PaymentDetails, err error) {
	ctx, span := e.tracer.Start(ctx, "payment.Verify", trace.WithAttributes(
		attribute.String("gateway.order_ref", expectedOrderRef),
	))
	outcome := metrics.OutcomeError
	defer func() {
		endSpan(span, err)
		e.metrics.Callbacks.WithLabelValues(outcome).Inc()
	}()

	if !e.authentic(cb, expectedOrderRef) {
		outcome = metrics.OutcomeInvalidSig
		e.log(ctx).Warn("callback signature rejected", zap.String("gateway_order_ref", expectedOrderRef))
		return domain.PaymentDetails{}, domain.ErrInvalidSignature
	}

	payment, err := e.payments.GetPaymentByGatewayRef(ctx, expectedOrderRef)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			outcome = metrics.OutcomeUnknown
		}
		return domain.PaymentDetails{}, e.storageError(ctx, "get payment", err)
	}

	switch payment.Status {
	case domain.PaymentStatusSuccess:
		outcome = metrics.OutcomeReplay
		e.log(ctx).Info("callback replay", zap.Stringer("payment_id", payment.ID))
		return e.snapshot(ctx, payment.OrderID)
	case domain.PaymentStatusFailed:
		return domain.PaymentDetails{}, fmt.Errorf("%w: payment %s already failed", domain.ErrInvalidState, payment.ID)
	}

	var (
		confirmed  bool
		swapped    bool
		consumeErr error
	)

	err = e.tx.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		swapped, err = repos.Payments.MarkSucceeded(ctx, payment.ID, cb.PaymentRef, e.now().UTC())
		if err != nil || !swapped {
			return err
		}

		order, err := repos.Orders.GetOrder(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPendingPayment {
			// captured money is recorded even though the order can no longer be confirmed
			e.log(ctx).Error("reconciliation gap: payment captured for order that is not awaiting payment",
				zap.Stringer("order_id", order.ID), zap.String("order_status", string(order.Status)), zap.Stringer("payment_id", payment.ID))
			outcome = metrics.OutcomeReconcileGap
			return nil
		}

		updated, err := e.workflow.ConfirmPaid(ctx, repos, order)
		if err != nil && updated.Status != domain.OrderStatusRequiresManualReview {
			return err
		}
		consumeErr = err
		confirmed = updated.Status == domain.OrderStatusConfirmed
		return nil
	})
	if err != nil {
		return domain.PaymentDetails{}, e.storageError(ctx, "confirm payment", err)
	}

	switch {
	case !swapped:
		outcome = metrics.OutcomeReplay
		e.log(ctx).Info("concurrent callback lost the race, replaying", zap.Stringer("payment_id", payment.ID))
	case consumeErr != nil:
		outcome = metrics.OutcomeManualReview
		span.AddEvent("order.requires_manual_review")
	case confirmed:
		outcome = metrics.OutcomeConfirmed
	}

	details, err := e.snapshot(ctx, payment.OrderID)
	if err != nil {
		return domain.PaymentDetails{}, err
	}

	if confirmed {
		e.notify(ctx, details)
	}

	return details, nil
}

// Fail records a declined payment reported by the gateway. The callback is
// authenticated like Verify.
func (e *Engine) Fail(ctx context.Context, cb domain.Callback, expectedOrderRef, reason string) (_ domain.PaymentDetails, err error) {
	ctx, span := e.tracer.Start(ctx, "payment.Fail", trace.WithAttributes(
		attribute.String("gateway.order_ref", expectedOrderRef),
	))
	outcome := metrics.OutcomeError
	defer func() {
		endSpan(span, err)
		e.metrics.Callbacks.WithLabelValues(outcome).Inc()
	}()

	if !e.authentic(cb, expectedOrderRef) {
		outcome = metrics.OutcomeInvalidSig
		e.log(ctx).Warn("failure callback signature rejected", zap.String("gateway_order_ref", expectedOrderRef))
		return domain.PaymentDetails{}, domain.ErrInvalidSignature
	}

	payment, err := e.payments.GetPaymentByGatewayRef(ctx, expectedOrderRef)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			outcome = metrics.OutcomeUnknown
		}
		return domain.PaymentDetails{}, e.storageError(ctx, "get payment", err)
	}

	switch payment.Status {
	case domain.PaymentStatusFailed:
		outcome = metrics.OutcomeReplay
		return e.snapshot(ctx, payment.OrderID)
	case domain.PaymentStatusSuccess:
		return domain.PaymentDetails{}, fmt.Errorf("%w: payment %s already succeeded", domain.ErrInvalidState, payment.ID)
	}

	var swapped bool
	err = e.tx.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		swapped, err = repos.Payments.MarkFailed(ctx, payment.ID, cb.PaymentRef, reason)
		if err != nil || !swapped {
			return err
		}

		order, err := repos.Orders.GetOrder(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPendingPayment {
			e.log(ctx).Warn("payment failed for order that is not awaiting payment",
				zap.Stringer("order_id", order.ID), zap.String("order_status", string(order.Status)))
			return nil
		}

		_, err = e.workflow.MarkPaymentFailed(ctx, repos, order)
		return err
	})
	if err != nil {
		return domain.PaymentDetails{}, e.storageError(ctx, "fail payment", err)
	}

	if swapped {
		outcome = metrics.OutcomeFailed
		e.log(ctx).Info("payment failed", zap.Stringer("payment_id", payment.ID), zap.String("reason", reason))
	} else {
		outcome = metrics.OutcomeReplay
	}

	return e.snapshot(ctx, payment.OrderID)
}

// Details returns the payment and order of a customer's order.
func (e *Engine) Details(ctx context.Context, customerID string, orderID uuid.UUID) (domain.PaymentDetails, error) {
	details, err := e.snapshot(ctx, orderID)
	if err != nil {
		return domain.PaymentDetails{}, err
	}
	if details.Order.CustomerID != customerID {
		return domain.PaymentDetails{}, fmt.Errorf("%w: order %s", domain.ErrUnauthorized, orderID)
	}
	return details, nil
}

// authentic checks the signature against the order reference this service
// issued, never the one echoed in the callback.
func (e *Engine) authentic(cb domain.Callback, expectedOrderRef string) bool {
	if expectedOrderRef == "" || cb.PaymentRef == "" || cb.Signature == "" {
		return false
	}
	if cb.OrderRef != "" && cb.OrderRef != expectedOrderRef {
		return false
	}
	return e.gateway.VerifySignature(expectedOrderRef, cb.PaymentRef, cb.Signature)
}

func (e *Engine) snapshot(ctx context.Context, orderID uuid.UUID) (domain.PaymentDetails, error) {
	payment, err := e.payments.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		return domain.PaymentDetails{}, e.storageError(ctx, "get payment", err)
	}

	order, err := e.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.PaymentDetails{}, e.storageError(ctx, "get order", err)
	}

	return domain.PaymentDetails{Payment: payment, Order: order}, nil
}

// notify never fails the caller: stock and money are already committed.
func (e *Engine) notify(ctx context.Context, details domain.PaymentDetails) {
	customer, err := e.catalog.GetCustomer(ctx, details.Order.CustomerID)
	if err != nil {
		e.log(ctx).Warn("order confirmation skipped: customer lookup failed",
			zap.Stringer("order_id", details.Order.ID), zap.Error(err))
		return
	}

	msg := port.OrderConfirmation{
		OrderID:     details.Order.ID.String(),
		Email:       customer.Email,
		Name:        customer.Name,
		OrderNumber: details.Order.Number,
		Amount:      details.Payment.Amount.Decimal(),
		Currency:    details.Payment.Amount.Currency.String(),
		Method:      details.Payment.Method,
	}

	if err := e.notifier.SendOrderConfirmation(ctx, msg); err != nil {
		e.log(ctx).Warn("order confirmation not sent",
			zap.Stringer("order_id", details.Order.ID), zap.Error(err))
	}
}

// storageError hides unclassified storage failures behind ErrDatabase.
func (e *Engine) storageError(ctx context.Context, op string, err error) error {
	if domain.IsClassified(err) {
		return err
	}
	e.log(ctx).Error(op+" failed", zap.Error(err))
	return fmt.Errorf("%s: %w", op, domain.ErrDatabase)
}

func (e *Engine) log(ctx context.Context) *zap.Logger {
	return logger.WithSpan(ctx, e.logger)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.KindOf(err)))
	}
	span.End()
}

func resultLabel(err error) string {
	if err != nil {
		return string(domain.KindOf(err))
	}
	return metrics.ResultOK
}
