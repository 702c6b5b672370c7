package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment domain.Payment) error
	GetPaymentByGatewayRef(ctx context.Context, gatewayOrderRef string) (domain.Payment, error)
	GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (domain.Payment, error)

	// MarkSucceeded and MarkFailed only move a pending payment. They report
	// false when another caller already moved it.
	MarkSucceeded(ctx context.Context, paymentID uuid.UUID, gatewayPaymentRef string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, paymentID uuid.UUID, gatewayPaymentRef, reason string) (bool, error)
}

// PaymentGateway is the remote payment provider.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount domain.Money, receipt string) (domain.PaymentIntent, error)
	VerifySignature(orderRef, paymentRef, signature string) bool
}
