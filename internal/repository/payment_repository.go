package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"golang.org/x/text/currency"
)

type paymentRepository struct {
	q *db.Queries
}

func NewPayment(pool *pgxpool.Pool) port.PaymentRepository {
	return &paymentRepository{q: db.New(pool)}
}

func NewPaymentWithTx(tx pgx.Tx) port.PaymentRepository {
	return &paymentRepository{q: db.New(tx)}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment domain.Payment) error {
	if payment.ID == uuid.Nil {
		return fmt.Errorf("payment.ID is empty")
	}
	if payment.GatewayOrderRef == "" {
		return fmt.Errorf("payment.GatewayOrderRef is empty")
	}

	err := r.q.CreatePayment(ctx, db.CreatePaymentParams{
		ID:              payment.ID,
		OrderID:         payment.OrderID,
		Amount:          payment.Amount.Amount,
		Currency:        payment.Amount.Currency.String(),
		Method:          string(payment.Method),
		Status:          string(payment.Status),
		GatewayOrderRef: payment.GatewayOrderRef,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
	})
	if err != nil {
		if hasPgCode(err, pgUniqueViolation) {
			return fmt.Errorf("payment for order %s: %w", payment.OrderID, domain.ErrConflict)
		}
		return fmt.Errorf("q.CreatePayment: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetPaymentByGatewayRef(ctx context.Context, gatewayOrderRef string) (domain.Payment, error) {
	if gatewayOrderRef == "" {
		return domain.Payment{}, fmt.Errorf("gatewayOrderRef is empty")
	}

	row, err := r.q.GetPaymentByGatewayOrderRef(ctx, gatewayOrderRef)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	if err != nil {
		return domain.Payment{}, fmt.Errorf("q.GetPaymentByGatewayOrderRef: %w", err)
	}

	return mapPaymentToDomain(row)
}

func (r *paymentRepository) GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (domain.Payment, error) {
	row, err := r.q.GetPaymentByOrderID(ctx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	if err != nil {
		return domain.Payment{}, fmt.Errorf("q.GetPaymentByOrderID: %w", err)
	}

	return mapPaymentToDomain(row)
}

func (r *paymentRepository) MarkSucceeded(ctx context.Context, paymentID uuid.UUID, gatewayPaymentRef string, paidAt time.Time) (bool, error) {
	rowsAffected, err := r.q.MarkPaymentSucceeded(ctx, db.MarkPaymentSucceededParams{
		GatewayPaymentRef: toText(gatewayPaymentRef),
		PaymentDate:       pgtype.Timestamptz{Time: paidAt, Valid: true},
		ID:                paymentID,
	})
	if err != nil {
		return false, fmt.Errorf("q.MarkPaymentSucceeded: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, paymentID uuid.UUID, gatewayPaymentRef, reason string) (bool, error) {
	rowsAffected, err := r.q.MarkPaymentFailed(ctx, db.MarkPaymentFailedParams{
		GatewayPaymentRef: toText(gatewayPaymentRef),
		FailureReason:     toText(reason),
		ID:                paymentID,
	})
	if err != nil {
		return false, fmt.Errorf("q.MarkPaymentFailed: %w", err)
	}

	return rowsAffected > 0, nil
}

func mapPaymentToDomain(row db.Payment) (domain.Payment, error) {
	unit, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	payment := domain.Payment{
		ID:                row.ID,
		OrderID:           row.OrderID,
		Amount:            domain.Money{Amount: row.Amount, Currency: unit},
		Method:            domain.PaymentMethod(row.Method),
		Status:            domain.PaymentStatus(row.Status),
		GatewayOrderRef:   row.GatewayOrderRef,
		GatewayPaymentRef: row.GatewayPaymentRef.String,
		FailureReason:     row.FailureReason.String,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.PaymentDate.Valid {
		paidAt := row.PaymentDate.Time
		payment.PaymentDate = &paidAt
	}

	return payment, nil
}

func toText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
