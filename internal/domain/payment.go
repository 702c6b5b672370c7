package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetBanking, PaymentMethodWallet:
		return true
	}
	return false
}

// Payment references its order by id only. Amount equals the order total at
// creation and is never updated.
type Payment struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	Amount  Money
	Method  PaymentMethod
	Status  PaymentStatus

	// GatewayOrderRef is the remote intent id returned by the gateway.
	GatewayOrderRef   string
	GatewayPaymentRef string
	FailureReason     string
	PaymentDate       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentIntent is the gateway-side reservation of an amount.
type PaymentIntent struct {
	ID      string
	Amount  Money
	Receipt string
}

// PaymentIntentRef is what a customer needs to complete payment with the gateway.
type PaymentIntentRef struct {
	PaymentID       uuid.UUID
	OrderID         uuid.UUID
	OrderNumber     string
	GatewayOrderRef string
	Amount          Money
}

// Callback is the payload the gateway delivers after the customer pays.
type Callback struct {
	OrderRef   string
	PaymentRef string
	Signature  string
}

// PaymentDetails is the payment plus order snapshot returned by verification.
type PaymentDetails struct {
	Payment Payment
	Order   Order
}
